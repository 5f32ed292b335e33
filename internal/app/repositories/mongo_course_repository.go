package repositories

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const courseIndexName = "department_level_semester"

// courseDocument is the stored shape of a course
type courseDocument struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Title            string               `bson:"title"`
	Department       string               `bson:"department"`
	Level            string               `bson:"level"`
	Semester         string               `bson:"semester"`
	Credits          float64              `bson:"credits"`
	EnrolledStudents []primitive.ObjectID `bson:"enrolledStudents"`
}

// reportDocument is the single document produced by the report pipeline
type reportDocument struct {
	AverageCredits float64          `bson:"averageCredits"`
	TotalCourses   int64            `bson:"totalCourses"`
	Courses        []courseDocument `bson:"courses"`
}

func (d courseDocument) toModel() models.Course {
	students := make([]string, 0, len(d.EnrolledStudents))
	for _, id := range d.EnrolledStudents {
		students = append(students, id.Hex())
	}
	return models.Course{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		Department:       d.Department,
		Level:            d.Level,
		Semester:         d.Semester,
		Credits:          d.Credits,
		EnrolledStudents: students,
	}
}

func newCourseDocument(c models.Course) (courseDocument, error) {
	students := make([]primitive.ObjectID, 0, len(c.EnrolledStudents))
	for _, hex := range c.EnrolledStudents {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return courseDocument{}, apperrors.NewValidationError(fmt.Sprintf("invalid student reference %q", hex))
		}
		students = append(students, id)
	}
	return courseDocument{
		Title:            c.Title,
		Department:       c.Department,
		Level:            c.Level,
		Semester:         c.Semester,
		Credits:          c.Credits,
		EnrolledStudents: students,
	}, nil
}

// MongoCourseRepository stores courses in a MongoDB collection.
// Calls made with a mongo.SessionContext join that session's transaction.
type MongoCourseRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoCourseRepository creates a new course repository over the given collection
func NewMongoCourseRepository(database *db.MongoDB, collection string, lgr zerolog.Logger) *MongoCourseRepository {
	return newMongoCourseRepository(database.Collection(collection), lgr)
}

func newMongoCourseRepository(collection *mongo.Collection, lgr zerolog.Logger) *MongoCourseRepository {
	return &MongoCourseRepository{
		collection: collection,
		logger:     lgr.With().Str("repository", "courses").Str("driver", "mongodb").Logger(),
	}
}

// EnsureIndexes creates the compound index used by filtered lookups and reports
func (r *MongoCourseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "department", Value: 1}, {Key: "level", Value: 1}, {Key: "semester", Value: 1}},
		Options: options.Index().SetName(courseIndexName),
	})
	if err != nil {
		return fmt.Errorf("error creating course index: %w", err)
	}
	return nil
}

// ListAll retrieves all courses
func (r *MongoCourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error retrieving courses: %w", err))
	}

	var docs []courseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error decoding courses: %w", err))
	}

	return documentsToModels(docs), nil
}

// Create inserts a new course
func (r *MongoCourseRepository) Create(ctx context.Context, course models.Course) (*models.Course, error) {
	doc, err := newCourseDocument(course)
	if err != nil {
		return nil, err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error creating course: %w", err))
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, apperrors.NewStoreError(fmt.Errorf("unexpected inserted id type %T", result.InsertedID))
	}
	doc.ID = id

	created := doc.toModel()
	return &created, nil
}

// GetByID retrieves a course by ID
func (r *MongoCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrCourseNotFound
	}

	var doc courseDocument
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: objectID}}).Decode(&doc); err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.NewStoreError(fmt.Errorf("error retrieving course: %w", err))
	}

	course := doc.toModel()
	return &course, nil
}

// Replace overwrites an existing course
func (r *MongoCourseRepository) Replace(ctx context.Context, course models.Course) (*models.Course, error) {
	objectID, err := primitive.ObjectIDFromHex(course.ID)
	if err != nil {
		return nil, apperrors.ErrCourseNotFound
	}

	doc, err := newCourseDocument(course)
	if err != nil {
		return nil, err
	}

	result, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: objectID}}, doc)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error updating course: %w", err))
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.ErrCourseNotFound
	}

	doc.ID = objectID
	updated := doc.toModel()
	return &updated, nil
}

// Delete deletes a course by ID
func (r *MongoCourseRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrCourseNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: objectID}})
	if err != nil {
		return apperrors.NewStoreError(fmt.Errorf("error deleting course: %w", err))
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Report runs the filtered aggregation pipeline
func (r *MongoCourseRepository) Report(ctx context.Context, filter models.ReportFilter) (*models.CourseReport, error) {
	r.logger.Debug().Interface("match", reportMatchStage(filter)).Msg("Running course report pipeline")

	cursor, err := r.collection.Aggregate(ctx, reportPipeline(filter))
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error aggregating courses: %w", err))
	}

	var results []reportDocument
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error decoding course report: %w", err))
	}

	// $group emits nothing when $match selected no documents
	if len(results) == 0 {
		return models.EmptyCourseReport(), nil
	}

	return &models.CourseReport{
		AverageCredits: results[0].AverageCredits,
		TotalCourses:   results[0].TotalCourses,
		Courses:        documentsToModels(results[0].Courses),
	}, nil
}

// Count returns the number of stored courses
func (r *MongoCourseRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, apperrors.NewStoreError(fmt.Errorf("error counting courses: %w", err))
	}
	return n, nil
}

// reportMatchStage builds the $match filter; empty filters add no clause
func reportMatchStage(filter models.ReportFilter) bson.D {
	match := bson.D{}
	if filter.Department != "" {
		match = append(match, bson.E{Key: "department", Value: filter.Department})
	}
	if filter.Level != "" {
		match = append(match, bson.E{Key: "level", Value: filter.Level})
	}
	if filter.Semester != "" {
		match = append(match, bson.E{Key: "semester", Value: filter.Semester})
	}
	return match
}

// reportPipeline groups the matching courses into totals plus the full course list
func reportPipeline(filter models.ReportFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: reportMatchStage(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalCredits", Value: bson.D{{Key: "$sum", Value: "$credits"}}},
			{Key: "totalCourses", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "courses", Value: bson.D{{Key: "$push", Value: "$$ROOT"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "averageCredits", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{"$totalCourses", 0}}}},
				{Key: "then", Value: 0},
				{Key: "else", Value: bson.D{{Key: "$divide", Value: bson.A{"$totalCredits", "$totalCourses"}}}},
			}}}},
			{Key: "totalCourses", Value: 1},
			{Key: "courses", Value: 1},
		}}},
	}
}

func documentsToModels(docs []courseDocument) []models.Course {
	courses := make([]models.Course, 0, len(docs))
	for _, d := range docs {
		courses = append(courses, d.toModel())
	}
	return courses
}
