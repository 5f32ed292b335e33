package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// These tests run the repository against mongo-driver's mock deployment, which
// answers each command with the next queued server reply.

func mockRepo(mt *mtest.T) (*MongoCourseRepository, string) {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	return newMongoCourseRepository(mt.Coll, zerolog.Nop()), ns
}

func courseReply(id primitive.ObjectID, title string, credits float64, students ...primitive.ObjectID) bson.D {
	enrolled := bson.A{}
	for _, s := range students {
		enrolled = append(enrolled, s)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "department", Value: "CS"},
		{Key: "level", Value: "100"},
		{Key: "semester", Value: "F24"},
		{Key: "credits", Value: credits},
		{Key: "enrolledStudents", Value: enrolled},
	}
}

func TestMongoCourseRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns the generated id", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		created, err := repo.Create(context.Background(), models.Course{
			Title: "Intro", Department: "CS", Level: "100", Semester: "F24", Credits: 3,
		})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(created.ID); err != nil {
			mt.Fatalf("id is not an object id: %q", created.ID)
		}
		if created.Title != "Intro" || created.Credits != 3 || created.EnrolledStudents == nil {
			mt.Fatalf("unexpected course: %+v", created)
		}
	})

	mt.Run("surfaces server errors as store failures", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized on coursehub",
		}))

		_, err := repo.Create(context.Background(), models.Course{Title: "Intro"})
		if !errors.Is(err, apperrors.ErrStoreFailure) {
			mt.Fatalf("expected store failure, got %v", err)
		}
	})
}

func TestMongoCourseRepositoryGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes the stored document", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		id, student := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, courseReply(id, "Intro", 4, student)))

		course, err := repo.GetByID(context.Background(), id.Hex())
		if err != nil {
			mt.Fatalf("GetByID: %v", err)
		}
		if course.ID != id.Hex() || course.Credits != 4 {
			mt.Fatalf("unexpected course: %+v", course)
		}
		if len(course.EnrolledStudents) != 1 || course.EnrolledStudents[0] != student.Hex() {
			mt.Fatalf("students: %v", course.EnrolledStudents)
		}
	})

	mt.Run("empty batch is not found", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, apperrors.ErrCourseNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestMongoCourseRepositoryReplaceAndDeleteCounts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("replace matched", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		updated, err := repo.Replace(context.Background(), models.Course{ID: id.Hex(), Title: "Renamed", Credits: 0})
		if err != nil {
			mt.Fatalf("Replace: %v", err)
		}
		if updated.ID != id.Hex() || updated.Title != "Renamed" {
			mt.Fatalf("unexpected course: %+v", updated)
		}
	})

	mt.Run("replace matched nothing", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		_, err := repo.Replace(context.Background(), models.Course{ID: primitive.NewObjectID().Hex()})
		if !errors.Is(err, apperrors.ErrCourseNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})

	mt.Run("delete removed one", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := repo.Delete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("Delete: %v", err)
		}
	})

	mt.Run("delete removed nothing", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, apperrors.ErrCourseNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestMongoCourseRepositoryReport(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes the grouped document", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		// $sum of 1 comes back from the server as an int32
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "averageCredits", Value: 3.5},
			{Key: "totalCourses", Value: int32(2)},
			{Key: "courses", Value: bson.A{courseReply(first, "A", 3), courseReply(second, "B", 4)}},
		}))

		report, err := repo.Report(context.Background(), models.ReportFilter{Department: "CS"})
		if err != nil {
			mt.Fatalf("Report: %v", err)
		}
		if report.TotalCourses != 2 || report.AverageCredits != 3.5 {
			mt.Fatalf("totals: %+v", report)
		}
		if len(report.Courses) != 2 || report.Courses[0].ID != first.Hex() || report.Courses[1].Title != "B" {
			mt.Fatalf("courses: %+v", report.Courses)
		}
	})

	mt.Run("no groups yields the empty report", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		report, err := repo.Report(context.Background(), models.ReportFilter{Level: "900"})
		if err != nil {
			mt.Fatalf("Report: %v", err)
		}
		if report.TotalCourses != 0 || report.AverageCredits != 0 || report.Courses == nil || len(report.Courses) != 0 {
			mt.Fatalf("expected empty report, got %+v", report)
		}
	})
}

func TestMongoCourseRepositoryListAllAndCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			courseReply(primitive.NewObjectID(), "A", 3),
			courseReply(primitive.NewObjectID(), "B", 2),
		))

		courses, err := repo.ListAll(context.Background())
		if err != nil {
			mt.Fatalf("ListAll: %v", err)
		}
		if len(courses) != 2 || courses[1].Title != "B" {
			mt.Fatalf("courses: %+v", courses)
		}
	})

	mt.Run("count", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: 1},
			{Key: "n", Value: int32(5)},
		}))

		n, err := repo.Count(context.Background())
		if err != nil {
			mt.Fatalf("Count: %v", err)
		}
		if n != 5 {
			mt.Fatalf("count: got %d", n)
		}
	})
}
