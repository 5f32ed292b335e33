package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
)

const courseColumns = `id, title, department, level, semester, credits, enrolled_students`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresCourseRepository handles database operations for courses in PostgreSQL
type PostgresCourseRepository struct {
	db     querier
	logger zerolog.Logger
}

// NewPostgresCourseRepository creates a new course repository
func NewPostgresCourseRepository(database *db.PostgresDB, lgr zerolog.Logger) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db:     database.Pool,
		logger: lgr.With().Str("repository", "courses").Str("driver", "postgres").Logger(),
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *PostgresCourseRepository) WithTx(tx pgx.Tx) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: tx, logger: r.logger}
}

func scanCourse(row pgx.Row, extra ...any) (models.Course, error) {
	var (
		course models.Course
		id     uuid.UUID
	)
	dest := append([]any{
		&id,
		&course.Title,
		&course.Department,
		&course.Level,
		&course.Semester,
		&course.Credits,
		&course.EnrolledStudents,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return models.Course{}, err
	}
	course.ID = id.String()
	course.Normalize()
	return course, nil
}

// ListAll retrieves all courses
func (r *PostgresCourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses`)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error retrieving courses: %w", err))
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, apperrors.NewStoreError(fmt.Errorf("error scanning course: %w", err))
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	return courses, nil
}

// Create creates a new course; the id is assigned by the database
func (r *PostgresCourseRepository) Create(ctx context.Context, course models.Course) (*models.Course, error) {
	query := `
		INSERT INTO courses (title, department, level, semester, credits, enrolled_students)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + courseColumns

	course.Normalize()
	created, err := scanCourse(r.db.QueryRow(ctx, query,
		course.Title, course.Department, course.Level, course.Semester, course.Credits, course.EnrolledStudents))
	if err != nil {
		if dberrors.IsConstraintViolation(err) {
			return nil, apperrors.NewValidationError(err.Error())
		}
		return nil, apperrors.NewStoreError(fmt.Errorf("error creating course: %w", err))
	}

	return &created, nil
}

// GetByID retrieves a course by ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	courseID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrCourseNotFound
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, courseID))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.NewStoreError(fmt.Errorf("error retrieving course: %w", err))
	}

	return &course, nil
}

// Replace updates every mutable column of an existing course
func (r *PostgresCourseRepository) Replace(ctx context.Context, course models.Course) (*models.Course, error) {
	courseID, err := uuid.Parse(course.ID)
	if err != nil {
		return nil, apperrors.ErrCourseNotFound
	}

	query := `
		UPDATE courses
		SET title = $2, department = $3, level = $4, semester = $5, credits = $6, enrolled_students = $7
		WHERE id = $1
		RETURNING ` + courseColumns

	course.Normalize()
	updated, err := scanCourse(r.db.QueryRow(ctx, query, courseID,
		course.Title, course.Department, course.Level, course.Semester, course.Credits, course.EnrolledStudents))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		if dberrors.IsConstraintViolation(err) {
			return nil, apperrors.NewValidationError(err.Error())
		}
		return nil, apperrors.NewStoreError(fmt.Errorf("error updating course: %w", err))
	}

	return &updated, nil
}

// Delete deletes a course by ID
func (r *PostgresCourseRepository) Delete(ctx context.Context, id string) error {
	courseID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrCourseNotFound
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return apperrors.NewStoreError(fmt.Errorf("error deleting course: %w", err))
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Report returns the matching courses together with their totals in a single query
func (r *PostgresCourseRepository) Report(ctx context.Context, filter models.ReportFilter) (*models.CourseReport, error) {
	query, args := buildReportQuery(filter)
	r.logger.Debug().Str("query", query).Int("filters", len(args)).Msg("Running course report query")

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("error aggregating courses: %w", err))
	}
	defer rows.Close()

	report := models.EmptyCourseReport()
	var totalCredits float64
	for rows.Next() {
		course, err := scanCourse(rows, &report.TotalCourses, &totalCredits)
		if err != nil {
			return nil, apperrors.NewStoreError(fmt.Errorf("error scanning course report: %w", err))
		}
		report.Courses = append(report.Courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	if report.TotalCourses > 0 {
		report.AverageCredits = totalCredits / float64(report.TotalCourses)
	}
	return report, nil
}

// Count returns the number of stored courses
func (r *PostgresCourseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, apperrors.NewStoreError(fmt.Errorf("error counting courses: %w", err))
	}
	return n, nil
}

// buildReportQuery builds the report SELECT; empty filters add no WHERE clause
func buildReportQuery(filter models.ReportFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("department", filter.Department)
	add("level", filter.Level)
	add("semester", filter.Semester)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + courseColumns + `, COUNT(*) OVER () AS total_courses, SUM(credits) OVER () AS total_credits FROM courses`)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	return sb.String(), args
}
