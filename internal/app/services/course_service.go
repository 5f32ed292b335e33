package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	GenerateReport(ctx context.Context, filter models.ReportFilter) (*models.CourseReport, error)
}

// courseServiceImpl implements the CourseService interface.
// Every operation is one unit of work, so the transactional and direct
// variants share this implementation.
type courseServiceImpl struct {
	uow    repositories.UnitOfWork
	logger zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(uow repositories.UnitOfWork, lgr zerolog.Logger) CourseService {
	return &courseServiceImpl{
		uow:    uow,
		logger: lgr.With().Str("service", "courses").Logger(),
	}
}

// ListCourses retrieves all courses
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.CourseRepository) error {
		var err error
		courses, err = repo.ListAll(ctx)
		return err
	})
	if err != nil {
		s.logError(err, "Failed to list courses")
		return nil, err
	}

	if courses == nil {
		courses = []models.Course{}
	}
	for i := range courses {
		courses[i].Normalize()
	}
	return courses, nil
}

// CreateCourse validates the request and persists a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	var created *models.Course
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.CourseRepository) error {
		if err := validation.Struct(req); err != nil {
			return err
		}

		var err error
		created, err = repo.Create(ctx, req.ToCourse())
		return err
	})
	if err != nil {
		s.logError(err, "Failed to create course")
		return nil, err
	}

	created.Normalize()
	s.logger.Info().Str("course_id", created.ID).Str("title", created.Title).Msg("Course created")
	return created, nil
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var course *models.Course
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.CourseRepository) error {
		var err error
		course, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		s.logError(err, "Failed to get course")
		return nil, err
	}

	course.Normalize()
	return course, nil
}

// UpdateCourse applies the fields present in req to the stored course.
// The read, merge, validation and write all happen in the same unit of work.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*models.Course, error) {
	patch := req.ToPatch()

	var updated *models.Course
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.CourseRepository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		patch.ApplyTo(current)
		if err := validation.Struct(current); err != nil {
			return err
		}

		updated, err = repo.Replace(ctx, *current)
		return err
	})
	if err != nil {
		s.logError(err, "Failed to update course")
		return nil, err
	}

	updated.Normalize()
	s.logger.Info().Str("course_id", updated.ID).Bool("empty_patch", patch.IsEmpty()).Msg("Course updated")
	return updated, nil
}

// DeleteCourse deletes a course by ID
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id string) error {
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.CourseRepository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		s.logError(err, "Failed to delete course")
		return err
	}

	s.logger.Info().Str("course_id", id).Msg("Course deleted")
	return nil
}

// GenerateReport aggregates the courses matching filter
func (s *courseServiceImpl) GenerateReport(ctx context.Context, filter models.ReportFilter) (*models.CourseReport, error) {
	var report *models.CourseReport
	err := s.uow.Do(ctx, func(ctx context.Context, repo repositories.CourseRepository) error {
		var err error
		report, err = repo.Report(ctx, filter)
		return err
	})
	if err != nil {
		s.logError(err, "Failed to generate course report")
		return nil, err
	}

	if report == nil {
		return models.EmptyCourseReport(), nil
	}
	if report.Courses == nil {
		report.Courses = []models.Course{}
	}
	for i := range report.Courses {
		report.Courses[i].Normalize()
	}
	return report, nil
}

// logError logs store failures at error level; client errors only at debug
func (s *courseServiceImpl) logError(err error, msg string) {
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrValidationFailed, apperrors.ErrBadRequest) {
		s.logger.Debug().Err(err).Msg(msg)
		return
	}
	s.logger.Error().Err(err).Msg(msg)
}
