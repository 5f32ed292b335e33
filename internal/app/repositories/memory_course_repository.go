package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// MemoryCourseRepository keeps courses in process memory. It backs tests and
// ephemeral local runs; nothing survives a restart.
type MemoryCourseRepository struct {
	mu      sync.RWMutex
	courses map[string]models.Course
	order   []string

	// held by the transactional unit of work for the whole unit
	txMu sync.Mutex

	logger zerolog.Logger
}

type memorySnapshot struct {
	courses map[string]models.Course
	order   []string
}

// NewMemoryCourseRepository creates an empty in-memory course repository
func NewMemoryCourseRepository(lgr zerolog.Logger) *MemoryCourseRepository {
	return &MemoryCourseRepository{
		courses: make(map[string]models.Course),
		logger:  lgr.With().Str("repository", "courses").Str("driver", "memory").Logger(),
	}
}

// ListAll returns courses in insertion order
func (r *MemoryCourseRepository) ListAll(_ context.Context) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]models.Course, 0, len(r.order))
	for _, id := range r.order {
		courses = append(courses, cloneCourse(r.courses[id]))
	}
	return courses, nil
}

// Create stores a copy of course under a fresh id
func (r *MemoryCourseRepository) Create(_ context.Context, course models.Course) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	course = cloneCourse(course)
	course.ID = uuid.NewString()
	r.courses[course.ID] = course
	r.order = append(r.order, course.ID)

	created := cloneCourse(course)
	return &created, nil
}

// GetByID retrieves a course by ID
func (r *MemoryCourseRepository) GetByID(_ context.Context, id string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	found := cloneCourse(course)
	return &found, nil
}

// Replace overwrites an existing course
func (r *MemoryCourseRepository) Replace(_ context.Context, course models.Course) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[course.ID]; !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	course = cloneCourse(course)
	r.courses[course.ID] = course

	updated := cloneCourse(course)
	return &updated, nil
}

// Delete removes a course by ID
func (r *MemoryCourseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Report filters the stored courses and computes their totals
func (r *MemoryCourseRepository) Report(ctx context.Context, filter models.ReportFilter) (*models.CourseReport, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Course, 0, len(all))
	for _, c := range all {
		if filter.Matches(c) {
			matched = append(matched, c)
		}
	}
	return models.NewCourseReport(matched), nil
}

// Count returns the number of stored courses
func (r *MemoryCourseRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.courses)), nil
}

func (r *MemoryCourseRepository) snapshot() memorySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := memorySnapshot{
		courses: make(map[string]models.Course, len(r.courses)),
		order:   append([]string(nil), r.order...),
	}
	for id, c := range r.courses {
		snap.courses[id] = cloneCourse(c)
	}
	return snap
}

func (r *MemoryCourseRepository) restore(snap memorySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courses = snap.courses
	r.order = snap.order
	r.logger.Debug().Msg("Rolled back in-memory unit of work")
}

func cloneCourse(c models.Course) models.Course {
	c.EnrolledStudents = append([]string{}, c.EnrolledStudents...)
	return c
}
