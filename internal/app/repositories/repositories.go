package repositories

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
)

// CourseRepository mediates every read and write of course records.
// Implementations return apperrors.ErrCourseNotFound when no record matches an id
// and wrap backend failures with apperrors.NewStoreError.
type CourseRepository interface {
	// ListAll returns every course; an empty store yields an empty slice
	ListAll(ctx context.Context) ([]models.Course, error)
	// Create persists a new course and returns it with its store-assigned id
	Create(ctx context.Context, course models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// Replace overwrites the stored course that has course.ID
	Replace(ctx context.Context, course models.Course) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	// Report aggregates the courses matching filter
	Report(ctx context.Context, filter models.ReportFilter) (*models.CourseReport, error)
	// Count returns the number of stored courses
	Count(ctx context.Context) (int64, error)
}

// WorkFn is the body of a unit of work
type WorkFn func(ctx context.Context, repo CourseRepository) error

// UnitOfWork scopes a sequence of repository calls made by one request.
// Whether the scope is transactional is a configuration choice.
type UnitOfWork interface {
	Do(ctx context.Context, fn WorkFn) error
}

// Repositories holds the repository and the unit of work built for the active driver
type Repositories struct {
	CourseRepository CourseRepository
	UnitOfWork       UnitOfWork
}

// NewMongoRepositories wires the MongoDB course repository and its unit of work
func NewMongoRepositories(database *db.MongoDB, collection string, transactional bool, lgr zerolog.Logger) (*Repositories, *MongoCourseRepository) {
	repo := NewMongoCourseRepository(database, collection, lgr)
	uow := NewDirectUnitOfWork(repo)
	if transactional {
		uow = NewMongoTxUnitOfWork(database, repo)
	}
	return &Repositories{CourseRepository: repo, UnitOfWork: uow}, repo
}

// NewPostgresRepositories wires the PostgreSQL course repository and its unit of work
func NewPostgresRepositories(database *db.PostgresDB, transactional bool, lgr zerolog.Logger) *Repositories {
	repo := NewPostgresCourseRepository(database, lgr)
	uow := NewDirectUnitOfWork(repo)
	if transactional {
		uow = NewPostgresTxUnitOfWork(database, repo)
	}
	return &Repositories{CourseRepository: repo, UnitOfWork: uow}
}

// NewMemoryRepositories wires an in-memory course repository and its unit of work
func NewMemoryRepositories(transactional bool, lgr zerolog.Logger) *Repositories {
	repo := NewMemoryCourseRepository(lgr)
	uow := NewDirectUnitOfWork(repo)
	if transactional {
		uow = NewMemoryTxUnitOfWork(repo)
	}
	return &Repositories{CourseRepository: repo, UnitOfWork: uow}
}

// directUnitOfWork runs every store call as an independent operation
type directUnitOfWork struct {
	repo CourseRepository
}

// NewDirectUnitOfWork returns a non-transactional unit of work
func NewDirectUnitOfWork(repo CourseRepository) UnitOfWork {
	return &directUnitOfWork{repo: repo}
}

func (u *directUnitOfWork) Do(ctx context.Context, fn WorkFn) error {
	return fn(ctx, u.repo)
}
