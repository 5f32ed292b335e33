package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestMemoryTxUnitOfWorkRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories(true, zerolog.Nop())

	var keptID string
	err := repos.UnitOfWork.Do(ctx, func(ctx context.Context, repo CourseRepository) error {
		c, err := repo.Create(ctx, newCourse("Kept", "CS", "100", "Fall", 3))
		if err != nil {
			return err
		}
		keptID = c.ID
		return nil
	})
	if err != nil {
		t.Fatalf("first unit: %v", err)
	}

	failure := errors.New("boom")
	err = repos.UnitOfWork.Do(ctx, func(ctx context.Context, repo CourseRepository) error {
		if _, err := repo.Create(ctx, newCourse("Discarded", "CS", "100", "Fall", 3)); err != nil {
			return err
		}
		if err := repo.Delete(ctx, keptID); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected the work error, got %v", err)
	}

	all, _ := repos.CourseRepository.ListAll(ctx)
	if len(all) != 1 || all[0].ID != keptID {
		t.Fatalf("rollback did not restore the store: %+v", all)
	}
}

func TestMemoryTxUnitOfWorkRollsBackOnNotFound(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories(true, zerolog.Nop())

	err := repos.UnitOfWork.Do(ctx, func(ctx context.Context, repo CourseRepository) error {
		if _, err := repo.Create(ctx, newCourse("Temp", "CS", "100", "Fall", 3)); err != nil {
			return err
		}
		_, err := repo.GetByID(ctx, "missing")
		return err
	})
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if n, _ := repos.CourseRepository.Count(ctx); n != 0 {
		t.Fatalf("expected nothing committed, got %d courses", n)
	}
}

func TestDirectUnitOfWorkKeepsPartialWrites(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories(false, zerolog.Nop())

	_ = repos.UnitOfWork.Do(ctx, func(ctx context.Context, repo CourseRepository) error {
		if _, err := repo.Create(ctx, newCourse("Stays", "CS", "100", "Fall", 3)); err != nil {
			return err
		}
		return errors.New("later failure")
	})

	if n, _ := repos.CourseRepository.Count(ctx); n != 1 {
		t.Fatalf("direct unit of work must not roll back, got %d courses", n)
	}
}
