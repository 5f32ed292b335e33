package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
)

func TestCreateDefaultDataSeedsEmptyStoreOnce(t *testing.T) {
	ctx := context.Background()
	repo := appRepos.NewMemoryCourseRepository(zerolog.Nop())

	if err := CreateDefaultData(ctx, repo, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	want := int64(len(DefaultCourses()))
	if n, _ := repo.Count(ctx); n != want {
		t.Fatalf("count after seed: got %d want %d", n, want)
	}

	if err := CreateDefaultData(ctx, repo, zerolog.Nop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n, _ := repo.Count(ctx); n != want {
		t.Fatalf("second seed must be a no-op, got %d", n)
	}
}

func TestDefaultCoursesAreComplete(t *testing.T) {
	for _, c := range DefaultCourses() {
		if c.Title == "" || c.Department == "" || c.Level == "" || c.Semester == "" {
			t.Fatalf("incomplete default course: %+v", c)
		}
	}
}
