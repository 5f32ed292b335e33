package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursehub/internal/app/models"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
)

// DefaultCourses are inserted into an empty store when seeding is enabled
func DefaultCourses() []appModels.Course {
	return []appModels.Course{
		{Title: "Introduction to Programming", Department: "Computer Engineering", Level: "100", Semester: "Fall", Credits: 4},
		{Title: "Data Structures", Department: "Computer Engineering", Level: "200", Semester: "Spring", Credits: 4},
		{Title: "Calculus I", Department: "Mathematics", Level: "100", Semester: "Fall", Credits: 5},
		{Title: "Linear Algebra", Department: "Mathematics", Level: "200", Semester: "Spring", Credits: 3},
		{Title: "Circuit Theory", Department: "Electrical Engineering", Level: "200", Semester: "Fall", Credits: 3.5},
	}
}

// CreateDefaultData inserts the default courses if the store holds none.
// Individual insert failures are collected and returned together.
func CreateDefaultData(ctx context.Context, repo appRepos.CourseRepository, lgr zerolog.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count courses: %w", err)
	}
	if count > 0 {
		lgr.Info().Int64("courses", count).Msg("Store already has courses, skipping seed")
		return nil
	}

	lgr.Info().Msg("Creating default courses...")
	var finalErr error
	created := 0
	for _, course := range DefaultCourses() {
		course.Normalize()
		if _, err := repo.Create(ctx, course); err != nil {
			lgr.Error().Err(err).Str("title", course.Title).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Default courses created")
	return finalErr
}
