package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func numPtr(f float64) *dto.Number {
	n := dto.Number(f)
	return &n
}

func newTestService(t *testing.T, transactional bool) (CourseService, *repositories.Repositories) {
	t.Helper()
	repos := repositories.NewMemoryRepositories(transactional, zerolog.Nop())
	return NewCourseService(repos.UnitOfWork, zerolog.Nop()), repos
}

func validCreate() dto.CreateCourseRequest {
	return dto.CreateCourseRequest{
		Title:      "Operating Systems",
		Department: "CS",
		Level:      "300",
		Semester:   "Fall",
		Credits:    numPtr(4),
	}
}

func TestCreateCourseValidation(t *testing.T) {
	svc, repos := newTestService(t, false)
	ctx := context.Background()

	req := validCreate()
	req.Credits = nil
	_, err := svc.CreateCourse(ctx, req)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "credits is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	req = validCreate()
	req.Title = ""
	if _, err := svc.CreateCourse(ctx, req); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for empty title, got %v", err)
	}

	if n, _ := repos.CourseRepository.Count(ctx); n != 0 {
		t.Fatalf("invalid requests must not touch the store, got %d", n)
	}
}

func TestCreateAndGetCourse(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	created, err := svc.CreateCourse(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.EnrolledStudents == nil {
		t.Fatalf("unexpected created course: %+v", created)
	}

	got, err := svc.GetCourse(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != created.Title || got.Credits != 4 {
		t.Fatalf("unexpected course: %+v", got)
	}

	if _, err := svc.GetCourse(ctx, "does-not-exist"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCoursePartial(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()
	created, _ := svc.CreateCourse(ctx, validCreate())

	updated, err := svc.UpdateCourse(ctx, created.ID, dto.UpdateCourseRequest{Title: strPtr("Distributed Systems")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Distributed Systems" {
		t.Fatalf("title: got %q", updated.Title)
	}
	if updated.Department != "CS" || updated.Level != "300" || updated.Semester != "Fall" || updated.Credits != 4 {
		t.Fatalf("absent fields changed: %+v", updated)
	}

	updated, err = svc.UpdateCourse(ctx, created.ID, dto.UpdateCourseRequest{Credits: numPtr(0)})
	if err != nil {
		t.Fatalf("update credits: %v", err)
	}
	if updated.Credits != 0 {
		t.Fatalf("credits 0 must be stored, got %v", updated.Credits)
	}

	unchanged, err := svc.UpdateCourse(ctx, created.ID, dto.UpdateCourseRequest{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if unchanged.Title != "Distributed Systems" {
		t.Fatalf("empty update changed the course: %+v", unchanged)
	}
}

func TestUpdateCourseRejectsEmptyText(t *testing.T) {
	for _, transactional := range []bool{false, true} {
		svc, _ := newTestService(t, transactional)
		ctx := context.Background()
		created, _ := svc.CreateCourse(ctx, validCreate())

		_, err := svc.UpdateCourse(ctx, created.ID, dto.UpdateCourseRequest{Department: strPtr("")})
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Fatalf("transactional=%v: expected validation error, got %v", transactional, err)
		}

		stored, _ := svc.GetCourse(ctx, created.ID)
		if stored.Department != "CS" {
			t.Fatalf("transactional=%v: failed update was persisted: %+v", transactional, stored)
		}
	}
}

func TestUpdateAndDeleteUnknownCourse(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()

	if _, err := svc.UpdateCourse(ctx, "missing", dto.UpdateCourseRequest{Title: strPtr("x")}); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("update: expected not found, got %v", err)
	}
	if err := svc.DeleteCourse(ctx, "missing"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("delete: expected not found, got %v", err)
	}
}

func TestListAndReport(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	courses, err := svc.ListCourses(ctx)
	if err != nil || courses == nil || len(courses) != 0 {
		t.Fatalf("empty list: got %v, %v", courses, err)
	}

	for _, credits := range []float64{2, 4} {
		req := validCreate()
		req.Credits = numPtr(credits)
		if _, err := svc.CreateCourse(ctx, req); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	courses, _ = svc.ListCourses(ctx)
	if len(courses) != 2 {
		t.Fatalf("list: got %d", len(courses))
	}

	report, err := svc.GenerateReport(ctx, models.ReportFilter{Department: "CS"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalCourses != 2 || report.AverageCredits != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}

	empty, _ := svc.GenerateReport(ctx, models.ReportFilter{Semester: "Summer"})
	if empty.TotalCourses != 0 || empty.AverageCredits != 0 || len(empty.Courses) != 0 {
		t.Fatalf("unexpected empty report: %+v", empty)
	}
}

type failingUnitOfWork struct{ err error }

func (f failingUnitOfWork) Do(context.Context, repositories.WorkFn) error { return f.err }

func TestStoreFailurePropagates(t *testing.T) {
	storeErr := apperrors.NewStoreError(errors.New("server selection timeout"))
	svc := NewCourseService(failingUnitOfWork{err: storeErr}, zerolog.Nop())

	if _, err := svc.ListCourses(context.Background()); !errors.Is(err, apperrors.ErrStoreFailure) {
		t.Fatalf("expected store failure, got %v", err)
	}
	if _, err := svc.GenerateReport(context.Background(), models.ReportFilter{}); err == nil {
		t.Fatalf("expected an error")
	}
}
