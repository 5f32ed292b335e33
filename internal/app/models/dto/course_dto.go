package dto

import "github.com/yigit/coursehub/internal/app/models"

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Title      string  `json:"title" validate:"required"`
	Department string  `json:"department" validate:"required"`
	Level      string  `json:"level" validate:"required"`
	Semester   string  `json:"semester" validate:"required"`
	Credits    *Number `json:"credits" validate:"required"`
}

// ToCourse builds the course that will be persisted
func (r CreateCourseRequest) ToCourse() models.Course {
	course := models.Course{
		Title:            r.Title,
		Department:       r.Department,
		Level:            r.Level,
		Semester:         r.Semester,
		EnrolledStudents: []string{},
	}
	if r.Credits != nil {
		course.Credits = r.Credits.Float64()
	}
	return course
}

// UpdateCourseRequest represents a partial course update.
// Omitted or null fields are left untouched; present fields are applied as sent.
type UpdateCourseRequest struct {
	Title      *string `json:"title"`
	Department *string `json:"department"`
	Level      *string `json:"level"`
	Semester   *string `json:"semester"`
	Credits    *Number `json:"credits"`
}

// ToPatch converts the request into a model patch
func (r UpdateCourseRequest) ToPatch() models.CoursePatch {
	patch := models.CoursePatch{
		Title:      r.Title,
		Department: r.Department,
		Level:      r.Level,
		Semester:   r.Semester,
	}
	if r.Credits != nil {
		credits := r.Credits.Float64()
		patch.Credits = &credits
	}
	return patch
}
