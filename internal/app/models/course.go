package models

// Course represents an academic course record.
type Course struct {
	ID         string  `json:"id"`
	Title      string  `json:"title" validate:"required"`
	Department string  `json:"department" validate:"required"`
	Level      string  `json:"level" validate:"required"`
	Semester   string  `json:"semester" validate:"required"`
	Credits    float64 `json:"credits"`

	// Opaque student identifiers; the student entity lives elsewhere
	EnrolledStudents []string `json:"enrolledStudents"`
}

// Normalize guarantees that collections serialize as [] rather than null.
func (c *Course) Normalize() {
	if c.EnrolledStudents == nil {
		c.EnrolledStudents = []string{}
	}
}

// CoursePatch carries the fields present in an update request.
// A nil field was not provided and leaves the stored value unchanged.
type CoursePatch struct {
	Title      *string
	Department *string
	Level      *string
	Semester   *string
	Credits    *float64
}

// ApplyTo copies every provided field onto the course, including zero values.
func (p CoursePatch) ApplyTo(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Department != nil {
		c.Department = *p.Department
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.Semester != nil {
		c.Semester = *p.Semester
	}
	if p.Credits != nil {
		c.Credits = *p.Credits
	}
}

// IsEmpty reports whether the patch carries no fields at all.
func (p CoursePatch) IsEmpty() bool {
	return p.Title == nil && p.Department == nil && p.Level == nil && p.Semester == nil && p.Credits == nil
}
