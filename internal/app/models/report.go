package models

// ReportFilter holds optional equality filters. An empty field matches any value.
type ReportFilter struct {
	Department string `form:"department"`
	Level      string `form:"level"`
	Semester   string `form:"semester"`
}

// Matches reports whether the course satisfies every non-empty filter.
func (f ReportFilter) Matches(c Course) bool {
	if f.Department != "" && c.Department != f.Department {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Semester != "" && c.Semester != f.Semester {
		return false
	}
	return true
}

// CourseReport summarizes the courses matching a ReportFilter.
type CourseReport struct {
	AverageCredits float64  `json:"averageCredits"`
	TotalCourses   int64    `json:"totalCourses"`
	Courses        []Course `json:"courses"`
}

// EmptyCourseReport is the report returned when nothing matches.
func EmptyCourseReport() *CourseReport {
	return &CourseReport{Courses: []Course{}}
}

// NewCourseReport computes the totals for an already filtered course list.
func NewCourseReport(courses []Course) *CourseReport {
	if len(courses) == 0 {
		return EmptyCourseReport()
	}

	var totalCredits float64
	for _, c := range courses {
		totalCredits += c.Credits
	}

	return &CourseReport{
		AverageCredits: totalCredits / float64(len(courses)),
		TotalCourses:   int64(len(courses)),
		Courses:        courses,
	}
}
