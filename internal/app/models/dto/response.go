package dto

// Fixed response messages
const (
	MessageCourseNotFound = "Course not found"
	MessageCourseDeleted  = "Course deleted"
)

// MessageResponse is the body of every error response and of a successful delete
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status string `json:"status"`
}
