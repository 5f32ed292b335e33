package apperrors

import "errors"

// Common errors
var (
	// ErrResourceNotFound is returned when no course matches the requested id
	ErrResourceNotFound = errors.New("resource not found")

	// ErrValidationFailed is returned when a required field is missing or malformed
	ErrValidationFailed = errors.New("validation failed")

	// ErrBadRequest is returned when the request cannot be parsed at all
	ErrBadRequest = errors.New("bad request")

	// ErrStoreFailure covers connectivity, transaction conflicts and any other backend error
	ErrStoreFailure = errors.New("store failure")
)

// Course errors
var (
	ErrCourseNotFound = NewResourceNotFoundError("Course not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewValidationError creates a new custom error for failed validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewStoreError wraps a backend error. The backend message is kept verbatim.
func NewStoreError(cause error) error {
	if cause == nil {
		return nil
	}
	// Already classified errors pass through untouched
	if errors.Is(cause, ErrStoreFailure) || errors.Is(cause, ErrResourceNotFound) || errors.Is(cause, ErrValidationFailed) {
		return cause
	}
	return &CustomError{
		Err:     ErrStoreFailure,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the category sentinel and the original cause
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
