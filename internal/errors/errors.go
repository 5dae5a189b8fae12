package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserInactive is returned when the user account is disabled.
	ErrUserInactive = errors.New("user account is inactive")
	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCourseNotFound is returned when a course is not found.
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound is returned when a lesson is not found.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrSlideNotFound is returned when a slide is not found.
	ErrSlideNotFound = errors.New("slide not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrCourseNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COURSE_NOT_FOUND")
	case errors.Is(err, ErrLessonNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LESSON_NOT_FOUND")
	case errors.Is(err, ErrSlideNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SLIDE_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
