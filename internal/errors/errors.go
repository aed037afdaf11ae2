package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPackageNotFound is returned when a package record does not exist.
	ErrPackageNotFound = errors.New("package not found")
	// ErrHistoryNotFound is returned when a history row does not exist or
	// belongs to another user.
	ErrHistoryNotFound = errors.New("history entry not found")
	// ErrMailDispatch is returned when the OTP email could not be sent.
	ErrMailDispatch = errors.New("could not send OTP email, please try again")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse
// to a generic 500: internal detail is logged server-side, never returned.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrPackageNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PACKAGE_NOT_FOUND")
	case errors.Is(err, ErrHistoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "HISTORY_NOT_FOUND")
	case errors.Is(err, ErrMailDispatch):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "MAIL_DISPATCH_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
