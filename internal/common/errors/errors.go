// Package errors provides the application error type shared by the domain services
// and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Error codes as constants
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeInvalidState    = "INVALID_STATE"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// AppError represents an application-specific error with additional context.
type AppError struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	HTTPStatus int                 `json:"http_status"`
	Fields     map[string][]string `json:"errors,omitempty"`
	Err        error               `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not found error carrying a client-facing message.
func NotFound(message string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// BadRequest creates a new bad request error.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validation creates a validation error with per-field messages.
func Validation(message string, fields map[string][]string) *AppError {
	return &AppError{
		Code:       ErrCodeValidationError,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}

// ValidationError creates a validation error for a single field.
func ValidationError(field string, message string) *AppError {
	return Validation(message, map[string][]string{field: {message}})
}

// InvalidArgument reports an entity invariant violated by an input value.
func InvalidArgument(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidArgument,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// InvalidState reports an operation that would leave an entity in an invalid state.
func InvalidState(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidState,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// InternalError creates a new internal server error with a wrapped underlying error.
func InternalError(message string, err error) *AppError {
	return &AppError{
		Code:       ErrCodeInternalError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Wrap wraps an existing error with additional context, returning an AppError.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	// Preserve code, status and fields of an existing AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:       appErr.Code,
			Message:    fmt.Sprintf("%s: %s", message, appErr.Message),
			HTTPStatus: appErr.HTTPStatus,
			Fields:     appErr.Fields,
			Err:        err,
		}
	}

	return InternalError(message, err)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidationError)
}

// IsBadRequest checks if the error is a bad request error.
func IsBadRequest(err error) bool {
	return hasCode(err, ErrCodeBadRequest)
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns the HTTP status code for an error.
// Returns 500 Internal Server Error if the error is not an AppError.
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// FieldErrors collects per-field validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Set replaces all messages for field with message.
func (f FieldErrors) Set(field, message string) {
	f[field] = []string{message}
}

// Fields returns the field names in sorted order.
func (f FieldErrors) Fields() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Err returns nil when nothing was collected, otherwise a validation error
// with the given summary message.
func (f FieldErrors) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return Validation(message, map[string][]string(f))
}
