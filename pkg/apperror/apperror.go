package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error.
type Code int

const (
	CodeNotFound Code = iota + 1000
	CodeValidation
	CodeConflict
	CodeUnauthorized
	CodeForbidden
	CodeStorageIO
	CodeInternal
)

// Error is an application error carrying the HTTP status the handler
// layer should respond with.
type Error struct {
	Code    Code   `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode reports the HTTP status for this error.
func (e *Error) StatusCode() int {
	return e.Status
}

func NotFound(resource string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Validation(message string, err error) *Error {
	return &Error{
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// Conflict reports a natural-key or membership collision. The legacy API
// surfaced these as 400, and clients depend on that.
func Conflict(message string) *Error {
	return &Error{
		Code:    CodeConflict,
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// ConflictWithStatus is for the few conflicts with a non-default status,
// e.g. duplicate registration answers 403.
func ConflictWithStatus(message string, status int) *Error {
	return &Error{
		Code:    CodeConflict,
		Status:  status,
		Message: message,
	}
}

// InvalidCredentials reports a failed login attempt. The legacy API
// answered bad credentials with 400; missing, invalid or expired bearer
// tokens stay 401.
func InvalidCredentials(message string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

func Unauthorized(message string, err error) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: message,
		Err:     err,
	}
}

// Forbidden reports an ownership check failure. Status is 400, matching
// the legacy surface ("you are not the organizer" style errors).
func Forbidden(message string) *Error {
	return &Error{
		Code:    CodeForbidden,
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

func StorageIO(message string, err error) *Error {
	return &Error{
		Code:    CodeStorageIO,
		Status:  http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Err:     err,
	}
}

// FromError extracts an *Error from err's chain, or wraps err as internal.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsCode reports whether err carries the given application code.
func IsCode(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
