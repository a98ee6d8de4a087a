package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInvalidAttempt = "INVALID_ATTEMPT"
	ErrCodeUnknownProblem = "UNKNOWN_PROBLEM"
	ErrCodeStorage        = "STORAGE_ERROR"
	ErrCodeBusy           = "BUSY"
	ErrCodeTimeout        = "TIMEOUT"
)

// Sentinels for errors.Is. Matching is by code, so any *AppError built by the
// constructors below matches the sentinel of the same code.
var (
	ErrNotFound       = &AppError{Code: ErrCodeNotFound}
	ErrInvalidAttempt = &AppError{Code: ErrCodeInvalidAttempt}
	ErrUnknownProblem = &AppError{Code: ErrCodeUnknownProblem}
	ErrStorage        = &AppError{Code: ErrCodeStorage}
	ErrBusy           = &AppError{Code: ErrCodeBusy}
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_ATTEMPT")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Retryable reports whether the caller may retry the same request.
func (e *AppError) Retryable() bool {
	return e.Code == ErrCodeStorage || e.Code == ErrCodeBusy || e.Code == ErrCodeTimeout
}

// As extracts an *AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates a new UNAUTHORIZED error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewInvalidAttemptError rejects an attempt before anything is written.
func NewInvalidAttemptError(field, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidAttempt,
		Message: fmt.Sprintf("invalid attempt: %s %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewUnknownProblemError is returned when a slug is absent from the catalog.
func NewUnknownProblemError(slug string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownProblem,
		Message: fmt.Sprintf("problem does not exist in catalog: %s", slug),
		Status:  http.StatusBadRequest,
	}
}

// NewStorageError wraps a failure of the attempt log or review state store.
func NewStorageError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: fmt.Sprintf("storage unavailable during %s", op),
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// NewBusyError is returned when the per-key lock could not be acquired in time.
func NewBusyError(key string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeBusy,
		Message: fmt.Sprintf("review state %s is busy, retry later", key),
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// NewTimeoutError is returned when a request outlives its deadline.
func NewTimeoutError(limit time.Duration) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: fmt.Sprintf("request did not complete within %v", limit),
		Status:  http.StatusServiceUnavailable,
	}
}
