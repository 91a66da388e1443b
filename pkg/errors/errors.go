package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Duplicate and not-found statuses
// follow the legacy API contract: business-rule violations answer 400, and
// only plan update answers 404 on a missing record.
var (
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation fails")
	ErrUnauthorized    = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden       = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound        = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrDuplicate       = New("DUPLICATE", http.StatusBadRequest, "record already exists")
	ErrBadRequest      = New("BAD_REQUEST", http.StatusBadRequest, "bad request")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidStudent  = New("INVALID_STUDENT", http.StatusBadRequest, "Invalid student")
	ErrInvalidPlan     = New("INVALID_PLAN", http.StatusBadRequest, "Invalid plan")
	ErrAlreadyEnrolled = New("ALREADY_ENROLLED", http.StatusBadRequest, "Student already enrolled")
	ErrNoActivePlan    = New("NO_ACTIVE_PLAN", http.StatusBadRequest, "Student does not have active plan")
	ErrCheckinLimit    = New("CHECKIN_LIMIT", http.StatusForbidden, "max number of checkins reached")
	ErrCacheMiss       = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
