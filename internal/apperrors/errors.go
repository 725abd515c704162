package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a uniqueness or state conflict, e.g. a duplicate phone
// number or an already-inactive account.
var ErrConflict = errors.New("resource conflict")

// ErrForbidden indicates the actor is authenticated but not allowed to perform
// the operation. Permission denials always wrap this with the specific reason.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected failure (database, connectivity). The
// wrapped detail is logged; callers outside development mode only see this.
var ErrInternal = errors.New("internal error")

// Forbidden wraps ErrForbidden with the concrete denial reason so the caller
// never receives a generic "forbidden".
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// AppError carries an HTTP-ish status code alongside a message and cause. It
// is used by the repository layer where a sentinel alone loses context.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
