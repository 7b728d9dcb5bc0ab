package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates a recoverable business-rule rejection. Callers may
// surface the reason to the user and retry with different input.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource conflict")

// ErrUnbalanced indicates an about-to-be-posted ledger transaction failed the
// debits-equal-credits check. This is a programming defect in the caller's
// entry construction, not a user error, and aborts without persisting.
var ErrUnbalanced = errors.New("ledger transaction is not balanced")

// ErrConfiguration indicates a required system account (or similar fixed
// resource) is missing. A deployment problem, distinct from ErrValidation.
var ErrConfiguration = errors.New("configuration error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and a
// message safe to log and return upstream.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
