package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
)

// AppError carries one of the sentinel errors above plus a message fit
// for the API client. Handlers match with errors.Is and read Message.
type AppError struct {
	Err     error
	Message string
	Field   string // optional: input field that failed validation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func Validation(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Persistence wraps a storage or database failure. The cause stays in
// the chain for logging; Message is what the client sees.
func Persistence(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrPersistence, op, cause),
		Message: fmt.Sprintf("%s failed: %s", op, cause),
	}
}
