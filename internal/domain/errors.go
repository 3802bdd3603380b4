package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrValidation = errors.New("domain: validation failed")
	ErrNotFound   = errors.New("domain: not found")
)

// ValidationError reports a candidate value that violates a Task rule.
// It unwraps to ErrValidation.
type ValidationError struct {
	Reason string
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a task ID that is not in the store.
// It unwraps to ErrNotFound.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with id %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
