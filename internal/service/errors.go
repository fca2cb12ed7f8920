package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfirmationRequired is returned when a delete is attempted without confirmation
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrNoAssignment is returned when sending a task that has not been assigned
	ErrNoAssignment = errors.New("task has no assignment")

	// ErrFileTooLarge is returned when an upload exceeds the configured size
	ErrFileTooLarge = errors.New("file too large")
)

// ValidationError reports a rule that a single field breaks
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
