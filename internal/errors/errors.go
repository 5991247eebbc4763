// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found in the backend.
	ErrNotFound = errors.New("resource not found")

	// ErrUnknownAction indicates no handler is registered for the action name.
	ErrUnknownAction = errors.New("unknown action")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// BackendError represents store backend request failures with context.
type BackendError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend error (url=%s): %v", e.URL, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError creates a new backend error.
func NewBackendError(url string, statusCode int, err error) *BackendError {
	return &BackendError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}
