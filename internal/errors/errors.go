package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrJobNotFound is returned when a job posting is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrAdminExists is returned when registering an admin whose username or email is taken
	ErrAdminExists = errors.New("admin already exists")

	// ErrUnauthorized is returned for bad credentials and invalid or expired tokens
	ErrUnauthorized = errors.New("unauthorized")
)

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AdminExistsError reports which identifying field collided
type AdminExistsError struct {
	Field string // "username" or "email"
	Value string
}

func (e *AdminExistsError) Error() string {
	return fmt.Sprintf("admin with %s '%s' already exists", e.Field, e.Value)
}

func (e *AdminExistsError) Is(target error) bool {
	return target == ErrAdminExists
}

// NewAdminExistsError creates a new AdminExistsError
func NewAdminExistsError(field, value string) *AdminExistsError {
	return &AdminExistsError{Field: field, Value: value}
}
