package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestJobNotFoundError(t *testing.T) {
	err := NewJobNotFoundError("42")

	expectedMsg := "job with ID '42' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrJobNotFound) {
		t.Error("Expected error to match ErrJobNotFound sentinel")
	}

	if errors.Is(err, ErrInvalidInput) {
		t.Error("Error should not match ErrInvalidInput")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("salary", "unknown bucket")
	expectedMsg := "validation error for field 'salary': unknown bucket"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	noField := NewValidationError("", "bad request")
	if noField.Error() != "validation error: bad request" {
		t.Errorf("Unexpected message: %s", noField.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
}

func TestAdminExistsError(t *testing.T) {
	err := NewAdminExistsError("email", "a@b.c")
	expectedMsg := "admin with email 'a@b.c' already exists"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
	if !errors.Is(err, ErrAdminExists) {
		t.Error("Expected error to match ErrAdminExists sentinel")
	}
}

func TestWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("store get: %w", NewJobNotFoundError("7"))

	if !errors.Is(wrapped, ErrJobNotFound) {
		t.Error("Expected wrapped error to match ErrJobNotFound")
	}

	var notFound *JobNotFoundError
	if !errors.As(wrapped, &notFound) {
		t.Fatal("Expected errors.As to find JobNotFoundError")
	}
	if notFound.JobID != "7" {
		t.Errorf("Expected JobID 7, got %s", notFound.JobID)
	}
}
