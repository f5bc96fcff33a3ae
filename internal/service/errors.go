package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-study/internal/state"
	"github.com/phrazzld/scry-study/internal/store"
)

var (
	// ErrCourseNotFound indicates the course is neither loaded nor saved.
	// API layer should map this to HTTP 404 Not Found.
	ErrCourseNotFound = errors.New("course not found")

	// ErrCourseExists indicates a course with the same name already exists.
	// API layer should map this to HTTP 409 Conflict.
	ErrCourseExists = errors.New("course already exists")

	// ErrNoQuestions indicates the model answer contained no valid question.
	ErrNoQuestions = errors.New("no valid questions in model response")

	// ErrNoFlashcards indicates the model answer contained no complete flashcard.
	ErrNoFlashcards = errors.New("no valid flashcards in model response")

	// ErrSpeechDisabled indicates audio rendering is not configured.
	ErrSpeechDisabled = errors.New("speech synthesis is not enabled")
)

// ServiceError wraps unexpected failures with the operation that failed.
type ServiceError struct {
	// Operation is the use case that failed (e.g. "create_course", "generate_test")
	Operation string
	// Message is a human-readable description of the failure
	Message string
	// Err is the underlying error
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError. Lookups of missing or duplicate
// courses are translated to this package's sentinels and returned unwrapped.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, store.ErrCourseNotFound),
		errors.Is(err, state.ErrUnknownCourse):
		return ErrCourseNotFound
	case errors.Is(err, ErrCourseExists), errors.Is(err, state.ErrCourseExists):
		return ErrCourseExists
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
