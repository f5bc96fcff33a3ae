package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidLevel is returned when a course level is not one of the known levels.
	ErrInvalidLevel = errors.New("invalid course level")

	// ErrEmptyCourseName is returned when a course session has no name.
	ErrEmptyCourseName = errors.New("course name cannot be empty")

	// ErrEmptySubject is returned when a course session has no subject.
	ErrEmptySubject = errors.New("course subject cannot be empty")

	// ErrEmptyPlan is returned when a course session has no study plan.
	ErrEmptyPlan = errors.New("study plan cannot be empty")

	// ErrDayOutOfRange is returned when a day index falls outside the study plan.
	ErrDayOutOfRange = errors.New("day is outside the study plan")

	// ErrInvalidQuestion is returned when a question does not have four options
	// and a correct letter in A-D.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrInvalidFlashcard is returned when a flashcard is missing a side.
	ErrInvalidFlashcard = errors.New("invalid flashcard")

	// ErrInvalidAnswer is returned when a submitted answer is not a letter in A-D.
	ErrInvalidAnswer = errors.New("invalid answer")
)
