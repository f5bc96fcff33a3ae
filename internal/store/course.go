package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
)

// SessionStore persists one CourseSession per course name.
type SessionStore interface {
	// Save writes the whole session, replacing any previous version.
	// Returns ErrInvalidEntity if the session fails validation.
	Save(ctx context.Context, session *domain.CourseSession) error

	// Load reads the session for courseName.
	// Returns ErrCourseNotFound if no session has been saved.
	Load(ctx context.Context, courseName string) (*domain.CourseSession, error)

	// List returns the names of all saved courses in sorted order.
	List(ctx context.Context) ([]string, error)
}

// ProgressStore persists the set of completed days per course.
type ProgressStore interface {
	// Load returns the completed days for courseName. A course without
	// saved progress has empty progress, not an error.
	Load(ctx context.Context, courseName string) (domain.Progress, error)

	// Save writes the whole progress set, replacing any previous version.
	Save(ctx context.Context, courseName string, progress domain.Progress) error

	// MarkComplete adds day to the saved progress and returns the result.
	MarkComplete(ctx context.Context, courseName string, day int) (domain.Progress, error)
}

// ValidateCourseName checks that name is usable as a file name stem.
func ValidateCourseName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: %w", ErrInvalidCourseName, domain.ErrEmptyCourseName)
	case trimmed != name:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidCourseName, name)
	case strings.ContainsAny(name, `/\`) || strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidCourseName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: contains NUL", ErrInvalidCourseName)
	}
	return nil
}
