// Package events defines the state-transition requests exchanged between
// services and a session's application state.
//
// Services never mutate state directly. They build a Transition and hand it
// to a Dispatcher, which runs the session's Reducer first and then notifies
// the registered handlers (persistence, logging) of the applied change.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
)

// TransitionType names a kind of state change.
type TransitionType string

const (
	CourseCreated       TransitionType = "course_created"
	CourseLoaded        TransitionType = "course_loaded"
	CourseSelected      TransitionType = "course_selected"
	DayChanged          TransitionType = "day_changed"
	DayCompleted        TransitionType = "day_completed"
	TestGenerated       TransitionType = "test_generated"
	TestSubmitted       TransitionType = "test_submitted"
	TestReset           TransitionType = "test_reset"
	FlashcardsGenerated TransitionType = "flashcards_generated"
	FlashcardsShuffled  TransitionType = "flashcards_shuffled"
)

// Direction is the navigation direction carried by DayChanged.
type Direction string

const (
	Next     Direction = "next"
	Previous Direction = "previous"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Next || d == Previous
}

// Transition is a request to change application state. Only the fields
// relevant to its Type are set.
//
// Reducers record the resulting course and progress snapshots on the
// transition, so handlers that run after the reducer observe post-transition
// state without reading the AppState themselves.
type Transition struct {
	ID         uuid.UUID             `json:"id"`
	Type       TransitionType        `json:"type"`
	CourseName string                `json:"course_name,omitempty"`
	Day        int                   `json:"day,omitempty"`
	Direction  Direction             `json:"direction,omitempty"`
	Course     *domain.CourseSession `json:"course,omitempty"`
	Progress   domain.Progress       `json:"progress,omitempty"`
	Questions  []domain.Question     `json:"questions,omitempty"`
	Answers    []string              `json:"answers,omitempty"`
	Flashcards []domain.Flashcard    `json:"flashcards,omitempty"`
	Order      []int                 `json:"order,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

func newTransition(typ TransitionType, courseName string) *Transition {
	return &Transition{
		ID:         uuid.New(),
		Type:       typ,
		CourseName: courseName,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewCourseCreated requests registration of a freshly generated course.
func NewCourseCreated(course *domain.CourseSession) *Transition {
	t := newTransition(CourseCreated, course.CourseName)
	t.Course = course.Clone()
	t.Progress = domain.NewProgress()
	return t
}

// NewCourseLoaded requests registration of a course read from disk.
func NewCourseLoaded(course *domain.CourseSession, progress domain.Progress) *Transition {
	t := newTransition(CourseLoaded, course.CourseName)
	t.Course = course.Clone()
	t.Progress = domain.NewProgress(progress.Days()...)
	return t
}

func NewCourseSelected(courseName string) *Transition {
	return newTransition(CourseSelected, courseName)
}

func NewDayChanged(courseName string, dir Direction) *Transition {
	t := newTransition(DayChanged, courseName)
	t.Direction = dir
	return t
}

func NewDayCompleted(courseName string, day int) *Transition {
	t := newTransition(DayCompleted, courseName)
	t.Day = day
	return t
}

func NewTestGenerated(courseName string, day int, questions []domain.Question) *Transition {
	t := newTransition(TestGenerated, courseName)
	t.Day = day
	t.Questions = append([]domain.Question(nil), questions...)
	return t
}

func NewTestSubmitted(courseName string, day int, answers []string) *Transition {
	t := newTransition(TestSubmitted, courseName)
	t.Day = day
	t.Answers = append([]string(nil), answers...)
	return t
}

func NewTestReset(courseName string, day int) *Transition {
	t := newTransition(TestReset, courseName)
	t.Day = day
	return t
}

func NewFlashcardsGenerated(courseName string, day int, cards []domain.Flashcard) *Transition {
	t := newTransition(FlashcardsGenerated, courseName)
	t.Day = day
	t.Flashcards = append([]domain.Flashcard(nil), cards...)
	return t
}

// NewFlashcardsShuffled requests reordering of a deck. order is a
// permutation of the deck's indices: position i receives card order[i].
func NewFlashcardsShuffled(courseName string, day int, order []int) *Transition {
	t := newTransition(FlashcardsShuffled, courseName)
	t.Day = day
	t.Order = append([]int(nil), order...)
	return t
}

// Reducer applies a transition to state. It is the only code allowed to
// mutate an AppState.
type Reducer interface {
	Apply(t *Transition) error
}

// Handler reacts to a transition after it has been applied.
type Handler interface {
	HandleTransition(ctx context.Context, t *Transition) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, t *Transition) error

// HandleTransition calls f(ctx, t).
func (f HandlerFunc) HandleTransition(ctx context.Context, t *Transition) error {
	return f(ctx, t)
}
