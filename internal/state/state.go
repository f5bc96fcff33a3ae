// Package state holds the per-session application state of the study
// planner and the reducer that is its single point of mutation.
package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
)

var (
	// ErrUnknownCourse is returned when a transition names a course that is
	// not loaded in this state.
	ErrUnknownCourse = errors.New("course is not loaded")

	// ErrCourseExists is returned when a created course collides with a loaded one.
	ErrCourseExists = errors.New("course already exists")

	// ErrNoTest is returned when a test operation targets a day without a test.
	ErrNoTest = errors.New("no test generated for this day")

	// ErrTestAlreadySubmitted is returned when answers are submitted twice
	// without a retake.
	ErrTestAlreadySubmitted = errors.New("test already submitted")

	// ErrNoDeck is returned when a flashcard operation targets a day without cards.
	ErrNoDeck = errors.New("no flashcards generated for this day")

	// ErrInvalidTransition is returned for malformed or unknown transitions.
	ErrInvalidTransition = errors.New("invalid transition")
)

// DayKey identifies per-day generated content.
type DayKey struct {
	Course string
	Day    int
}

// Test is a generated test and, once submitted, its graded result.
type Test struct {
	Questions []domain.Question  `json:"questions"`
	Answers   []string           `json:"answers,omitempty"`
	Result    *domain.TestResult `json:"result,omitempty"`
}

func (t *Test) clone() Test {
	out := Test{
		Questions: append([]domain.Question(nil), t.Questions...),
		Answers:   append([]string(nil), t.Answers...),
	}
	if t.Result != nil {
		r := *t.Result
		r.Feedback = append([]domain.QuestionFeedback(nil), t.Result.Feedback...)
		out.Result = &r
	}
	return out
}

// AppState is the state of one user session: loaded courses with their
// progress, generated tests and flashcard decks, and the active course.
//
// AppState is not safe for concurrent use; callers serialize access per
// session. The zero value is not usable, use New.
type AppState struct {
	courses  map[string]*domain.CourseSession
	progress map[string]domain.Progress
	tests    map[DayKey]*Test
	decks    map[DayKey][]domain.Flashcard
	active   string
}

// New returns an empty AppState.
func New() *AppState {
	return &AppState{
		courses:  make(map[string]*domain.CourseSession),
		progress: make(map[string]domain.Progress),
		tests:    make(map[DayKey]*Test),
		decks:    make(map[DayKey][]domain.Flashcard),
	}
}

// ActiveCourse returns the name of the active course, or "" if none.
func (s *AppState) ActiveCourse() string {
	return s.active
}

// CourseNames returns the loaded course names in sorted order.
func (s *AppState) CourseNames() []string {
	names := make([]string, 0, len(s.courses))
	for name := range s.courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Course returns a copy of a loaded course.
func (s *AppState) Course(name string) (*domain.CourseSession, bool) {
	c, ok := s.courses[name]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Progress returns a copy of the completed-day set of a loaded course.
func (s *AppState) Progress(name string) domain.Progress {
	return domain.NewProgress(s.progress[name].Days()...)
}

// Test returns a copy of the test generated for a course day.
func (s *AppState) Test(name string, day int) (Test, bool) {
	t, ok := s.tests[DayKey{Course: name, Day: day}]
	if !ok {
		return Test{}, false
	}
	return t.clone(), true
}

// Flashcards returns a copy of the deck generated for a course day.
func (s *AppState) Flashcards(name string, day int) ([]domain.Flashcard, bool) {
	deck, ok := s.decks[DayKey{Course: name, Day: day}]
	if !ok {
		return nil, false
	}
	return append([]domain.Flashcard(nil), deck...), true
}

// Apply is the only function that mutates AppState. On success it records
// the course and progress snapshots on t for downstream handlers. On error
// the state is unchanged.
func (s *AppState) Apply(t *events.Transition) error {
	if t == nil {
		return ErrInvalidTransition
	}

	var err error
	switch t.Type {
	case events.CourseCreated:
		err = s.createCourse(t)
	case events.CourseLoaded:
		err = s.loadCourse(t)
	case events.CourseSelected:
		_, err = s.course(t.CourseName)
	case events.DayChanged:
		err = s.changeDay(t)
	case events.DayCompleted:
		err = s.completeDay(t)
	case events.TestGenerated:
		err = s.generateTest(t)
	case events.TestSubmitted:
		err = s.submitTest(t)
	case events.TestReset:
		err = s.resetTest(t)
	case events.FlashcardsGenerated:
		err = s.generateFlashcards(t)
	case events.FlashcardsShuffled:
		err = s.shuffleFlashcards(t)
	default:
		err = fmt.Errorf("%w: unknown type %q", ErrInvalidTransition, t.Type)
	}
	if err != nil {
		return err
	}

	s.active = t.CourseName
	t.Course = s.courses[t.CourseName].Clone()
	t.Progress = s.Progress(t.CourseName)
	return nil
}

func (s *AppState) course(name string) (*domain.CourseSession, error) {
	c, ok := s.courses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCourse, name)
	}
	return c, nil
}

// courseDay resolves the course and checks that day lies in its plan.
func (s *AppState) courseDay(name string, day int) (*domain.CourseSession, error) {
	c, err := s.course(name)
	if err != nil {
		return nil, err
	}
	if day < 1 || day > len(c.StudyPlan) {
		return nil, fmt.Errorf("%w: day %d", domain.ErrDayOutOfRange, day)
	}
	return c, nil
}

func (s *AppState) createCourse(t *events.Transition) error {
	if t.Course == nil || t.Course.CourseName != t.CourseName {
		return fmt.Errorf("%w: course payload missing", ErrInvalidTransition)
	}
	if err := t.Course.Validate(); err != nil {
		return err
	}
	if _, ok := s.courses[t.CourseName]; ok {
		return fmt.Errorf("%w: %q", ErrCourseExists, t.CourseName)
	}
	s.courses[t.CourseName] = t.Course.Clone()
	s.progress[t.CourseName] = domain.NewProgress()
	return nil
}

// loadCourse replaces any in-memory copy with the one read from disk.
func (s *AppState) loadCourse(t *events.Transition) error {
	if t.Course == nil || t.Course.CourseName != t.CourseName {
		return fmt.Errorf("%w: course payload missing", ErrInvalidTransition)
	}
	if err := t.Course.Validate(); err != nil {
		return err
	}
	s.courses[t.CourseName] = t.Course.Clone()
	s.progress[t.CourseName] = domain.NewProgress(t.Progress.Days()...)
	return nil
}

// changeDay moves the current day. Moving past either end of the plan is a
// no-op rather than an error.
func (s *AppState) changeDay(t *events.Transition) error {
	if !t.Direction.Valid() {
		return fmt.Errorf("%w: direction %q", ErrInvalidTransition, t.Direction)
	}
	c, err := s.course(t.CourseName)
	if err != nil {
		return err
	}
	if t.Direction == events.Next {
		c.Next()
	} else {
		c.Previous()
	}
	t.Day = c.CurrentDay
	return nil
}

func (s *AppState) completeDay(t *events.Transition) error {
	if _, err := s.courseDay(t.CourseName, t.Day); err != nil {
		return err
	}
	p, ok := s.progress[t.CourseName]
	if !ok {
		p = domain.NewProgress()
		s.progress[t.CourseName] = p
	}
	p.Complete(t.Day)
	return nil
}

func (s *AppState) generateTest(t *events.Transition) error {
	if _, err := s.courseDay(t.CourseName, t.Day); err != nil {
		return err
	}
	if len(t.Questions) == 0 {
		return fmt.Errorf("%w: empty test", ErrInvalidTransition)
	}
	for _, q := range t.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	s.tests[DayKey{Course: t.CourseName, Day: t.Day}] = &Test{
		Questions: append([]domain.Question(nil), t.Questions...),
	}
	return nil
}

func (s *AppState) submitTest(t *events.Transition) error {
	test, ok := s.tests[DayKey{Course: t.CourseName, Day: t.Day}]
	if !ok {
		return ErrNoTest
	}
	if test.Result != nil {
		return ErrTestAlreadySubmitted
	}
	result, err := domain.Grade(test.Questions, t.Answers)
	if err != nil {
		return err
	}
	test.Answers = append([]string(nil), t.Answers...)
	test.Result = &result
	return nil
}

// resetTest clears a submission so the same questions can be retaken.
func (s *AppState) resetTest(t *events.Transition) error {
	test, ok := s.tests[DayKey{Course: t.CourseName, Day: t.Day}]
	if !ok {
		return ErrNoTest
	}
	test.Answers = nil
	test.Result = nil
	return nil
}

func (s *AppState) generateFlashcards(t *events.Transition) error {
	if _, err := s.courseDay(t.CourseName, t.Day); err != nil {
		return err
	}
	if len(t.Flashcards) == 0 {
		return fmt.Errorf("%w: empty deck", ErrInvalidTransition)
	}
	for _, card := range t.Flashcards {
		if err := card.Validate(); err != nil {
			return err
		}
	}
	s.decks[DayKey{Course: t.CourseName, Day: t.Day}] = append([]domain.Flashcard(nil), t.Flashcards...)
	return nil
}

func (s *AppState) shuffleFlashcards(t *events.Transition) error {
	key := DayKey{Course: t.CourseName, Day: t.Day}
	deck, ok := s.decks[key]
	if !ok {
		return ErrNoDeck
	}
	if !isPermutation(t.Order, len(deck)) {
		return fmt.Errorf("%w: order is not a permutation of %d cards", ErrInvalidTransition, len(deck))
	}
	shuffled := make([]domain.Flashcard, len(deck))
	for i, from := range t.Order {
		shuffled[i] = deck[from]
	}
	s.decks[key] = shuffled
	t.Flashcards = append([]domain.Flashcard(nil), shuffled...)
	return nil
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
