package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/parse"
	"github.com/phrazzld/scry-study/internal/prompts"
	"github.com/phrazzld/scry-study/internal/state"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/studyplan"
)

// Defaults applied by NewStudyService to zero StudyConfig fields.
const (
	DefaultQuestionsPerTest = 5
	DefaultFlashcardsPerDay = 10
	DefaultMaxPlanDays      = 365
)

// PlanGenerator produces day-indexed study plans. studyplan.Planner is the
// production implementation.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, subject string, totalDays int, level domain.Level) (domain.StudyPlan, error)
}

// StudyConfig tunes the study use cases.
type StudyConfig struct {
	QuestionsPerTest int
	FlashcardsPerDay int
	MaxPlanDays      int
}

// CreateCourseInput describes a new course.
type CreateCourseInput struct {
	Name    string
	Subject string
	Days    int
	Level   domain.Level
	// StartDate defaults to today.
	StartDate time.Time
}

// CourseView is a course as presented to callers after a transition.
type CourseView struct {
	Course        *domain.CourseSession `json:"course"`
	CompletedDays []int                 `json:"completed_days"`
	CurrentTopic  string                `json:"current_topic"`
	CurrentDate   string                `json:"current_date"`
}

// Explanation is the model's lesson for one day.
type Explanation struct {
	CourseName string `json:"course_name"`
	Day        int    `json:"day"`
	Topic      string `json:"topic"`
	Text       string `json:"text"`
}

// StudyService implements the study planner use cases against a caller
// supplied *state.AppState.
type StudyService struct {
	cfg        StudyConfig
	planner    PlanGenerator
	llm        generation.Completer
	prompts    *prompts.Library
	sessions   store.SessionStore
	progress   store.ProgressStore
	dispatcher *events.Dispatcher
	now        func() time.Time
	perm       func(n int) []int
	logger     *slog.Logger
}

// NewStudyService creates a StudyService. llm is normally a
// generation.Backoff around the session's model client.
func NewStudyService(
	cfg StudyConfig,
	planner PlanGenerator,
	llm generation.Completer,
	lib *prompts.Library,
	sessions store.SessionStore,
	progress store.ProgressStore,
	dispatcher *events.Dispatcher,
	logger *slog.Logger,
) (*StudyService, error) {
	switch {
	case planner == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "planner cannot be nil"}
	case llm == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "llm cannot be nil"}
	case sessions == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "sessions cannot be nil"}
	case progress == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "progress cannot be nil"}
	case dispatcher == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "dispatcher cannot be nil"}
	}

	if cfg.QuestionsPerTest <= 0 {
		cfg.QuestionsPerTest = DefaultQuestionsPerTest
	}
	if cfg.FlashcardsPerDay <= 0 {
		cfg.FlashcardsPerDay = DefaultFlashcardsPerDay
	}
	if cfg.MaxPlanDays <= 0 {
		cfg.MaxPlanDays = DefaultMaxPlanDays
	}
	if lib == nil {
		lib = prompts.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &StudyService{
		cfg:        cfg,
		planner:    planner,
		llm:        llm,
		prompts:    lib,
		sessions:   sessions,
		progress:   progress,
		dispatcher: dispatcher,
		now:        time.Now,
		perm:       rand.Perm,
		logger:     logger.With("component", "study_service"),
	}, nil
}

// CreateCourse generates a plan for a new course, registers it as the
// active course and persists it.
func (s *StudyService) CreateCourse(ctx context.Context, st *state.AppState, in CreateCourseInput) (*CourseView, error) {
	name := strings.TrimSpace(in.Name)
	if err := store.ValidateCourseName(name); err != nil {
		return nil, err
	}
	if in.Days <= 0 || in.Days > s.cfg.MaxPlanDays {
		return nil, fmt.Errorf("%w: must be between 1 and %d, got %d",
			studyplan.ErrInvalidDuration, s.cfg.MaxPlanDays, in.Days)
	}
	if !in.Level.Valid() {
		return nil, domain.ErrInvalidLevel
	}
	if strings.TrimSpace(in.Subject) == "" {
		return nil, domain.ErrEmptySubject
	}

	if _, ok := st.Course(name); ok {
		return nil, ErrCourseExists
	}
	_, err := s.sessions.Load(ctx, name)
	switch {
	case err == nil:
		return nil, ErrCourseExists
	case !errors.Is(err, store.ErrCourseNotFound):
		return nil, NewServiceError("create_course", "failed to check for existing course", err)
	}

	plan, err := s.planner.GeneratePlan(ctx, in.Subject, in.Days, in.Level)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate study plan",
			"error", err,
			"course_name", name,
			"days", in.Days)
		return nil, NewServiceError("create_course", "failed to generate study plan", err)
	}

	start := in.StartDate
	if start.IsZero() {
		start = s.now()
	}
	course, err := domain.NewCourseSession(name, in.Subject, in.Level, start, plan)
	if err != nil {
		return nil, NewServiceError("create_course", "invalid course", err)
	}

	t := events.NewCourseCreated(course)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("create_course", "failed to register course", err)
	}

	s.logger.InfoContext(ctx, "course created",
		"course_name", name,
		"days", len(plan),
		"level", in.Level)

	return viewOf(t), nil
}

// ListCourses returns every saved or loaded course name, sorted.
func (s *StudyService) ListCourses(ctx context.Context, st *state.AppState) ([]string, error) {
	saved, err := s.sessions.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_courses", "failed to list saved courses", err)
	}

	seen := make(map[string]struct{}, len(saved))
	names := make([]string, 0, len(saved))
	for _, name := range append(saved, st.CourseNames()...) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// OpenCourse makes a course active, loading it from disk when it is not in
// memory yet.
func (s *StudyService) OpenCourse(ctx context.Context, st *state.AppState, name string) (*CourseView, error) {
	if _, ok := st.Course(name); ok {
		t := events.NewCourseSelected(name)
		if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
			return nil, NewServiceError("open_course", "failed to select course", err)
		}
		return viewOf(t), nil
	}

	t, err := s.load(ctx, st, name)
	if err != nil {
		return nil, err
	}
	return viewOf(t), nil
}

// Navigate moves the current day of a course. Moving past either end of
// the plan leaves the course unchanged.
func (s *StudyService) Navigate(
	ctx context.Context,
	st *state.AppState,
	name string,
	dir events.Direction,
) (*CourseView, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: direction %q", domain.ErrValidation, dir)
	}
	if err := s.ensureLoaded(ctx, st, name); err != nil {
		return nil, err
	}

	t := events.NewDayChanged(name, dir)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("navigate", "failed to change day", err)
	}
	return viewOf(t), nil
}

// CompleteDay marks a day of a course as completed.
func (s *StudyService) CompleteDay(ctx context.Context, st *state.AppState, name string, day int) (*CourseView, error) {
	if err := s.ensureLoaded(ctx, st, name); err != nil {
		return nil, err
	}

	t := events.NewDayCompleted(name, day)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("complete_day", "failed to mark day complete", err)
	}
	return viewOf(t), nil
}

// ExplainTopic asks the model for a lesson on the topic of a day.
func (s *StudyService) ExplainTopic(ctx context.Context, st *state.AppState, name string, day int) (*Explanation, error) {
	course, topic, err := s.topic(ctx, st, name, day)
	if err != nil {
		return nil, err
	}

	text, err := s.complete(ctx, prompts.Explain, topicData(course, topic, day, 0))
	if err != nil {
		return nil, NewServiceError("explain_topic", "failed to generate explanation", err)
	}

	return &Explanation{
		CourseName: name,
		Day:        day,
		Topic:      topic,
		Text:       strings.TrimSpace(text),
	}, nil
}

// GenerateTest asks the model for multiple-choice questions on the topic of
// a day. Malformed questions are dropped; an answer without any valid
// question fails with ErrNoQuestions.
func (s *StudyService) GenerateTest(ctx context.Context, st *state.AppState, name string, day int) ([]domain.Question, error) {
	course, topic, err := s.topic(ctx, st, name, day)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, prompts.Test, topicData(course, topic, day, s.cfg.QuestionsPerTest))
	if err != nil {
		return nil, NewServiceError("generate_test", "failed to generate questions", err)
	}

	questions := parse.Questions(raw)
	if len(questions) == 0 {
		s.logger.WarnContext(ctx, "model answer had no valid questions",
			"course_name", name,
			"day", day,
			"response_length", len(raw))
		return nil, ErrNoQuestions
	}

	t := events.NewTestGenerated(name, day, questions)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("generate_test", "failed to store test", err)
	}
	return t.Questions, nil
}

// SubmitTest grades answers against the test of a day.
func (s *StudyService) SubmitTest(
	ctx context.Context,
	st *state.AppState,
	name string,
	day int,
	answers []string,
) (*domain.TestResult, error) {
	t := events.NewTestSubmitted(name, day, answers)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("submit_test", "failed to grade test", err)
	}

	test, _ := st.Test(name, day)
	return test.Result, nil
}

// RetakeTest clears the submission of a day's test and returns its questions.
func (s *StudyService) RetakeTest(ctx context.Context, st *state.AppState, name string, day int) ([]domain.Question, error) {
	t := events.NewTestReset(name, day)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("retake_test", "failed to reset test", err)
	}

	test, _ := st.Test(name, day)
	return test.Questions, nil
}

// GenerateFlashcards asks the model for flashcards on the topic of a day.
func (s *StudyService) GenerateFlashcards(
	ctx context.Context,
	st *state.AppState,
	name string,
	day int,
) ([]domain.Flashcard, error) {
	course, topic, err := s.topic(ctx, st, name, day)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, prompts.Flashcards, topicData(course, topic, day, s.cfg.FlashcardsPerDay))
	if err != nil {
		return nil, NewServiceError("generate_flashcards", "failed to generate flashcards", err)
	}

	cards := parse.Flashcards(raw)
	if len(cards) == 0 {
		s.logger.WarnContext(ctx, "model answer had no complete flashcards",
			"course_name", name,
			"day", day,
			"response_length", len(raw))
		return nil, ErrNoFlashcards
	}

	t := events.NewFlashcardsGenerated(name, day, cards)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("generate_flashcards", "failed to store flashcards", err)
	}
	return t.Flashcards, nil
}

// ShuffleFlashcards reorders the deck of a day at random.
func (s *StudyService) ShuffleFlashcards(
	ctx context.Context,
	st *state.AppState,
	name string,
	day int,
) ([]domain.Flashcard, error) {
	deck, ok := st.Flashcards(name, day)
	if !ok {
		return nil, state.ErrNoDeck
	}

	t := events.NewFlashcardsShuffled(name, day, s.perm(len(deck)))
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("shuffle_flashcards", "failed to shuffle flashcards", err)
	}
	return t.Flashcards, nil
}

func (s *StudyService) ensureLoaded(ctx context.Context, st *state.AppState, name string) error {
	if _, ok := st.Course(name); ok {
		return nil
	}
	_, err := s.load(ctx, st, name)
	return err
}

func (s *StudyService) load(ctx context.Context, st *state.AppState, name string) (*events.Transition, error) {
	if err := store.ValidateCourseName(name); err != nil {
		return nil, err
	}

	course, err := s.sessions.Load(ctx, name)
	if err != nil {
		return nil, NewServiceError("load_course", "failed to load course", err)
	}
	progress, err := s.progress.Load(ctx, name)
	if err != nil {
		return nil, NewServiceError("load_course", "failed to load progress", err)
	}

	t := events.NewCourseLoaded(course, progress)
	if err := s.dispatcher.Dispatch(ctx, st, t); err != nil {
		return nil, NewServiceError("load_course", "failed to register course", err)
	}

	s.logger.DebugContext(ctx, "course loaded from disk", "course_name", name)
	return t, nil
}

func (s *StudyService) topic(
	ctx context.Context,
	st *state.AppState,
	name string,
	day int,
) (*domain.CourseSession, string, error) {
	if err := s.ensureLoaded(ctx, st, name); err != nil {
		return nil, "", err
	}
	course, ok := st.Course(name)
	if !ok {
		return nil, "", ErrCourseNotFound
	}
	topic, err := course.StudyPlan.TopicFor(day)
	if err != nil {
		return nil, "", err
	}
	return course, topic, nil
}

func (s *StudyService) complete(ctx context.Context, name string, data any) (string, error) {
	prompt, err := s.prompts.Render(name, data)
	if err != nil {
		return "", err
	}
	return s.llm.Complete(ctx, prompt)
}

func topicData(course *domain.CourseSession, topic string, day, count int) prompts.TopicData {
	return prompts.TopicData{
		Subject: course.Subject,
		Level:   course.Level.String(),
		Topic:   topic,
		Day:     day,
		Count:   count,
	}
}

// viewOf builds a CourseView from the snapshots the reducer recorded.
func viewOf(t *events.Transition) *CourseView {
	view := &CourseView{
		Course:        t.Course,
		CompletedDays: t.Progress.Days(),
	}
	if t.Course != nil {
		view.CurrentTopic, _ = t.Course.CurrentTopic()
		if date, err := t.Course.DateFor(t.Course.CurrentDay); err == nil {
			view.CurrentDate = date.Format(domain.DateLayout)
		}
	}
	return view
}
