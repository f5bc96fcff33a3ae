package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/scry-study/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockSessionStore mocks store.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.CourseSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, courseName string) (*domain.CourseSession, error) {
	args := m.Called(ctx, courseName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseSession), args.Error(1)
}

func (m *MockSessionStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockProgressStore mocks store.ProgressStore
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Load(ctx context.Context, courseName string) (domain.Progress, error) {
	args := m.Called(ctx, courseName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Progress), args.Error(1)
}

func (m *MockProgressStore) Save(ctx context.Context, courseName string, progress domain.Progress) error {
	args := m.Called(ctx, courseName, progress)
	return args.Error(0)
}

func (m *MockProgressStore) MarkComplete(ctx context.Context, courseName string, day int) (domain.Progress, error) {
	args := m.Called(ctx, courseName, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Progress), args.Error(1)
}

// fakePlanner returns a fixed plan or error and records its inputs.
type fakePlanner struct {
	plan  domain.StudyPlan
	err   error
	calls int
	days  int
}

func (f *fakePlanner) GeneratePlan(ctx context.Context, subject string, totalDays int, level domain.Level) (domain.StudyPlan, error) {
	f.calls++
	f.days = totalDays
	if f.err != nil {
		return nil, f.err
	}
	return f.plan.Clone(), nil
}

// scriptedLLM returns its responses in order and records prompts.
type scriptedLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	out := s.responses[0]
	s.responses = s.responses[1:]
	return out, nil
}

type fakeAnalyzer struct {
	analysis *domain.PaperAnalysis
	script   string
	err      error
	text     string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, filename, text string) (*domain.PaperAnalysis, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

func (f *fakeAnalyzer) PodcastScript(ctx context.Context, text string) (string, error) {
	f.text = text
	if f.err != nil {
		return "", f.err
	}
	return f.script, nil
}

type fakeAudio struct {
	path string
	err  error
}

func (f *fakeAudio) Render(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}
