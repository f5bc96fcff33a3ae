package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/mocks"
)

const (
	planResponse = "1. Variables\n2. Functions\n3. Types"

	questionsResponse = `Q: What declares a variable?
A) var
B) func
C) type
D) go
Correct: A
Explanation: var declares variables.

Q: What starts a goroutine?
A) var
B) func
C) type
D) go
Correct: D
Explanation: the go statement.`

	flashcardsResponse = `Front: var
Back: declares a variable

Front: :=
Back: short variable declaration`
)

type fakeSynth struct {
	dir    string
	closed bool
}

func (s *fakeSynth) Render(ctx context.Context, text string) (string, error) {
	path := filepath.Join(s.dir, "render.mp3")
	return path, os.WriteFile(path, []byte("ID3"), 0o600)
}

func (s *fakeSynth) Close() error {
	s.closed = true
	return nil
}

func testConfig(dataDir string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			GeminiAPIKey:     "key",
			ModelName:        "gemini-test",
			StudyMaxRetries:  3,
			PaperMaxRetries:  3,
			PlanBatchSize:    10,
			MaxPlanDays:      30,
			MaxPodcastRounds: 3,
			QuestionsPerTest: 2,
			FlashcardsPerDay: 2,
		},
		Storage: config.StorageConfig{DataDir: dataDir},
	}
}

type run struct {
	out, err *bytes.Buffer
	llm      *mocks.MockCompleter
}

// execute runs scryctl with args against dataDir and a scripted model.
func execute(t *testing.T, dataDir string, llm *mocks.MockCompleter, stdin string, args ...string) (run, error) {
	t.Helper()

	r := run{out: &bytes.Buffer{}, err: &bytes.Buffer{}, llm: llm}
	c := newCLI(r.out, r.err, strings.NewReader(stdin))
	c.cfg = testConfig(dataDir)
	c.llm = llm
	c.newAudio = func(ctx context.Context) (audioCloser, error) {
		return &fakeSynth{dir: t.TempDir()}, nil
	}

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(r.out)
	root.SetErr(r.err)
	return r, root.ExecuteContext(context.Background())
}

func createCourse(t *testing.T, dataDir string) {
	t.Helper()
	_, err := execute(t, dataDir, mocks.NewMockCompleter(planResponse), "",
		"plan", "create", "go", "--subject", "Go programming", "--days", "3", "--start", "2026-01-05")
	require.NoError(t, err)
}

func TestPlanCommands(t *testing.T) {
	dataDir := t.TempDir()

	r, err := execute(t, dataDir, mocks.NewMockCompleter(planResponse), "",
		"plan", "create", "go", "--subject", "Go programming", "--days", "3", "--start", "2026-01-05")
	require.NoError(t, err)
	assert.Contains(t, r.out.String(), "Functions")
	assert.Contains(t, r.out.String(), "2026-01-06")
	assert.FileExists(t, filepath.Join(dataDir, "go_session.json"))

	_, err = execute(t, dataDir, mocks.NewMockCompleter(planResponse), "",
		"plan", "create", "go", "--subject", "Go programming", "--days", "3")
	assert.Error(t, err, "course names are unique")

	r, err = execute(t, dataDir, mocks.NewMockCompleter(), "", "plan", "list")
	require.NoError(t, err)
	assert.Equal(t, "go\n", r.out.String())

	r, err = execute(t, dataDir, mocks.NewMockCompleter(), "", "plan", "complete", "go", "2")
	require.NoError(t, err)
	assert.Contains(t, r.out.String(), "1 of 3 done")

	r, err = execute(t, dataDir, mocks.NewMockCompleter(), "", "plan", "show", "go")
	require.NoError(t, err)
	assert.Contains(t, r.out.String(), "done")
	assert.Zero(t, r.llm.Calls(), "showing a plan needs no model call")
}

func TestPlanCreateValidation(t *testing.T) {
	dataDir := t.TempDir()

	_, err := execute(t, dataDir, mocks.NewMockCompleter(planResponse), "",
		"plan", "create", "go", "--subject", "Go", "--level", "expert")
	assert.Error(t, err)

	_, err = execute(t, dataDir, mocks.NewMockCompleter(planResponse), "",
		"plan", "create", "go", "--subject", "Go", "--start", "05/01/2026")
	assert.ErrorContains(t, err, "YYYY-MM-DD")

	_, err = execute(t, dataDir, mocks.NewMockCompleter(planResponse), "", "plan", "complete", "go", "zero")
	assert.ErrorContains(t, err, "positive number")
}

func TestPlanRetryWarnings(t *testing.T) {
	calls := 0
	llm := &mocks.MockCompleter{CompleteFn: func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("rpc error: code = ResourceExhausted")
		}
		return planResponse, nil
	}}

	r, err := execute(t, t.TempDir(), llm, "",
		"plan", "create", "go", "--subject", "Go programming", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, r.err.String(), "API quota exceeded")
	assert.Equal(t, 2, calls)
}

func TestQuizCommand(t *testing.T) {
	t.Run("answers flag", func(t *testing.T) {
		dataDir := t.TempDir()
		createCourse(t, dataDir)

		r, err := execute(t, dataDir, mocks.NewMockCompleter(questionsResponse), "",
			"quiz", "go", "1", "--answers", "A,D")
		require.NoError(t, err)
		assert.Contains(t, r.out.String(), "What starts a goroutine?")
		assert.Contains(t, r.out.String(), "Score: 2/2")
	})

	t.Run("interactive", func(t *testing.T) {
		dataDir := t.TempDir()
		createCourse(t, dataDir)

		r, err := execute(t, dataDir, mocks.NewMockCompleter(questionsResponse), "x\na\nb\n", "quiz", "go", "1")
		require.NoError(t, err)
		assert.Contains(t, r.err.String(), "Please answer with one of A, B, C or D")
		assert.Contains(t, r.err.String(), "Score: 1/2")
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := execute(t, t.TempDir(), mocks.NewMockCompleter(questionsResponse), "", "quiz", "nope", "1")
		assert.Error(t, err)
	})
}

func TestFlashcardsCommand(t *testing.T) {
	dataDir := t.TempDir()
	createCourse(t, dataDir)

	r, err := execute(t, dataDir, mocks.NewMockCompleter(flashcardsResponse), "",
		"flashcards", "go", "2", "--shuffle")
	require.NoError(t, err)
	assert.Contains(t, r.out.String(), "declares a variable")
	assert.Contains(t, r.out.String(), "short variable declaration")
}

func TestSummarizeCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "paper.txt")
	require.NoError(t, os.WriteFile(file, []byte("ABSTRACT\nWe study things."), 0o600))

	r, err := execute(t, t.TempDir(), mocks.NewMockCompleter("A short summary."), "",
		"summarize", file, "--sections")
	require.NoError(t, err)
	assert.Contains(t, r.out.String(), "A short summary.")

	_, err = execute(t, t.TempDir(), mocks.NewMockCompleter(), "", "summarize", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestPodcastCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "episode.txt")
	require.NoError(t, os.WriteFile(file, []byte("RESULTS\nIt works."), 0o600))

	llm := mocks.NewMockCompleter("Alice: Welcome!", "Bob: Bye. END_OF_PODCAST")
	out := filepath.Join(t.TempDir(), "episode.mp3")

	r, err := execute(t, t.TempDir(), llm, "", "podcast", file, "--audio", out)
	require.NoError(t, err)
	assert.Contains(t, r.out.String(), "Alice: Welcome!")
	assert.NotContains(t, r.out.String(), "END_OF_PODCAST")
	assert.Equal(t, 2, llm.Calls())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
}
