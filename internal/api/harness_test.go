package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/api/middleware"
	"github.com/phrazzld/scry-study/internal/auth"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/paper"
	"github.com/phrazzld/scry-study/internal/platform/filestore"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/studyplan"
)

const (
	testUser     = "student"
	testPassword = "correct horse"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeAudio struct {
	dir string
	err error
}

func (a *fakeAudio) Render(ctx context.Context, text string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	path := filepath.Join(a.dir, "render.mp3")
	return path, os.WriteFile(path, []byte("ID3"+text), 0o600)
}

// harness is an API router backed by real services, file stores in a
// temporary directory and a scripted language model.
type harness struct {
	t        *testing.T
	router   http.Handler
	llm      *mocks.MockCompleter
	audio    *fakeAudio
	registry *session.Registry
	dataDir  string
	token    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		llm:     &mocks.MockCompleter{},
		audio:   &fakeAudio{dir: t.TempDir()},
		dataDir: t.TempDir(),
	}

	build := func(ctx context.Context, apiKey string) (*session.Workspace, error) {
		sessions := filestore.NewSessionStore(h.dataDir, discardLogger)
		progress := filestore.NewProgressStore(h.dataDir, discardLogger)
		dispatcher := events.NewDispatcher(discardLogger)
		dispatcher.RegisterHandler(service.NewPersistenceHandler(sessions, progress, discardLogger))

		study, err := service.NewStudyService(
			service.StudyConfig{QuestionsPerTest: 2, FlashcardsPerDay: 2},
			studyplan.NewPlanner(h.llm, nil, 10, discardLogger),
			h.llm, nil, sessions, progress, dispatcher, discardLogger)
		if err != nil {
			return nil, err
		}
		papers, err := service.NewPaperService(paper.NewAnalyzer(h.llm, nil, 2, discardLogger), h.audio, discardLogger)
		if err != nil {
			return nil, err
		}
		return &session.Workspace{Study: study, Papers: papers, Model: "test-model"}, nil
	}
	h.registry = session.NewRegistry(10, time.Hour, "server-key", build, discardLogger)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	verifier := &mocks.MockPasswordVerifier{CompareFn: func(_, password string) error {
		if password != testPassword {
			return auth.ErrInvalidCredentials
		}
		return nil
	}}

	r := chi.NewRouter()
	r.Use(middleware.NewTrace(discardLogger))
	r.Route("/api", Routes{
		Auth:         NewAuthHandler(auth.NewCredentials(testUser, "hash", verifier), jwtService, h.registry),
		Courses:      NewCourseHandler(),
		Papers:       NewPaperHandler(1 << 20),
		Authenticate: middleware.NewAuthMiddleware(jwtService, h.registry).Authenticate,
	}.Register)
	h.router = r

	return h
}

// do sends a JSON request. A non-nil body is encoded; the token is sent
// when the harness has logged in.
func (h *harness) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login() AuthResponse {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/auth/login", LoginRequest{Username: testUser, Password: testPassword})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	decode(h.t, rec, &resp)
	h.token = resp.AccessToken
	return resp
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	return resp.Error
}
