// Package session keeps the in-memory user sessions of the HTTP API.
//
// A session owns one AppState and the services built for the language
// model key supplied at login. Sessions expire after a fixed lifetime and
// the least recently used one is evicted when the registry is full.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/phrazzld/scry-study/internal/platform/metrics"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/state"
)

// ErrMissingAPIKey is returned when neither the user nor the server
// configuration supplies a model API key.
var ErrMissingAPIKey = errors.New("no language model API key available")

// Workspace is what a session needs to serve requests. It is built once per
// session and never changes afterwards.
type Workspace struct {
	Study  *service.StudyService
	Papers *service.PaperService
	Model  string
}

// Builder creates the workspace for a model API key.
type Builder func(ctx context.Context, apiKey string) (*Workspace, error)

// Session is one logged-in user.
type Session struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
	State     *state.AppState
	Workspace *Workspace

	// turn holds a token while a request is being served.
	turn chan struct{}
}

func newSession(username string, ws *Workspace) *Session {
	return &Session{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
		State:     state.New(),
		Workspace: ws,
		turn:      make(chan struct{}, 1),
	}
}

// Acquire waits until no other request of this session is running. It
// returns ctx.Err() if ctx ends first.
func (s *Session) Acquire(ctx context.Context) error {
	select {
	case s.turn <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release ends the turn taken by Acquire.
func (s *Session) Release() {
	select {
	case <-s.turn:
	default:
	}
}

// Registry holds live sessions.
type Registry struct {
	cache      *expirable.LRU[uuid.UUID, *Session]
	build      Builder
	defaultKey string
	logger     *slog.Logger
}

// NewRegistry creates a registry holding at most size sessions for ttl
// each. defaultKey is used when a login supplies no API key.
func NewRegistry(size int, ttl time.Duration, defaultKey string, build Builder, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		build:      build,
		defaultKey: defaultKey,
		logger:     logger.With("component", "session_registry"),
	}
	r.cache = expirable.NewLRU[uuid.UUID, *Session](size, r.onEvict, ttl)
	return r
}

func (r *Registry) onEvict(id uuid.UUID, s *Session) {
	metrics.ActiveSessions.Dec()
	r.logger.Debug("session ended", "session_id", id, "username", s.Username)
}

// Create builds a workspace for apiKey (or the default key) and registers
// a new session.
func (r *Registry) Create(ctx context.Context, username, apiKey string) (*Session, error) {
	if apiKey == "" {
		apiKey = r.defaultKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ws, err := r.build(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build session workspace: %w", err)
	}

	s := newSession(username, ws)
	r.cache.Add(s.ID, s)
	metrics.ActiveSessions.Inc()

	r.logger.InfoContext(ctx, "session created",
		"session_id", s.ID,
		"username", username,
		"model", ws.Model,
		"active_sessions", r.cache.Len())
	return s, nil
}

// Get returns a live session.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	return r.cache.Get(id)
}

// Remove ends a session. It reports whether the session existed.
func (r *Registry) Remove(id uuid.UUID) bool {
	return r.cache.Remove(id)
}

// Len returns the number of sessions held, expired ones not yet swept included.
func (r *Registry) Len() int {
	return r.cache.Len()
}
