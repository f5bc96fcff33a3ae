package filestore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// SessionStore implements store.SessionStore with JSON files.
type SessionStore struct {
	dir    string
	logger *slog.Logger
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store rooted at dir.
// If logger is nil, a default logger will be used.
func NewSessionStore(dir string, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Path returns the session file path for courseName.
func (s *SessionStore) Path(courseName string) string {
	return filepath.Join(s.dir, courseName+sessionSuffix)
}

// Save implements store.SessionStore.Save.
func (s *SessionStore) Save(ctx context.Context, session *domain.CourseSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if session == nil {
		return store.NewStoreError("session", "save", "session is nil", store.ErrInvalidEntity)
	}
	if err := store.ValidateCourseName(session.CourseName); err != nil {
		return err
	}
	if err := session.Validate(); err != nil {
		return store.NewStoreError("session", "save", "session failed validation",
			errors.Join(store.ErrInvalidEntity, err))
	}

	if err := writeJSON(s.Path(session.CourseName), session); err != nil {
		log.Error("failed to write session file",
			slog.String("course", session.CourseName),
			slog.String("error", err.Error()))
		return store.NewStoreError("session", "save", "failed to write session file", err)
	}

	log.Debug("session saved",
		slog.String("course", session.CourseName),
		slog.Int("current_day", session.CurrentDay))
	return nil
}

// Load implements store.SessionStore.Load.
func (s *SessionStore) Load(ctx context.Context, courseName string) (*domain.CourseSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateCourseName(courseName); err != nil {
		return nil, err
	}

	var session domain.CourseSession
	if err := readJSON(s.Path(courseName), &session); err != nil {
		if isNotExist(err) {
			return nil, store.ErrCourseNotFound
		}
		if isDecodeError(err) {
			log.Warn("corrupt session file",
				slog.String("course", courseName),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("session", "load", "failed to decode session file",
				errors.Join(store.ErrCorrupt, err))
		}
		return nil, store.NewStoreError("session", "load", "failed to read session file", err)
	}

	if session.CourseName == "" {
		session.CourseName = courseName
	}
	if err := session.Validate(); err != nil {
		return nil, store.NewStoreError("session", "load", "stored session is invalid",
			errors.Join(store.ErrCorrupt, err))
	}

	return &session, nil
}

// List implements store.SessionStore.List.
func (s *SessionStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if isNotExist(err) {
			return []string{}, nil
		}
		return nil, store.NewStoreError("session", "list", "failed to read data directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionSuffix) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), sessionSuffix)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	logger.FromContextOrDefault(ctx, s.logger).Debug("listed sessions", slog.Int("count", len(names)))
	return names, nil
}
