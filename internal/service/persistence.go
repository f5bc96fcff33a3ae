package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/store"
)

// PersistenceHandler writes applied transitions through to the stores.
// Course sessions are saved whole after creation and navigation; completed
// days are merged into the saved progress. Tests and flashcard decks are
// session-only and never persisted.
type PersistenceHandler struct {
	sessions store.SessionStore
	progress store.ProgressStore
	logger   *slog.Logger
}

var _ events.Handler = (*PersistenceHandler)(nil)

// NewPersistenceHandler creates a PersistenceHandler.
func NewPersistenceHandler(sessions store.SessionStore, progress store.ProgressStore, logger *slog.Logger) *PersistenceHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PersistenceHandler{
		sessions: sessions,
		progress: progress,
		logger:   logger.With("component", "persistence_handler"),
	}
}

// HandleTransition implements events.Handler.
func (h *PersistenceHandler) HandleTransition(ctx context.Context, t *events.Transition) error {
	switch t.Type {
	case events.CourseCreated, events.DayChanged:
		if t.Course == nil {
			return nil
		}
		if err := h.sessions.Save(ctx, t.Course); err != nil {
			return NewServiceError("persist_course", "failed to save course session", err)
		}
	case events.DayCompleted:
		if _, err := h.progress.MarkComplete(ctx, t.CourseName, t.Day); err != nil {
			return NewServiceError("persist_progress", "failed to save progress", err)
		}
	default:
		return nil
	}

	h.logger.DebugContext(ctx, "transition persisted",
		"transition_type", t.Type,
		"course_name", t.CourseName)
	return nil
}
