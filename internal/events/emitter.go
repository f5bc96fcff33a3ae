package events

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Dispatcher delivers transitions synchronously: the caller's reducer first,
// then every registered handler in registration order.
type Dispatcher struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher with no handlers.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		handlers: make([]Handler, 0),
		logger:   logger.With("component", "transition_dispatcher"),
	}
}

// RegisterHandler adds a handler that observes applied transitions.
func (d *Dispatcher) RegisterHandler(handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
	d.logger.Debug("registered transition handler", "handler_count", len(d.handlers))
}

// Dispatch applies t through reducer and then notifies the handlers.
//
// A reducer error is returned immediately and no handler runs. Handler
// errors do not stop delivery to the remaining handlers; the first one is
// returned. The state change itself is not rolled back in that case.
func (d *Dispatcher) Dispatch(ctx context.Context, reducer Reducer, t *Transition) error {
	if err := reducer.Apply(t); err != nil {
		d.logger.Debug("transition rejected",
			"error", err,
			"transition_id", t.ID,
			"transition_type", t.Type,
			"course_name", t.CourseName)
		return err
	}

	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	d.logger.Debug("transition applied",
		"transition_id", t.ID,
		"transition_type", t.Type,
		"course_name", t.CourseName,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleTransition(ctx, t); err != nil {
			d.logger.Error("handler failed to process transition",
				"error", err,
				"handler_index", i,
				"transition_id", t.ID,
				"transition_type", t.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
