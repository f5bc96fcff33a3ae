package generation

import (
	"context"
	"sync"
)

type warningsKey struct{}

// Warnings collects the retry warnings raised while serving one request.
// It is safe for concurrent use.
type Warnings struct {
	mu   sync.Mutex
	list []string
}

// WithWarnings returns a context carrying a fresh collector. Every Backoff
// completer called with the returned context appends its retry warnings to it.
func WithWarnings(ctx context.Context) (context.Context, *Warnings) {
	w := &Warnings{}
	return context.WithValue(ctx, warningsKey{}, w), w
}

func warningsFrom(ctx context.Context) *Warnings {
	w, _ := ctx.Value(warningsKey{}).(*Warnings)
	return w
}

func (w *Warnings) add(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, message)
}

// List returns a copy of the collected warnings in the order raised.
func (w *Warnings) List() []string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.list) == 0 {
		return nil
	}
	return append([]string(nil), w.list...)
}
