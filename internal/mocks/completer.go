package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-study/internal/generation"
)

// MockCompleter implements generation.Completer for testing. With
// Responses set, calls consume them in order and the last one repeats.
type MockCompleter struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)

	Responses []string
	Err       error

	mu      sync.Mutex
	prompts []string
}

var _ generation.Completer = (*MockCompleter)(nil)

// NewMockCompleter returns a completer answering with responses in order.
func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{Responses: responses}
}

// NewFailingCompleter returns a completer that always fails with err.
func NewFailingCompleter(err error) *MockCompleter {
	return &MockCompleter{Err: err}
}

// Complete implements generation.Completer
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	n := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", generation.ErrInvalidResponse
	}
	if n >= len(m.Responses) {
		n = len(m.Responses) - 1
	}
	return m.Responses[n], nil
}

// Prompts returns the prompts received so far.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls returns how many times Complete was called.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
