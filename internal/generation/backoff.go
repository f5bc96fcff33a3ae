package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// quotaSignatures are the substrings that mark a failure as quota or
// resource exhaustion, as rendered by the Gemini SDK and REST API.
var quotaSignatures = []string{"ResourceExhausted", "RESOURCE_EXHAUSTED"}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy controls CallWithBackoff.
type Policy struct {
	// MaxRetries is the total number of attempts. Values below 1 mean 1.
	MaxRetries int

	// InitialDelay is the base of the exponential delay.
	InitialDelay time.Duration

	// DelayFirstAttempt makes the delay InitialDelay*2^attempt apply before
	// every attempt, the first one included. When false the first attempt
	// runs immediately and later attempts wait the same amounts.
	DelayFirstAttempt bool

	// Notify, if set, is called before each retry with a user-facing warning.
	Notify func(message string)

	// Sleep replaces the real timer, mostly in tests.
	Sleep Sleeper
}

// DefaultPolicy returns a policy with the given attempt budget, a one
// second base delay and the delay paid before the first attempt.
func DefaultPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Second,
		DelayFirstAttempt: true,
	}
}

// DelayFor returns the delay paid before the given zero-based attempt.
func (p Policy) DelayFor(attempt int) time.Duration {
	if attempt == 0 && !p.DelayFirstAttempt {
		return 0
	}
	return p.InitialDelay * time.Duration(1<<uint(attempt))
}

// IsQuotaExhausted reports whether err is a retryable quota failure.
func IsQuotaExhausted(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code == 429 {
		return true
	}

	msg := err.Error()
	for _, sig := range quotaSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// CallWithBackoff runs op up to p.MaxRetries times. Quota failures are
// retried with exponential delay; any other failure is returned at once.
// When the budget is spent the result wraps both ErrMaxRetriesExceeded and
// the last failure.
func CallWithBackoff(ctx context.Context, p Policy, op func(ctx context.Context) (string, error)) (string, error) {
	attempts := p.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if delay := p.DelayFor(attempt); delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !IsQuotaExhausted(err) {
			return "", err
		}

		lastErr = err
		if attempt < attempts-1 && p.Notify != nil {
			next := p.DelayFor(attempt + 1)
			p.Notify(retryMessage(next))
		}
	}

	return "", fmt.Errorf("%w (%d attempts): %w", ErrMaxRetriesExceeded, attempts, lastErr)
}

// retryMessage renders the warning shown before a retry. Whole seconds read
// as "N seconds"; anything finer keeps its exact duration.
func retryMessage(next time.Duration) string {
	if next >= time.Second && next%time.Second == 0 {
		return fmt.Sprintf("API quota exceeded. Retrying in %d seconds...", int(next/time.Second))
	}
	return fmt.Sprintf("API quota exceeded. Retrying in %s...", next)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Backoff decorates a Completer with a retry policy.
type Backoff struct {
	next   Completer
	policy Policy
	logger *slog.Logger
}

var _ Completer = (*Backoff)(nil)

// NewBackoff wraps next with policy. A nil logger discards log output.
func NewBackoff(next Completer, policy Policy, logger *slog.Logger) *Backoff {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backoff{next: next, policy: policy, logger: logger}
}

// WithNotify returns a copy of b whose retry warnings go to notify as well
// as to the log.
func (b *Backoff) WithNotify(notify func(message string)) *Backoff {
	out := *b
	out.policy.Notify = notify
	return &out
}

// Complete implements Completer.
func (b *Backoff) Complete(ctx context.Context, prompt string) (string, error) {
	policy := b.policy
	userNotify := policy.Notify
	policy.Notify = func(message string) {
		b.logger.WarnContext(ctx, "retrying language model call", "reason", message)
		if w := warningsFrom(ctx); w != nil {
			w.add(message)
		}
		if userNotify != nil {
			userNotify(message)
		}
	}

	return CallWithBackoff(ctx, policy, func(ctx context.Context) (string, error) {
		return b.next.Complete(ctx, prompt)
	})
}
