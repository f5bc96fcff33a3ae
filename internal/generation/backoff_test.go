package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var errQuota = errors.New("googleapi: Error 429: ResourceExhausted: quota exceeded")

// fakeSleeper records requested delays instead of sleeping.
type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

// scriptedOp returns the configured errors in order, then "ok".
func scriptedOp(errs ...error) (func(context.Context) (string, error), *int) {
	calls := 0
	return func(context.Context) (string, error) {
		calls++
		if calls <= len(errs) {
			return "", errs[calls-1]
		}
		return "ok", nil
	}, &calls
}

func TestCallWithBackoff_RetriesQuotaErrors(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	var warnings []string
	policy := DefaultPolicy(5)
	policy.Sleep = sleeper.Sleep
	policy.Notify = func(msg string) { warnings = append(warnings, msg) }

	op, calls := scriptedOp(errQuota, errQuota)
	result, err := CallWithBackoff(context.Background(), policy, op)

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.delays)
	assert.Equal(t, []string{
		"API quota exceeded. Retrying in 2 seconds...",
		"API quota exceeded. Retrying in 4 seconds...",
	}, warnings)
}

func TestCallWithBackoff_NonRetryableFailsImmediately(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	policy := DefaultPolicy(5)
	policy.Sleep = sleeper.Sleep

	boom := errors.New("permission denied")
	op, calls := scriptedOp(boom, boom, boom)
	_, err := CallWithBackoff(context.Background(), policy, op)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, 1, *calls)
	assert.Len(t, sleeper.delays, 1, "the first attempt still pays its delay")
}

func TestCallWithBackoff_Exhaustion(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	var warnings []string
	policy := DefaultPolicy(3)
	policy.Sleep = sleeper.Sleep
	policy.Notify = func(msg string) { warnings = append(warnings, msg) }

	op, calls := scriptedOp(errQuota, errQuota, errQuota, errQuota)
	_, err := CallWithBackoff(context.Background(), policy, op)

	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.ErrorIs(t, err, errQuota, "the last failure stays reachable")
	assert.Equal(t, 3, *calls)
	assert.Len(t, warnings, 2, "no warning after the final attempt")
}

func TestCallWithBackoff_NoFirstDelay(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	policy := Policy{MaxRetries: 3, InitialDelay: time.Second, Sleep: sleeper.Sleep}

	op, calls := scriptedOp(errQuota)
	_, err := CallWithBackoff(context.Background(), policy, op)

	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeper.delays)
}

func TestCallWithBackoff_ContextCancelledDuringSleep(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := DefaultPolicy(3)
	op, calls := scriptedOp()
	_, err := CallWithBackoff(ctx, policy, op)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, *calls)
}

func TestIsQuotaExhausted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sdk message", errors.New("rpc error: code = ResourceExhausted"), true},
		{"rest status", errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), true},
		{"api error value", genai.APIError{Code: 429, Message: "slow down"}, true},
		{"api error pointer", &genai.APIError{Code: 429}, true},
		{"other api error", genai.APIError{Code: 400, Message: "bad request"}, false},
		{"plain error", errors.New("connection reset"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsQuotaExhausted(tc.err))
		})
	}
}

func TestBackoffCompleter(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	policy := DefaultPolicy(3)
	policy.Sleep = sleeper.Sleep

	var prompts []string
	calls := 0
	inner := CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		calls++
		if calls == 1 {
			return "", errQuota
		}
		return "answer", nil
	})

	var notified []string
	b := NewBackoff(inner, policy, nil).WithNotify(func(msg string) { notified = append(notified, msg) })

	got, err := b.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	assert.Equal(t, []string{"hello", "hello"}, prompts)
	assert.Len(t, notified, 1)
}

func TestRetryMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		next time.Duration
		want string
	}{
		{"whole seconds", 4 * time.Second, "API quota exceeded. Retrying in 4 seconds..."},
		{"sub-second", 500 * time.Millisecond, "API quota exceeded. Retrying in 500ms..."},
		{"fractional seconds", 1500 * time.Millisecond, "API quota exceeded. Retrying in 1.5s..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, retryMessage(tc.next))
		})
	}
}

func TestCallWithBackoff_SubSecondDelayWarning(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	var warnings []string
	policy := Policy{MaxRetries: 2, InitialDelay: 250 * time.Millisecond, Sleep: sleeper.Sleep}
	policy.Notify = func(msg string) { warnings = append(warnings, msg) }

	op, _ := scriptedOp(errQuota)
	_, err := CallWithBackoff(context.Background(), policy, op)

	require.NoError(t, err)
	assert.Equal(t, []string{"API quota exceeded. Retrying in 500ms..."}, warnings)
}

func TestBackoffCompleter_CollectsWarnings(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{}
	policy := DefaultPolicy(3)
	policy.Sleep = sleeper.Sleep

	calls := 0
	inner := CompleterFunc(func(context.Context, string) (string, error) {
		calls++
		if calls < 3 {
			return "", errQuota
		}
		return "answer", nil
	})

	ctx, warnings := WithWarnings(context.Background())
	_, err := NewBackoff(inner, policy, nil).Complete(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"API quota exceeded. Retrying in 2 seconds...",
		"API quota exceeded. Retrying in 4 seconds...",
	}, warnings.List())

	_, err = NewBackoff(inner, policy, nil).Complete(context.Background(), "again")
	require.NoError(t, err)
	assert.Len(t, warnings.List(), 2, "calls without the collector leave it untouched")

	var none *Warnings
	assert.Nil(t, none.List())
}
