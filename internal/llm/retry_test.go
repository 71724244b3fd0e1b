package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetry(inner Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(inner, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}).(*RetryProvider)
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}},
		MockResponse{Content: json.RawMessage(`"ok"`)},
	)
	r, waits := newTestRetry(mock, 3)

	resp, err := r.Generate(context.Background(), UserPrompt("", "x"))
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())

	require.Len(t, *waits, 2)
	assert.InDelta(t, float64(100*time.Millisecond), float64((*waits)[0]), float64(20*time.Millisecond))
	assert.Equal(t, 3*time.Second, (*waits)[1], "Retry-After wins over backoff")
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`"never"`)},
	)
	r, waits := newTestRetry(mock, 2)

	_, err := r.Generate(context.Background(), UserPrompt("", "x"))
	var un *ErrProviderUnavailable
	assert.ErrorAs(t, err, &un)
	assert.Equal(t, 2, mock.CallCount())
	assert.Len(t, *waits, 1)
}

func TestRetryInvalidResponseOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad again")}},
		MockResponse{Content: json.RawMessage(`"ok"`)},
	)
	r, _ := newTestRetry(mock, 5)

	_, err := r.Generate(context.Background(), UserPrompt("", "x"))
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"truncated", &ErrMaxTokensExceeded{}},
		{"canceled", context.Canceled},
		{"deadline", context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockResponse{Content: json.RawMessage(`"ok"`)})
			r, waits := newTestRetry(mock, 3)

			_, err := r.Generate(context.Background(), UserPrompt("", "x"))
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.CallCount())
			assert.Empty(t, *waits)
		})
	}
}

func TestRetryBackoffCapped(t *testing.T) {
	r, _ := newTestRetry(NewMockProvider(), 10)
	for attempt := range 8 {
		wait := r.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, wait, 1200*time.Millisecond, "attempt %d", attempt)
		assert.Positive(t, wait)
	}
}

func TestSleepCtxCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}
