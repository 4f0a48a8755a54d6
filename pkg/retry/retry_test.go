package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	cause := errors.New("connection refused")
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return cause
	})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "max retry attempts (3) exceeded")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	cause := errors.New("password authentication failed")
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return Permanent(cause)
	})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}

func TestDoWithLog_ReportsRetriedAttempts(t *testing.T) {
	var attempts []int
	_ = DoWithLog(context.Background(), fastConfig(3), "PostgreSQL", func() error {
		return errors.New("down")
	}, func(attempt int, err error, nextDelay time.Duration) {
		attempts = append(attempts, attempt)
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(3), func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
