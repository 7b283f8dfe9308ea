package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func testConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

func classifier(err error) bool { return errors.Is(err, errTransient) }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRetrier_SucceedsFirstAttempt(t *testing.T) {
	r := NewRetrier(testConfig(), classifier, quietLogger())
	calls := 0

	err := r.Do(context.Background(), func() error { calls++; return nil })

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_RetriesTransientErrors(t *testing.T) {
	r := NewRetrier(testConfig(), classifier, quietLogger())
	calls := 0

	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_GivesUpAfterMaxAttempts(t *testing.T) {
	r := NewRetrier(testConfig(), classifier, quietLogger())
	calls := 0

	err := r.Do(context.Background(), func() error { calls++; return errTransient })

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestRetrier_StopsOnPermanentError(t *testing.T) {
	r := NewRetrier(testConfig(), classifier, quietLogger())
	calls := 0

	err := r.Do(context.Background(), func() error { calls++; return errFatal })

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
}

func TestRetrier_ContextCancelled(t *testing.T) {
	r := NewRetrier(testConfig(), classifier, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Do(ctx, func() error { return errTransient })

	assert.Error(t, err)
}
