// Package retry runs operations with exponential backoff and jitter.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

// DefaultRetryConfig is three attempts starting at 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.5,
	}
}

// ErrorClassifier reports whether an error may succeed on retry.
type ErrorClassifier func(error) bool

type Retrier struct {
	config      RetryConfig
	isRetryable ErrorClassifier
	logger      *slog.Logger
}

func NewRetrier(config RetryConfig, classifier ErrorClassifier, logger *slog.Logger) *Retrier {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Retrier{
		config:      config,
		isRetryable: classifier,
		logger:      logger,
	}
}

// Do runs operation until it succeeds, returns a non-retryable error, the
// attempts run out, or ctx is done.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	start := time.Now()
	attempt := 0

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		opErr := operation()
		if opErr == nil {
			if attempt > 1 {
				r.logger.InfoContext(ctx, "operation succeeded after retry",
					"attempt", attempt,
					"total_duration_ms", time.Since(start).Milliseconds())
			}
			return struct{}{}, nil
		}

		retryable := r.isRetryable == nil || r.isRetryable(opErr)
		r.logger.WarnContext(ctx, "operation attempt failed",
			"attempt", attempt,
			"error", opErr,
			"retryable", retryable)
		if !retryable {
			return struct{}{}, backoff.Permanent(opErr)
		}
		return struct{}{}, opErr
	},
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(uint(r.config.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
		return fmt.Errorf("operation failed after %d attempts (total: %dms): %w",
			attempt, time.Since(start).Milliseconds(), err)
	}
	return nil
}

func (r *Retrier) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.BaseDelay
	b.MaxInterval = r.config.MaxDelay
	b.Multiplier = r.config.BackoffFactor
	b.RandomizationFactor = r.config.JitterFactor
	return b
}
