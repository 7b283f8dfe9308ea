// Package refresh_delegate_gateway hands refresh work to the external
// refresh worker.
package refresh_delegate_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/driver/service_api"
	"refresh-orchestrator/metrics"
	apperrors "refresh-orchestrator/utils/errors"

	"golang.org/x/time/rate"
)

// RefreshDelegateGateway calls the worker synchronously. Calls share one
// rate limiter across the process.
type RefreshDelegateGateway struct {
	client  *service_api.WorkerAPIClient
	limiter *rate.Limiter
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func NewRefreshDelegateGateway(client *service_api.WorkerAPIClient, limiter *rate.Limiter, timeout time.Duration, now func() time.Time, logger *slog.Logger) *RefreshDelegateGateway {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &RefreshDelegateGateway{
		client:  client,
		limiter: limiter,
		timeout: timeout,
		now:     now,
		logger:  logger,
	}
}

// Delegate blocks until the worker has processed feeds. CycleStartedAt on
// the receipt is taken after rate limiting, just before the call.
func (g *RefreshDelegateGateway) Delegate(ctx context.Context, batchID string, feeds []domain.FeedRef) (*domain.DelegationReceipt, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewTimeoutContextError(
			"rate limiter wait aborted",
			"gateway", "RefreshDelegateGateway", "Delegate",
			fmt.Errorf("%w: %w", domain.ErrDelegationFailed, err),
			map[string]any{"batch_id": batchID},
		)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cycleStartedAt := g.now()
	start := time.Now()
	resp, err := g.client.Refresh(callCtx, batchID, feeds)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordDelegation("failed", elapsed)
		g.logger.ErrorContext(ctx, "refresh worker call failed",
			"batch_id", batchID,
			"feeds", len(feeds),
			"error", err)

		newErr := apperrors.NewExternalAPIContextError
		if errors.Is(err, context.DeadlineExceeded) {
			newErr = apperrors.NewTimeoutContextError
		}
		return nil, newErr(
			"refresh worker call failed",
			"gateway", "RefreshDelegateGateway", "Delegate",
			fmt.Errorf("%w: %w", domain.ErrDelegationFailed, err),
			map[string]any{"batch_id": batchID, "feeds": len(feeds)},
		)
	}

	metrics.RecordDelegation("succeeded", elapsed)
	g.logger.InfoContext(ctx, "refresh worker call completed",
		"batch_id", batchID,
		"refreshed", len(resp.Refreshed),
		"failed", len(resp.Failed),
		"duration_ms", int64(elapsed*1000))

	return &domain.DelegationReceipt{
		CycleStartedAt: cycleStartedAt,
		Refreshed:      resp.Refreshed,
		Failed:         resp.Failed,
	}, nil
}
