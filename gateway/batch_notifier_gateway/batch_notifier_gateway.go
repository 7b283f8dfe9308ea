// Package batch_notifier_gateway pushes terminal batch statuses to the
// real-time channel without blocking the pipeline.
package batch_notifier_gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/metrics"
)

// Pusher delivers one status.
type Pusher interface {
	Push(ctx context.Context, status *domain.BatchStatus) error
}

// BatchNotifierGateway dispatches each notification on its own goroutine.
// Failures are logged and counted only.
type BatchNotifierGateway struct {
	pusher  Pusher
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewBatchNotifierGateway(pusher Pusher, timeout time.Duration, logger *slog.Logger) *BatchNotifierGateway {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BatchNotifierGateway{pusher: pusher, timeout: timeout, logger: logger}
}

// Notify returns immediately. The push runs with a context detached from
// ctx's cancellation and bounded by the gateway timeout.
func (g *BatchNotifierGateway) Notify(ctx context.Context, status *domain.BatchStatus) {
	if status == nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				metrics.RecordNotification("failed")
				g.logger.Error("notification dispatch panicked", "batch_id", status.BatchID, "panic", r)
			}
		}()

		if err := g.pusher.Push(pushCtx, status); err != nil {
			metrics.RecordNotification("failed")
			metrics.RecordError("notify", "push")
			g.logger.WarnContext(pushCtx, "batch notification failed",
				"batch_id", status.BatchID,
				"status", status.Status,
				"error", err)
			return
		}

		metrics.RecordNotification("delivered")
		g.logger.DebugContext(pushCtx, "batch notification delivered", "batch_id", status.BatchID)
	}()
}

// Wait blocks until in-flight notifications finish.
func (g *BatchNotifierGateway) Wait() {
	g.wg.Wait()
}
