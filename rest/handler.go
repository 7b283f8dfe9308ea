// Package rest exposes the orchestrator over HTTP.
package rest

import (
	"context"
	"log/slog"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/port/batch_status_port"
	"refresh-orchestrator/usecase/process_batch_usecase"
	"refresh-orchestrator/utils/logger"
)

// BatchProcessor runs decoded queue messages to terminal statuses.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, messages []domain.QueuedMessage) process_batch_usecase.BatchOutcome
}

// StatusHub fans statuses out to live subscribers.
type StatusHub interface {
	Publish(status *domain.BatchStatus) int
	Subscribe(batchID string) (<-chan *domain.BatchStatus, func())
}

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds what the HTTP routes need.
type Handler struct {
	processor    BatchProcessor
	statuses     batch_status_port.BatchStatusPort
	hub          StatusHub
	dependencies map[string]Pinger
	heartbeat    time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

type HandlerOption func(*Handler)

// WithHeartbeat sets the SSE heartbeat interval.
func WithHeartbeat(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// WithDependency adds a dependency to the health check.
func WithDependency(name string, p Pinger) HandlerOption {
	return func(h *Handler) { h.dependencies[name] = p }
}

func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

func NewHandler(processor BatchProcessor, statuses batch_status_port.BatchStatusPort, hub StatusHub, log *slog.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = logger.Logger
	}
	h := &Handler{
		processor:    processor,
		statuses:     statuses,
		hub:          hub,
		dependencies: map[string]Pinger{},
		heartbeat:    15 * time.Second,
		now:          time.Now,
		logger:       log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
