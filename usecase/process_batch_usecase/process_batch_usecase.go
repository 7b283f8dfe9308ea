// Package process_batch_usecase runs queued refresh batches through the
// staleness, delegation, reconciliation and enrichment stages and records
// one terminal status per batch.
package process_batch_usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/metrics"
	"refresh-orchestrator/port/batch_notifier_port"
	"refresh-orchestrator/port/batch_status_port"
	"refresh-orchestrator/port/refresh_delegate_port"
	"refresh-orchestrator/usecase/reconcile_usecase"
	"refresh-orchestrator/utils/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "refresh-orchestrator/process_batch"

type StalenessDetector interface {
	Detect(ctx context.Context, titles []string) domain.StalenessReport
}

type Reconciler interface {
	Reconcile(ctx context.Context, in reconcile_usecase.ReconcileInput) domain.ReconciliationResult
}

type Enricher interface {
	Enrich(ctx context.Context, entries []*domain.Entry, mediaTypes map[string]string) []domain.DisplayEntry
}

// BatchOutcome counts messages by terminal status. Processed means
// completed; Failed means a failed status was produced or the message
// could not be processed.
type BatchOutcome struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type ProcessBatchUsecase struct {
	detector   StalenessDetector
	delegate   refresh_delegate_port.RefreshDelegatePort
	reconciler Reconciler
	enricher   Enricher
	statuses   batch_status_port.BatchStatusPort
	notifier   batch_notifier_port.BatchNotifierPort
	now        func() time.Time
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewProcessBatchUsecase(
	detector StalenessDetector,
	delegate refresh_delegate_port.RefreshDelegatePort,
	reconciler Reconciler,
	enricher Enricher,
	statuses batch_status_port.BatchStatusPort,
	notifier batch_notifier_port.BatchNotifierPort,
	now func() time.Time,
	log *slog.Logger,
) *ProcessBatchUsecase {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Logger
	}
	return &ProcessBatchUsecase{
		detector:   detector,
		delegate:   delegate,
		reconciler: reconciler,
		enricher:   enricher,
		statuses:   statuses,
		notifier:   notifier,
		now:        now,
		tracer:     otel.Tracer(tracerName),
		logger:     log,
	}
}

// ProcessBatch handles messages one at a time. A failure in one message
// never affects the others.
func (u *ProcessBatchUsecase) ProcessBatch(ctx context.Context, messages []domain.QueuedMessage) BatchOutcome {
	var outcome BatchOutcome
	for _, msg := range messages {
		if u.processMessage(ctx, msg) {
			outcome.Processed++
		} else {
			outcome.Failed++
		}
	}

	u.logger.InfoContext(ctx, "batch messages processed",
		"messages", len(messages),
		"processed", outcome.Processed,
		"failed", outcome.Failed)
	return outcome
}

// processMessage reports whether the message ended completed.
func (u *ProcessBatchUsecase) processMessage(ctx context.Context, msg domain.QueuedMessage) (ok bool) {
	ctx = logger.WithBatchID(ctx, msg.BatchID)
	ctx, span := u.tracer.Start(ctx, "ProcessMessage", trace.WithAttributes(attribute.String("batch.id", msg.BatchID)))
	defer span.End()

	log := logger.FromContext(ctx, u.logger)
	timing := domain.BatchTiming{QueuedAt: msg.QueuedAt, ProcessedAt: u.now()}
	if timing.QueuedAt.IsZero() {
		timing.QueuedAt = timing.ProcessedAt
	}

	// finished is set once a terminal status has been handed to finish, so
	// a panic after that point does not write or count the batch twice.
	finished := false
	finish := func(status *domain.BatchStatus) bool {
		finished = true
		return u.finish(ctx, status, timing)
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("internal error: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			log.ErrorContext(ctx, "batch processing panicked", "panic", r)
			if msg.BatchID != "" && !finished {
				finish(domain.NewFailedStatus(msg.BatchID, u.complete(timing), err))
			}
			ok = false
		}
	}()

	if !msg.Valid() {
		err := msg.Err
		if err == nil {
			err = domain.ErrInvalidMessage
		}
		span.SetStatus(codes.Error, "invalid message")
		log.WarnContext(ctx, "rejecting invalid batch message", "error", err)
		if msg.BatchID == "" {
			metrics.RecordBatch(string(domain.StatusFailed), 0, 0)
			return false
		}
		finish(domain.NewFailedStatus(msg.BatchID, u.complete(timing), err))
		return false
	}

	status := u.run(ctx, msg.Request, timing)
	if status.Status == domain.StatusFailed {
		span.SetStatus(codes.Error, status.Error)
	}
	return finish(status)
}

// run executes the pipeline stages and returns the terminal status.
func (u *ProcessBatchUsecase) run(ctx context.Context, req *domain.BatchRequest, timing domain.BatchTiming) *domain.BatchStatus {
	titles := req.PostTitles()
	log := logger.FromContext(ctx, u.logger)

	detectCtx, detectSpan := u.tracer.Start(logger.WithStage(ctx, "detect"), "DetectStaleness")
	report := u.detector.Detect(detectCtx, titles)
	detectSpan.SetAttributes(
		attribute.Int("feeds.stale", len(report.Stale)),
		attribute.Int("feeds.missing", len(report.Missing)),
	)
	detectSpan.End()

	if !report.NeedsRefresh() {
		metrics.EarlyExitsTotal.Inc()
		log.InfoContext(ctx, "all feeds fresh, skipping refresh", "feeds", len(titles))
		return domain.NewCompletedStatus(req.BatchID, u.complete(timing), u.result(nil, domain.EmptyReconciliation(), false, titles, timing))
	}

	delegateCtx, delegateSpan := u.tracer.Start(logger.WithStage(ctx, "delegate"), "DelegateRefresh")
	receipt, err := u.delegate.Delegate(delegateCtx, req.BatchID, feedsToRefresh(req.Feeds, report))
	if err != nil {
		delegateSpan.RecordError(err)
		delegateSpan.SetStatus(codes.Error, "delegation failed")
		delegateSpan.End()
		log.ErrorContext(ctx, "refresh delegation failed", "error", err)
		if !errors.Is(err, domain.ErrDelegationFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrDelegationFailed, err)
		}
		return domain.NewFailedStatus(req.BatchID, u.complete(timing), err)
	}
	delegateSpan.SetAttributes(attribute.Int("feeds.refreshed", len(receipt.Refreshed)))
	delegateSpan.End()

	var newest *time.Time
	if req.NewestEntryDate != nil && !req.NewestEntryDate.IsZero() {
		t := req.NewestEntryDate.Time
		newest = &t
	}

	reconcileCtx, reconcileSpan := u.tracer.Start(logger.WithStage(ctx, "reconcile"), "ReconcileEntries")
	reconciled := u.reconciler.Reconcile(reconcileCtx, reconcile_usecase.ReconcileInput{
		Titles:          titles,
		ExistingGUIDs:   req.ExistingGUIDs,
		NewestEntryDate: newest,
		CycleStartedAt:  receipt.CycleStartedAt,
		Known:           report.Known,
	})
	reconcileSpan.SetAttributes(attribute.Int("entries.total", reconciled.TotalEntries))
	reconcileSpan.End()

	var display []domain.DisplayEntry
	if len(reconciled.Entries) > 0 {
		enrichCtx, enrichSpan := u.tracer.Start(logger.WithStage(ctx, "enrich"), "EnrichEntries")
		display = u.enricher.Enrich(enrichCtx, reconciled.Entries, req.MediaTypes())
		enrichSpan.End()
	}

	return domain.NewCompletedStatus(req.BatchID, u.complete(timing), u.result(display, reconciled, receipt.RefreshedAny(), titles, timing))
}

func (u *ProcessBatchUsecase) result(display []domain.DisplayEntry, reconciled domain.ReconciliationResult, refreshedAny bool, titles []string, timing domain.BatchTiming) *domain.BatchResult {
	if display == nil {
		display = []domain.DisplayEntry{}
	}
	now := u.now()
	return &domain.BatchResult{
		Entries:          display,
		NewEntriesCount:  len(display),
		TotalEntries:     reconciled.TotalEntries,
		HasMore:          reconciled.HasMore,
		RefreshedAny:     refreshedAny,
		PostTitles:       titles,
		RefreshTimestamp: now.UTC().Format(time.RFC3339),
		ProcessingTimeMs: now.Sub(timing.ProcessedAt).Milliseconds(),
	}
}

func (u *ProcessBatchUsecase) complete(timing domain.BatchTiming) domain.BatchTiming {
	timing.CompletedAt = u.now()
	return timing
}

// finish writes and publishes status. It reports whether the message
// counts as completed. The write and the push outlive ctx so the batch
// reaches a terminal status even after the caller goes away.
func (u *ProcessBatchUsecase) finish(ctx context.Context, status *domain.BatchStatus, timing domain.BatchTiming) bool {
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContext(logger.WithStage(ctx, "publish"), u.logger)
	completed := status.Status == domain.StatusCompleted

	entries := 0
	if status.Result != nil {
		entries = len(status.Result.Entries)
	}
	metrics.RecordBatch(string(status.Status), u.now().Sub(timing.ProcessedAt).Seconds(), entries)

	err := u.statuses.WriteStatus(ctx, status)
	switch {
	case errors.Is(err, domain.ErrStatusAlreadyWritten):
		log.WarnContext(ctx, "batch status already recorded, keeping the first one", "status", status.Status)
		return completed
	case err != nil:
		metrics.RecordError("write_status", "store")
		log.ErrorContext(ctx, "failed to write batch status", "status", status.Status, "error", err)
		u.notifier.Notify(ctx, status)
		return false
	}

	log.InfoContext(ctx, "batch finished",
		"status", status.Status,
		"entries", entries,
		"processing_ms", status.CompletedAt-status.ProcessedAt)
	u.notifier.Notify(ctx, status)
	return completed
}

// feedsToRefresh returns the requested feeds that are stale or missing,
// once per title.
func feedsToRefresh(feeds []domain.FeedRef, report domain.StalenessReport) []domain.FeedRef {
	wanted := make(map[string]struct{}, len(report.Stale)+len(report.Missing))
	for _, title := range report.Stale {
		wanted[title] = struct{}{}
	}
	for _, title := range report.Missing {
		wanted[title] = struct{}{}
	}

	out := make([]domain.FeedRef, 0, len(wanted))
	for _, feed := range feeds {
		if _, ok := wanted[feed.PostTitle]; !ok {
			continue
		}
		delete(wanted, feed.PostTitle)
		out = append(out, feed)
	}
	return out
}
