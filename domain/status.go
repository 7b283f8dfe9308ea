package domain

import (
	"time"
)

// BatchState is the terminal state of a batch.
type BatchState string

const (
	// StatusCompleted means the batch ran to the end, possibly with zero entries.
	StatusCompleted BatchState = "completed"
	// StatusFailed means the batch could not produce a result.
	StatusFailed BatchState = "failed"
	// StatusUnknown is reported to readers when no record exists.
	StatusUnknown BatchState = "unknown"
)

// BatchResult is the summary stored for a completed batch.
type BatchResult struct {
	Entries          []DisplayEntry `json:"entries"`
	NewEntriesCount  int            `json:"newEntriesCount"`
	TotalEntries     int            `json:"totalEntries"`
	HasMore          bool           `json:"hasMore"`
	RefreshedAny     bool           `json:"refreshedAny"`
	PostTitles       []string       `json:"postTitles"`
	RefreshTimestamp string         `json:"refreshTimestamp"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
}

// BatchStatus is the ephemeral record published once per batch.
// Timestamps are unix milliseconds.
type BatchStatus struct {
	BatchID     string       `json:"batchId"`
	Status      BatchState   `json:"status"`
	QueuedAt    int64        `json:"queuedAt"`
	ProcessedAt int64        `json:"processedAt"`
	CompletedAt int64        `json:"completedAt"`
	Result      *BatchResult `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// BatchTiming records the lifecycle instants of one batch.
type BatchTiming struct {
	QueuedAt    time.Time
	ProcessedAt time.Time
	CompletedAt time.Time
}

// IsTerminal reports whether the status is completed or failed.
func (s *BatchStatus) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// NewCompletedStatus builds a completed status.
func NewCompletedStatus(batchID string, timing BatchTiming, result *BatchResult) *BatchStatus {
	if result != nil && result.Entries == nil {
		result.Entries = []DisplayEntry{}
	}
	return &BatchStatus{
		BatchID:     batchID,
		Status:      StatusCompleted,
		QueuedAt:    timing.QueuedAt.UnixMilli(),
		ProcessedAt: timing.ProcessedAt.UnixMilli(),
		CompletedAt: timing.CompletedAt.UnixMilli(),
		Result:      result,
	}
}

// NewFailedStatus builds a failed status carrying err's message.
func NewFailedStatus(batchID string, timing BatchTiming, err error) *BatchStatus {
	status := &BatchStatus{
		BatchID:     batchID,
		Status:      StatusFailed,
		QueuedAt:    timing.QueuedAt.UnixMilli(),
		ProcessedAt: timing.ProcessedAt.UnixMilli(),
		CompletedAt: timing.CompletedAt.UnixMilli(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}
