package batch_status_port

import (
	"context"

	"refresh-orchestrator/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=batch_status_port.go -destination=../../mocks/mock_batch_status_port.go -package=mocks

// BatchStatusPort stores the one terminal status of each batch.
type BatchStatusPort interface {
	// WriteStatus returns domain.ErrStatusAlreadyWritten when a status for
	// the batch exists.
	WriteStatus(ctx context.Context, status *domain.BatchStatus) error
	// ReadStatus returns domain.ErrStatusNotFound when no status exists.
	ReadStatus(ctx context.Context, batchID string) (*domain.BatchStatus, error)
}
