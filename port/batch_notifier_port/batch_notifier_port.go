package batch_notifier_port

import (
	"context"

	"refresh-orchestrator/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=batch_notifier_port.go -destination=../../mocks/mock_batch_notifier_port.go -package=mocks

// BatchNotifierPort pushes a terminal status to listeners. Notify must not
// block the caller and reports no errors.
type BatchNotifierPort interface {
	Notify(ctx context.Context, status *domain.BatchStatus)
}
