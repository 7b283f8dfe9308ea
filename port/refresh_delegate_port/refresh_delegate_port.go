package refresh_delegate_port

import (
	"context"

	"refresh-orchestrator/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=refresh_delegate_port.go -destination=../../mocks/mock_refresh_delegate_port.go -package=mocks

// RefreshDelegatePort hands stale and missing feeds to the refresh worker
// and blocks until the worker has stored the results.
type RefreshDelegatePort interface {
	Delegate(ctx context.Context, batchID string, feeds []domain.FeedRef) (*domain.DelegationReceipt, error)
}
