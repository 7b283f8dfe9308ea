package entry_store_port

import (
	"context"
	"time"

	"refresh-orchestrator/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=entry_store_port.go -destination=../../mocks/mock_entry_store_port.go -package=mocks

type EntryStorePort interface {
	// FetchCandidateEntries returns entries of the titled feeds created at or
	// after createdSince, at most limit rows.
	FetchCandidateEntries(ctx context.Context, titles []string, createdSince time.Time, limit int) ([]*domain.Entry, error)
}
