package feed_store_port

import (
	"context"

	"refresh-orchestrator/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=feed_store_port.go -destination=../../mocks/mock_feed_store_port.go -package=mocks

// FeedStorePort reads stored feed state.
type FeedStorePort interface {
	// FetchFeedsByTitles returns the stored feeds keyed by title. Titles
	// without a record are absent from the map.
	FetchFeedsByTitles(ctx context.Context, titles []string) (map[string]*domain.FeedRecord, error)
}
