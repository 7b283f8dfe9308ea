// Package feed_store_gateway adapts the Postgres repository to the feed and
// entry store ports.
package feed_store_gateway

import (
	"context"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/driver/feed_db"
	apperrors "refresh-orchestrator/utils/errors"
)

// FeedStoreGateway implements FeedStorePort and EntryStorePort.
type FeedStoreGateway struct {
	repo *feed_db.FeedDBRepository
}

func NewFeedStoreGateway(repo *feed_db.FeedDBRepository) *FeedStoreGateway {
	return &FeedStoreGateway{repo: repo}
}

func (g *FeedStoreGateway) FetchFeedsByTitles(ctx context.Context, titles []string) (map[string]*domain.FeedRecord, error) {
	feeds, err := g.repo.FetchFeedsByTitles(ctx, titles)
	if err != nil {
		return nil, apperrors.NewDatabaseContextError(
			"failed to fetch feeds",
			"gateway", "FeedStoreGateway", "FetchFeedsByTitles",
			err,
			map[string]any{"titles": len(titles)},
		)
	}
	return feeds, nil
}

func (g *FeedStoreGateway) FetchCandidateEntries(ctx context.Context, titles []string, createdSince time.Time, limit int) ([]*domain.Entry, error) {
	entries, err := g.repo.FetchCandidateEntries(ctx, titles, createdSince, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseContextError(
			"failed to fetch candidate entries",
			"gateway", "FeedStoreGateway", "FetchCandidateEntries",
			err,
			map[string]any{"titles": len(titles), "created_since": createdSince},
		)
	}
	return entries, nil
}
