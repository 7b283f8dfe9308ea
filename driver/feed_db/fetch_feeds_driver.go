package feed_db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/utils/logger"
)

const fetchFeedsByTitlesQuery = `
	SELECT
		f.id::text,
		f.title,
		f.feed_url,
		f.last_fetched_at,
		(SELECT COUNT(*) FROM entries e WHERE e.feed_id = f.id) AS entry_count
	FROM feeds f
	WHERE f.title = ANY($1)
`

// FetchFeedsByTitles returns stored feeds keyed by title.
func (r *FeedDBRepository) FetchFeedsByTitles(ctx context.Context, titles []string) (map[string]*domain.FeedRecord, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("database connection not available")
	}

	feeds := make(map[string]*domain.FeedRecord, len(titles))
	if len(titles) == 0 {
		return feeds, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.retrier.Do(ctx, func() error {
		rows, err := r.pool.Query(ctx, fetchFeedsByTitlesQuery, titles)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				feed        domain.FeedRecord
				lastFetched *time.Time
				entryCount  int64
			)
			if err := rows.Scan(&feed.ID, &feed.Title, &feed.FeedURL, &lastFetched, &entryCount); err != nil {
				return fmt.Errorf("scan feed: %w", err)
			}
			feed.LastFetched = lastFetched
			feed.EntryCount = int(entryCount)
			feeds[feed.Title] = &feed
		}
		return rows.Err()
	})
	if err != nil {
		logger.Logger.ErrorContext(ctx, "Failed to fetch feeds by titles", "error", err, "titles", len(titles))
		return nil, fmt.Errorf("fetch feeds by titles: %w", err)
	}

	return feeds, nil
}
