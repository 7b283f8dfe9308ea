package feed_db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/utils/logger"

	"github.com/huandu/go-sqlbuilder"
)

// MaxCandidateLimit bounds a single candidate query.
const MaxCandidateLimit = 1000

func buildCandidateEntriesQuery(titles []string, createdSince time.Time, limit int) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"e.id",
		"e.guid",
		"e.title",
		"e.link",
		"e.pub_date",
		"COALESCE(e.description, '')",
		"COALESCE(e.content, '')",
		"COALESCE(e.image, '')",
		"COALESCE(e.media_type, '')",
		"e.feed_id::text",
		"f.title",
		"f.feed_url",
		"e.created_at",
	).
		From("entries e").
		Join("feeds f", "f.id = e.feed_id").
		Where(
			sb.In("f.title", sqlbuilder.Flatten(titles)...),
			sb.GreaterEqualThan("e.created_at", createdSince),
		).
		OrderBy("COALESCE(e.pub_date, e.created_at) DESC", "e.id DESC").
		Limit(limit)

	return sb.Build()
}

// FetchCandidateEntries returns entries of the titled feeds created at or
// after createdSince, newest publication date first, so a truncated result
// keeps the entries the first page would show. limit is clamped to
// MaxCandidateLimit.
func (r *FeedDBRepository) FetchCandidateEntries(ctx context.Context, titles []string, createdSince time.Time, limit int) ([]*domain.Entry, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("database connection not available")
	}
	if len(titles) == 0 {
		return []*domain.Entry{}, nil
	}
	if limit <= 0 || limit > MaxCandidateLimit {
		limit = MaxCandidateLimit
	}

	query, args := buildCandidateEntriesQuery(titles, createdSince, limit)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entries []*domain.Entry
	err := r.retrier.Do(ctx, func() error {
		entries = entries[:0]
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				entry   domain.Entry
				pubDate *time.Time
			)
			if err := rows.Scan(
				&entry.ID,
				&entry.GUID,
				&entry.Title,
				&entry.Link,
				&pubDate,
				&entry.Description,
				&entry.Content,
				&entry.Image,
				&entry.MediaType,
				&entry.FeedID,
				&entry.FeedTitle,
				&entry.FeedURL,
				&entry.CreatedAt,
			); err != nil {
				return fmt.Errorf("scan entry: %w", err)
			}
			if pubDate != nil {
				entry.PubDate = *pubDate
			} else {
				entry.PubDate = entry.CreatedAt
			}
			entries = append(entries, &entry)
		}
		return rows.Err()
	})
	if err != nil {
		logger.Logger.ErrorContext(ctx, "Failed to fetch candidate entries", "error", err, "titles", len(titles))
		return nil, fmt.Errorf("fetch candidate entries: %w", err)
	}

	if entries == nil {
		entries = []*domain.Entry{}
	}
	return entries, nil
}
