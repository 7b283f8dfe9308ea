// Package staleness_usecase decides which requested feeds need a refresh.
package staleness_usecase

import (
	"context"
	"log/slog"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/port/feed_store_port"
	"refresh-orchestrator/utils/logger"
)

// DefaultStaleThreshold is the age after which a fetched feed is stale.
const DefaultStaleThreshold = 4 * time.Hour

type StalenessUsecase struct {
	store     feed_store_port.FeedStorePort
	threshold time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewStalenessUsecase(store feed_store_port.FeedStorePort, threshold time.Duration, now func() time.Time, log *slog.Logger) *StalenessUsecase {
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Logger
	}
	return &StalenessUsecase{store: store, threshold: threshold, now: now, logger: log}
}

// Detect splits titles into stale and missing feeds. A store failure yields
// an empty report so the batch completes without refreshing.
func (u *StalenessUsecase) Detect(ctx context.Context, titles []string) domain.StalenessReport {
	report := domain.StalenessReport{
		Stale:   []string{},
		Missing: []string{},
		Known:   map[string]*domain.FeedRecord{},
	}
	if len(titles) == 0 {
		return report
	}

	feeds, err := u.store.FetchFeedsByTitles(ctx, titles)
	if err != nil {
		logger.FromContext(ctx, u.logger).WarnContext(ctx, "feed store read failed, treating all feeds as fresh",
			"titles", len(titles),
			"error", err)
		return report
	}

	now := u.now()
	seen := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		feed, ok := feeds[title]
		if !ok || feed == nil {
			report.Missing = append(report.Missing, title)
			continue
		}
		report.Known[title] = feed
		if feed.IsStale(now, u.threshold) {
			report.Stale = append(report.Stale, title)
		}
	}

	logger.FromContext(ctx, u.logger).DebugContext(ctx, "staleness detected",
		"requested", len(titles),
		"stale", len(report.Stale),
		"missing", len(report.Missing))

	return report
}
