// Package enrich_usecase attaches display metadata and interaction counts
// to reconciled entries.
package enrich_usecase

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/metrics"
	"refresh-orchestrator/port/metadata_port"
	"refresh-orchestrator/retry"
	"refresh-orchestrator/utils/cache"
	apperrors "refresh-orchestrator/utils/errors"
	"refresh-orchestrator/utils/logger"
	"refresh-orchestrator/utils/resilience"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	ChunkSize   int
	Timeout     time.Duration
	Concurrency int
}

func DefaultConfig() Config {
	return Config{ChunkSize: 50, Timeout: 8 * time.Second, Concurrency: 4}
}

// Caches holds the process-local lookup caches.
type Caches struct {
	Posts  *cache.TTLCache[string, domain.PostMetadata]
	Counts *cache.TTLCache[string, domain.InteractionCounts]
}

// NewCaches builds both caches with a shared size bound.
func NewCaches(size int, postTTL, countTTL time.Duration) (*Caches, error) {
	posts, err := cache.NewTTLCache[string, domain.PostMetadata](size, postTTL, nil)
	if err != nil {
		return nil, err
	}
	counts, err := cache.NewTTLCache[string, domain.InteractionCounts](size, countTTL, nil)
	if err != nil {
		return nil, err
	}
	return &Caches{Posts: posts, Counts: counts}, nil
}

// EnrichUsecase is best effort: lookups that fail fall back to defaults and
// never fail delivery.
type EnrichUsecase struct {
	posts        metadata_port.PostMetadataPort
	counts       metadata_port.InteractionCountsPort
	caches       *Caches
	retrier      *retry.Retrier
	postBreaker  *resilience.CircuitBreaker
	countBreaker *resilience.CircuitBreaker
	sanitizer    *bluemonday.Policy
	config       Config
	logger       *slog.Logger
}

func NewEnrichUsecase(
	posts metadata_port.PostMetadataPort,
	counts metadata_port.InteractionCountsPort,
	caches *Caches,
	retrier *retry.Retrier,
	breakerConfig *resilience.CircuitBreakerConfig,
	config Config,
	log *slog.Logger,
) *EnrichUsecase {
	defaults := DefaultConfig()
	if config.ChunkSize <= 0 {
		config.ChunkSize = defaults.ChunkSize
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if log == nil {
		log = logger.Logger
	}
	if retrier == nil {
		retrier = retry.NewRetrier(retry.DefaultRetryConfig(), apperrors.IsRetryable, log)
	}
	return &EnrichUsecase{
		posts:        posts,
		counts:       counts,
		caches:       caches,
		retrier:      retrier,
		postBreaker:  resilience.NewCircuitBreaker(breakerConfig),
		countBreaker: resilience.NewCircuitBreaker(breakerConfig),
		sanitizer:    bluemonday.StrictPolicy(),
		config:       config,
		logger:       log,
	}
}

// Enrich returns one DisplayEntry per entry, in the same order.
// mediaTypes maps feed title to the media type the client requested.
func (u *EnrichUsecase) Enrich(ctx context.Context, entries []*domain.Entry, mediaTypes map[string]string) []domain.DisplayEntry {
	display := make([]domain.DisplayEntry, 0, len(entries))
	if len(entries) == 0 {
		return display
	}

	feedURLs := lo.Uniq(lo.Compact(lo.Map(entries, func(e *domain.Entry, _ int) string { return e.FeedURL })))
	guids := lo.Uniq(lo.Compact(lo.Map(entries, func(e *domain.Entry, _ int) string { return e.GUID })))

	lookupCtx, cancel := context.WithTimeout(ctx, u.config.Timeout)
	defer cancel()

	var (
		posts  map[string]domain.PostMetadata
		counts map[string]domain.InteractionCounts
		g      errgroup.Group
	)
	g.Go(func() error {
		posts = u.lookupPosts(lookupCtx, feedURLs)
		return nil
	})
	g.Go(func() error {
		counts = u.lookupCounts(lookupCtx, guids)
		return nil
	})
	_ = g.Wait()

	for _, e := range entries {
		if e == nil {
			continue
		}
		item := domain.DisplayEntry{Entry: *e}
		item.Description = u.plainText(e.Description)
		if item.MediaType == "" {
			item.MediaType = mediaTypes[e.FeedTitle]
		}
		item.InteractionCounts = counts[e.GUID]
		item.PostMetadata = mergeMetadata(posts[e.FeedURL], domain.PostMetadata{
			Title:     e.FeedTitle,
			Image:     e.Image,
			MediaType: mediaTypes[e.FeedTitle],
		})
		display = append(display, item)
	}
	return display
}

func (u *EnrichUsecase) lookupPosts(ctx context.Context, feedURLs []string) map[string]domain.PostMetadata {
	found := map[string]domain.PostMetadata{}
	if len(feedURLs) == 0 {
		return found
	}

	hits, misses := u.postsCacheGet(feedURLs)
	metrics.RecordCacheLookup("post_metadata", len(hits), len(misses))
	for k, v := range hits {
		found[k] = v
	}

	fetched := fetchChunked(ctx, u, misses, u.postBreaker, "post_metadata", u.posts.FetchPostMetadata)
	for k, v := range fetched {
		found[k] = v
		if u.caches != nil {
			u.caches.Posts.Set(k, v)
		}
	}
	return found
}

func (u *EnrichUsecase) lookupCounts(ctx context.Context, guids []string) map[string]domain.InteractionCounts {
	found := map[string]domain.InteractionCounts{}
	if len(guids) == 0 {
		return found
	}

	hits, misses := u.countsCacheGet(guids)
	metrics.RecordCacheLookup("interaction_counts", len(hits), len(misses))
	for k, v := range hits {
		found[k] = v
	}

	fetched := fetchChunked(ctx, u, misses, u.countBreaker, "interaction_counts", u.counts.FetchInteractionCounts)
	for k, v := range fetched {
		found[k] = v
		if u.caches != nil {
			u.caches.Counts.Set(k, v)
		}
	}
	return found
}

// fetchChunked splits keys into chunks and fetches them concurrently. A
// failed chunk is logged and left out of the result.
func fetchChunked[V any](
	ctx context.Context,
	u *EnrichUsecase,
	keys []string,
	breaker *resilience.CircuitBreaker,
	lookup string,
	fetch func(context.Context, []string) (map[string]V, error),
) map[string]V {
	result := map[string]V{}
	if len(keys) == 0 {
		return result
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(u.config.Concurrency)

	for _, chunk := range lo.Chunk(keys, u.config.ChunkSize) {
		g.Go(func() error {
			var got map[string]V
			err := breaker.Execute(ctx, func() error {
				return u.retrier.Do(ctx, func() error {
					var fetchErr error
					got, fetchErr = fetch(ctx, chunk)
					return fetchErr
				})
			})
			if err != nil {
				metrics.RecordEnrichmentFallback(lookup)
				logger.FromContext(ctx, u.logger).WarnContext(ctx, "enrichment lookup failed, using fallback",
					"lookup", lookup,
					"keys", len(chunk),
					"error", err)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for k, v := range got {
				result[k] = v
			}
			return nil
		})
	}
	_ = g.Wait()
	return result
}

func (u *EnrichUsecase) postsCacheGet(keys []string) (map[string]domain.PostMetadata, []string) {
	if u.caches == nil {
		return map[string]domain.PostMetadata{}, keys
	}
	return u.caches.Posts.GetMany(keys)
}

func (u *EnrichUsecase) countsCacheGet(keys []string) (map[string]domain.InteractionCounts, []string) {
	if u.caches == nil {
		return map[string]domain.InteractionCounts{}, keys
	}
	return u.caches.Counts.GetMany(keys)
}

func (u *EnrichUsecase) plainText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(u.sanitizer.Sanitize(s)))
}

// mergeMetadata fills blank fields of got from fallback.
func mergeMetadata(got, fallback domain.PostMetadata) domain.PostMetadata {
	return domain.PostMetadata{
		Title:     firstNonEmpty(got.Title, fallback.Title),
		Image:     firstNonEmpty(got.Image, fallback.Image),
		MediaType: firstNonEmpty(got.MediaType, fallback.MediaType),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
