package enrich_usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/mocks"
	"refresh-orchestrator/retry"
	apperrors "refresh-orchestrator/utils/errors"
	"refresh-orchestrator/utils/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(retry.RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
		JitterFactor:  0.1,
	}, apperrors.IsRetryable, quietLogger())
}

type fixture struct {
	posts  *mocks.MockPostMetadataPort
	counts *mocks.MockInteractionCountsPort
	caches *Caches
	u      *EnrichUsecase
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	caches, err := NewCaches(100, time.Minute, time.Minute)
	require.NoError(t, err)

	f := &fixture{
		posts:  mocks.NewMockPostMetadataPort(ctrl),
		counts: mocks.NewMockInteractionCountsPort(ctrl),
		caches: caches,
	}
	f.u = NewEnrichUsecase(f.posts, f.counts, caches, fastRetrier(),
		&resilience.CircuitBreakerConfig{FailureThreshold: 5, ResetTimeout: time.Minute},
		config, quietLogger())
	return f
}

func sampleEntries() []*domain.Entry {
	return []*domain.Entry{
		{ID: 5, GUID: "g5", FeedTitle: "Tech Weekly", FeedURL: "https://tech/rss", Description: "<p>Hello &amp; <b>world</b></p>", Image: "https://img/5"},
		{ID: 4, GUID: "g4", FeedTitle: "Tech Weekly", FeedURL: "https://tech/rss"},
	}
}

func TestEnrich_Success(t *testing.T) {
	f := newFixture(t, Config{})
	f.posts.EXPECT().FetchPostMetadata(gomock.Any(), []string{"https://tech/rss"}).
		Return(map[string]domain.PostMetadata{"https://tech/rss": {Title: "Tech Weekly!", Image: "https://img/feed"}}, nil)
	f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), []string{"g5", "g4"}).
		Return(map[string]domain.InteractionCounts{"g5": {Likes: 7, Comments: 2}}, nil)

	out := f.u.Enrich(context.Background(), sampleEntries(), map[string]string{"Tech Weekly": "podcast"})

	require.Len(t, out, 2)
	assert.Equal(t, "g5", out[0].GUID)
	assert.Equal(t, domain.InteractionCounts{Likes: 7, Comments: 2}, out[0].InteractionCounts)
	assert.Equal(t, domain.InteractionCounts{}, out[1].InteractionCounts)
	assert.Equal(t, "Tech Weekly!", out[0].PostMetadata.Title)
	assert.Equal(t, "https://img/feed", out[0].PostMetadata.Image)
	assert.Equal(t, "podcast", out[0].PostMetadata.MediaType)
	assert.Equal(t, "podcast", out[0].MediaType)
	assert.Equal(t, "Hello & world", out[0].Description)
}

func TestEnrich_FallbackOnFailure(t *testing.T) {
	f := newFixture(t, Config{})
	f.posts.EXPECT().FetchPostMetadata(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewExternalAPIContextError("down", "gateway", "MetadataGateway", "FetchPostMetadata", nil, nil)).
		Times(3)
	f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewAppContextError(apperrors.CodeValidation, "bad", "gateway", "MetadataGateway", "FetchInteractionCounts", nil, nil)).
		Times(1)

	out := f.u.Enrich(context.Background(), sampleEntries(), map[string]string{"Tech Weekly": "article"})

	require.Len(t, out, 2)
	assert.Equal(t, domain.InteractionCounts{}, out[0].InteractionCounts)
	assert.Equal(t, domain.PostMetadata{Title: "Tech Weekly", Image: "https://img/5", MediaType: "article"}, out[0].PostMetadata)
	assert.Equal(t, domain.PostMetadata{Title: "Tech Weekly", MediaType: "article"}, out[1].PostMetadata)
}

func TestEnrich_RetriesThenSucceeds(t *testing.T) {
	f := newFixture(t, Config{})
	gomock.InOrder(
		f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), gomock.Any()).Return(nil, errors.New("reset by peer")),
		f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), gomock.Any()).Return(map[string]domain.InteractionCounts{"g4": {Reposts: 1}}, nil),
	)
	f.posts.EXPECT().FetchPostMetadata(gomock.Any(), gomock.Any()).Return(map[string]domain.PostMetadata{}, nil)

	out := f.u.Enrich(context.Background(), sampleEntries(), nil)

	assert.Equal(t, 1, out[1].InteractionCounts.Reposts)
}

func TestEnrich_Chunking(t *testing.T) {
	f := newFixture(t, Config{ChunkSize: 2})
	entries := []*domain.Entry{
		{GUID: "a", FeedURL: "u"}, {GUID: "b", FeedURL: "u"}, {GUID: "c", FeedURL: "u"},
		{GUID: "d", FeedURL: "u"}, {GUID: "e", FeedURL: "u"},
	}
	f.posts.EXPECT().FetchPostMetadata(gomock.Any(), []string{"u"}).Return(map[string]domain.PostMetadata{}, nil)
	f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, guids []string) (map[string]domain.InteractionCounts, error) {
			assert.LessOrEqual(t, len(guids), 2)
			out := map[string]domain.InteractionCounts{}
			for _, g := range guids {
				out[g] = domain.InteractionCounts{Likes: 1}
			}
			return out, nil
		}).Times(3)

	out := f.u.Enrich(context.Background(), entries, nil)

	require.Len(t, out, 5)
	for _, item := range out {
		assert.Equal(t, 1, item.InteractionCounts.Likes)
	}
}

func TestEnrich_UsesCache(t *testing.T) {
	f := newFixture(t, Config{})
	f.caches.Posts.Set("https://tech/rss", domain.PostMetadata{Title: "Cached"})
	f.caches.Counts.Set("g5", domain.InteractionCounts{Likes: 9})
	f.caches.Counts.Set("g4", domain.InteractionCounts{Likes: 4})

	out := f.u.Enrich(context.Background(), sampleEntries(), nil)

	assert.Equal(t, "Cached", out[0].PostMetadata.Title)
	assert.Equal(t, 9, out[0].InteractionCounts.Likes)
	assert.Equal(t, 4, out[1].InteractionCounts.Likes)
}

func TestEnrich_PopulatesCache(t *testing.T) {
	f := newFixture(t, Config{})
	f.posts.EXPECT().FetchPostMetadata(gomock.Any(), gomock.Any()).
		Return(map[string]domain.PostMetadata{"https://tech/rss": {Title: "T"}}, nil).Times(1)
	f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), gomock.Any()).
		Return(map[string]domain.InteractionCounts{"g5": {Likes: 1}, "g4": {}}, nil).Times(1)

	f.u.Enrich(context.Background(), sampleEntries(), nil)
	out := f.u.Enrich(context.Background(), sampleEntries(), nil)

	assert.Equal(t, "T", out[0].PostMetadata.Title)
}

func TestEnrich_TimeoutFallsBack(t *testing.T) {
	f := newFixture(t, Config{Timeout: 20 * time.Millisecond})
	block := func(ctx context.Context, _ []string) (map[string]domain.PostMetadata, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.posts.EXPECT().FetchPostMetadata(gomock.Any(), gomock.Any()).DoAndReturn(block).MinTimes(1)
	f.counts.EXPECT().FetchInteractionCounts(gomock.Any(), gomock.Any()).
		Return(map[string]domain.InteractionCounts{}, nil)

	start := time.Now()
	out := f.u.Enrich(context.Background(), sampleEntries(), nil)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "Tech Weekly", out[0].PostMetadata.Title)
}

func TestEnrich_Empty(t *testing.T) {
	f := newFixture(t, Config{})

	out := f.u.Enrich(context.Background(), nil, nil)

	assert.NotNil(t, out)
	assert.Empty(t, out)
}
