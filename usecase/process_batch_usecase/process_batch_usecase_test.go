package process_batch_usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/mocks"
	"refresh-orchestrator/usecase/reconcile_usecase"
	"refresh-orchestrator/usecase/staleness_usecase"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var cycleStart = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type passthroughEnricher struct{}

func (passthroughEnricher) Enrich(_ context.Context, entries []*domain.Entry, _ map[string]string) []domain.DisplayEntry {
	return lo.Map(entries, func(e *domain.Entry, _ int) domain.DisplayEntry {
		return domain.DisplayEntry{Entry: *e, PostMetadata: domain.PostMetadata{Title: e.FeedTitle}}
	})
}

// cancellingEnricher cancels the outer request while enrichment is running.
type cancellingEnricher struct {
	cancel   context.CancelFunc
	enrichOK bool
}

func (e *cancellingEnricher) Enrich(ctx context.Context, entries []*domain.Entry, media map[string]string) []domain.DisplayEntry {
	e.cancel()
	e.enrichOK = ctx.Err() == nil
	return passthroughEnricher{}.Enrich(ctx, entries, media)
}

type panickingDetector struct{}

func (panickingDetector) Detect(context.Context, []string) domain.StalenessReport {
	panic("boom")
}

type fixture struct {
	feeds    *mocks.MockFeedStorePort
	entries  *mocks.MockEntryStorePort
	delegate *mocks.MockRefreshDelegatePort
	statuses *mocks.MockBatchStatusPort
	notifier *mocks.MockBatchNotifierPort
	usecase  *ProcessBatchUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		feeds:    mocks.NewMockFeedStorePort(ctrl),
		entries:  mocks.NewMockEntryStorePort(ctrl),
		delegate: mocks.NewMockRefreshDelegatePort(ctrl),
		statuses: mocks.NewMockBatchStatusPort(ctrl),
		notifier: mocks.NewMockBatchNotifierPort(ctrl),
	}
	now := func() time.Time { return cycleStart }
	f.usecase = NewProcessBatchUsecase(
		staleness_usecase.NewStalenessUsecase(f.feeds, 4*time.Hour, now, quietLogger()),
		f.delegate,
		reconcile_usecase.NewReconcileUsecase(f.entries, reconcile_usecase.DefaultConfig(), quietLogger()),
		passthroughEnricher{},
		f.statuses,
		f.notifier,
		now,
		quietLogger(),
	)
	return f
}

// captureStatuses records every written status and accepts the write.
func (f *fixture) captureStatuses() *[]*domain.BatchStatus {
	var written []*domain.BatchStatus
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.BatchStatus) error {
			written = append(written, s)
			return nil
		}).AnyTimes()
	return &written
}

func techWeeklyRequest(batchID string) domain.QueuedMessage {
	return domain.QueuedMessage{
		BatchID:  batchID,
		QueuedAt: cycleStart.Add(-time.Second),
		Request: &domain.BatchRequest{
			BatchID:       batchID,
			Feeds:         []domain.FeedRef{{PostTitle: "Tech Weekly", FeedURL: "https://tech.example/rss"}},
			ExistingGUIDs: []string{"g1", "g2"},
		},
	}
}

func knownFeed(lastFetched time.Time) map[string]*domain.FeedRecord {
	return map[string]*domain.FeedRecord{
		"Tech Weekly": {Title: "Tech Weekly", FeedURL: "https://tech.example/rss", LastFetched: &lastFetched},
	}
}

func candidate(id int64, guid string, pub time.Time) *domain.Entry {
	return &domain.Entry{ID: id, GUID: guid, FeedTitle: "Tech Weekly", PubDate: pub, CreatedAt: cycleStart.Add(time.Second)}
}

func TestProcessBatch_StaleFeedDeliversNewEntries(t *testing.T) {
	f := newFixture(t)
	written := f.captureStatuses()

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), []string{"Tech Weekly"}).
		Return(knownFeed(cycleStart.Add(-6*time.Hour)), nil)
	f.delegate.EXPECT().Delegate(gomock.Any(), "b1", []domain.FeedRef{{PostTitle: "Tech Weekly", FeedURL: "https://tech.example/rss"}}).
		Return(&domain.DelegationReceipt{CycleStartedAt: cycleStart, Refreshed: []string{"Tech Weekly"}}, nil)
	f.entries.EXPECT().FetchCandidateEntries(gomock.Any(), []string{"Tech Weekly"}, cycleStart, 1000).
		Return([]*domain.Entry{
			candidate(1, "g1", cycleStart.Add(-9*time.Hour)),
			candidate(3, "g3", cycleStart.Add(-3*time.Hour)),
			candidate(5, "g5", cycleStart.Add(-1*time.Hour)),
			candidate(4, "g4", cycleStart.Add(-2*time.Hour)),
		}, nil)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b1")})

	assert.Equal(t, BatchOutcome{Processed: 1}, outcome)
	require.Len(t, *written, 1)
	status := (*written)[0]
	assert.Equal(t, domain.StatusCompleted, status.Status)
	require.NotNil(t, status.Result)
	assert.Equal(t, []string{"g5", "g4", "g3"}, lo.Map(status.Result.Entries, func(e domain.DisplayEntry, _ int) string { return e.GUID }))
	assert.Equal(t, 3, status.Result.NewEntriesCount)
	assert.Equal(t, 3, status.Result.TotalEntries)
	assert.False(t, status.Result.HasMore)
	assert.True(t, status.Result.RefreshedAny)
	assert.Equal(t, []string{"Tech Weekly"}, status.Result.PostTitles)
	assert.Equal(t, cycleStart.Add(-time.Second).UnixMilli(), status.QueuedAt)
}

func TestProcessBatch_FreshFeedsExitEarly(t *testing.T) {
	f := newFixture(t)
	written := f.captureStatuses()

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).
		Return(knownFeed(cycleStart.Add(-10*time.Minute)), nil)
	f.delegate.EXPECT().Delegate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.entries.EXPECT().FetchCandidateEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b2")})

	assert.Equal(t, BatchOutcome{Processed: 1}, outcome)
	require.Len(t, *written, 1)
	result := (*written)[0].Result
	require.NotNil(t, result)
	assert.Empty(t, result.Entries)
	assert.NotNil(t, result.Entries)
	assert.Zero(t, result.NewEntriesCount)
	assert.False(t, result.RefreshedAny)
	assert.False(t, result.HasMore)
}

func TestProcessBatch_InvalidMessageIsIsolated(t *testing.T) {
	f := newFixture(t)
	written := f.captureStatuses()

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).
		Return(knownFeed(cycleStart.Add(-10*time.Minute)), nil).Times(2)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(3)

	invalid := domain.QueuedMessage{BatchID: "bad", Err: domain.ErrInvalidMessage}
	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{
		techWeeklyRequest("a"), invalid, techWeeklyRequest("c"),
	})

	assert.Equal(t, BatchOutcome{Processed: 2, Failed: 1}, outcome)
	require.Len(t, *written, 3)
	assert.Equal(t, domain.StatusFailed, (*written)[1].Status)
	assert.Equal(t, "bad", (*written)[1].BatchID)
	assert.NotEmpty(t, (*written)[1].Error)
}

func TestProcessBatch_InvalidMessageWithoutBatchID(t *testing.T) {
	f := newFixture(t)
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{{Err: domain.ErrInvalidMessage}})

	assert.Equal(t, BatchOutcome{Failed: 1}, outcome)
}

func TestProcessBatch_DelegationFailure(t *testing.T) {
	f := newFixture(t)
	written := f.captureStatuses()

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).Return(map[string]*domain.FeedRecord{}, nil)
	f.delegate.EXPECT().Delegate(gomock.Any(), "b3", gomock.Any()).Return(nil, errors.New("worker returned 500"))
	f.entries.EXPECT().FetchCandidateEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b3")})

	assert.Equal(t, BatchOutcome{Failed: 1}, outcome)
	require.Len(t, *written, 1)
	assert.Equal(t, domain.StatusFailed, (*written)[0].Status)
	assert.Nil(t, (*written)[0].Result)
	assert.Contains(t, (*written)[0].Error, "worker returned 500")
}

func TestProcessBatch_ReconcileErrorCompletesEmpty(t *testing.T) {
	f := newFixture(t)
	written := f.captureStatuses()

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.delegate.EXPECT().Delegate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.DelegationReceipt{CycleStartedAt: cycleStart, Refreshed: []string{"Tech Weekly"}}, nil)
	f.entries.EXPECT().FetchCandidateEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b4")})

	assert.Equal(t, BatchOutcome{Processed: 1}, outcome)
	require.Len(t, *written, 1)
	assert.Equal(t, domain.StatusCompleted, (*written)[0].Status)
	assert.Empty(t, (*written)[0].Result.Entries)
	assert.True(t, (*written)[0].Result.RefreshedAny)
}

func TestProcessBatch_StatusAlreadyWritten(t *testing.T) {
	f := newFixture(t)

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).
		Return(knownFeed(cycleStart.Add(-10*time.Minute)), nil)
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).Return(domain.ErrStatusAlreadyWritten)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("dup")})

	assert.Equal(t, BatchOutcome{Processed: 1}, outcome)
}

func TestProcessBatch_FailedStatusAlreadyWrittenCountsAsFailed(t *testing.T) {
	f := newFixture(t)

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).Return(map[string]*domain.FeedRecord{}, nil)
	f.delegate.EXPECT().Delegate(gomock.Any(), "dup-failed", gomock.Any()).Return(nil, errors.New("worker returned 500"))
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).Return(domain.ErrStatusAlreadyWritten)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("dup-failed")})

	assert.Equal(t, BatchOutcome{Failed: 1}, outcome)
}

func TestProcessBatch_CancelledRequestStillWritesStatus(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	enricher := &cancellingEnricher{cancel: cancel}
	f.usecase.enricher = enricher

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).
		Return(knownFeed(cycleStart.Add(-6*time.Hour)), nil)
	f.delegate.EXPECT().Delegate(gomock.Any(), "b7", gomock.Any()).
		Return(&domain.DelegationReceipt{CycleStartedAt: cycleStart, Refreshed: []string{"Tech Weekly"}}, nil)
	f.entries.EXPECT().FetchCandidateEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*domain.Entry{candidate(3, "g3", cycleStart.Add(-3*time.Hour))}, nil)

	var writeErr, notifyErr error
	var written *domain.BatchStatus
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s *domain.BatchStatus) error {
			writeErr = ctx.Err()
			written = s
			return nil
		})
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, _ *domain.BatchStatus) { notifyErr = ctx.Err() })

	outcome := f.usecase.ProcessBatch(ctx, []domain.QueuedMessage{techWeeklyRequest("b7")})

	assert.False(t, enricher.enrichOK, "enrichment should see the cancelled request")
	assert.Equal(t, BatchOutcome{Processed: 1}, outcome)
	require.NotNil(t, written)
	assert.Equal(t, domain.StatusCompleted, written.Status)
	assert.NoError(t, writeErr)
	assert.NoError(t, notifyErr)
}

func TestProcessBatch_PanicAfterWriteDoesNotWriteTwice(t *testing.T) {
	f := newFixture(t)

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).
		Return(knownFeed(cycleStart.Add(-10*time.Minute)), nil)
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(context.Context, *domain.BatchStatus) { panic("push exploded") }).Times(1)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b8")})

	assert.Equal(t, BatchOutcome{Failed: 1}, outcome)
}

func TestProcessBatch_StatusWriteFailureStillNotifies(t *testing.T) {
	f := newFixture(t)

	f.feeds.EXPECT().FetchFeedsByTitles(gomock.Any(), gomock.Any()).
		Return(knownFeed(cycleStart.Add(-10*time.Minute)), nil)
	f.statuses.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b5")})

	assert.Equal(t, BatchOutcome{Failed: 1}, outcome)
}

func TestProcessBatch_PanicBecomesFailedStatus(t *testing.T) {
	f := newFixture(t)
	written := f.captureStatuses()
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)
	f.usecase.detector = panickingDetector{}

	outcome := f.usecase.ProcessBatch(context.Background(), []domain.QueuedMessage{techWeeklyRequest("b6")})

	assert.Equal(t, BatchOutcome{Failed: 1}, outcome)
	require.Len(t, *written, 1)
	assert.Equal(t, domain.StatusFailed, (*written)[0].Status)
	assert.Contains(t, (*written)[0].Error, "boom")
}

func TestFeedsToRefresh(t *testing.T) {
	feeds := []domain.FeedRef{
		{PostTitle: "A", FeedURL: "a"},
		{PostTitle: "B", FeedURL: "b"},
		{PostTitle: "A", FeedURL: "a2"},
		{PostTitle: "C", FeedURL: "c"},
	}
	got := feedsToRefresh(feeds, domain.StalenessReport{Stale: []string{"A"}, Missing: []string{"C"}})

	assert.Equal(t, []domain.FeedRef{{PostTitle: "A", FeedURL: "a"}, {PostTitle: "C", FeedURL: "c"}}, got)
}
