// Package reconcile_usecase selects the stored entries that are new to a
// client after a refresh cycle.
package reconcile_usecase

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/port/entry_store_port"
	"refresh-orchestrator/utils/logger"

	"github.com/samber/lo"
)

type Config struct {
	SafetyCap      int
	FirstPageSize  int
	PageSize       int
	CandidateLimit int
}

func DefaultConfig() Config {
	return Config{
		SafetyCap:      100,
		FirstPageSize:  30,
		PageSize:       50,
		CandidateLimit: 1000,
	}
}

// ReconcileInput describes one client's view before and after a cycle.
// Known is the feed snapshot taken before the refresh.
type ReconcileInput struct {
	Titles          []string
	ExistingGUIDs   []string
	NewestEntryDate *time.Time
	CycleStartedAt  time.Time
	Known           map[string]*domain.FeedRecord
}

type ReconcileUsecase struct {
	entries entry_store_port.EntryStorePort
	config  Config
	logger  *slog.Logger
}

func NewReconcileUsecase(entries entry_store_port.EntryStorePort, config Config, log *slog.Logger) *ReconcileUsecase {
	defaults := DefaultConfig()
	if config.SafetyCap <= 0 {
		config.SafetyCap = defaults.SafetyCap
	}
	if config.FirstPageSize <= 0 {
		config.FirstPageSize = defaults.FirstPageSize
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.CandidateLimit <= 0 {
		config.CandidateLimit = defaults.CandidateLimit
	}
	if log == nil {
		log = logger.Logger
	}
	return &ReconcileUsecase{entries: entries, config: config, logger: log}
}

// Reconcile never fails: any internal error yields an empty result.
func (u *ReconcileUsecase) Reconcile(ctx context.Context, in ReconcileInput) (result domain.ReconciliationResult) {
	log := logger.FromContext(ctx, u.logger)
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "reconciliation panicked", "panic", fmt.Sprint(r))
			result = domain.EmptyReconciliation()
		}
	}()

	if len(in.Titles) == 0 {
		return domain.EmptyReconciliation()
	}

	candidates, err := u.entries.FetchCandidateEntries(ctx, in.Titles, in.CycleStartedAt, u.config.CandidateLimit)
	if err != nil {
		log.ErrorContext(ctx, "failed to load candidate entries", "error", err)
		return domain.EmptyReconciliation()
	}

	candidates = lo.UniqBy(lo.Compact(candidates), func(e *domain.Entry) int64 { return e.ID })

	existing := lo.SliceToMap(in.ExistingGUIDs, func(g string) (string, struct{}) { return g, struct{}{} })
	candidates = lo.Reject(candidates, func(e *domain.Entry, _ int) bool {
		_, seen := existing[e.GUID]
		return seen
	})

	if len(candidates) > u.config.SafetyCap {
		before := len(candidates)
		candidates = u.applySafetyCap(candidates, in.Known)
		log.InfoContext(ctx, "safety cap applied to candidates",
			"before", before,
			"after", len(candidates))
	}

	if in.NewestEntryDate != nil {
		newest := *in.NewestEntryDate
		candidates = lo.Filter(candidates, func(e *domain.Entry, _ int) bool {
			return e.PubDate.After(newest)
		})
	}

	sortEntries(candidates)

	page := candidates
	if len(page) > u.config.PageSize {
		page = page[:u.config.PageSize]
	}
	if page == nil {
		page = []*domain.Entry{}
	}

	return domain.ReconciliationResult{
		Entries:      page,
		TotalEntries: len(candidates),
		HasMore:      len(candidates) > len(page),
	}
}

// applySafetyCap limits first-time feeds to their most recent page and
// keeps only entries created after an established feed's previous fetch.
func (u *ReconcileUsecase) applySafetyCap(candidates []*domain.Entry, known map[string]*domain.FeedRecord) []*domain.Entry {
	byFeed := lo.GroupBy(candidates, func(e *domain.Entry) string { return e.FeedTitle })

	kept := make([]*domain.Entry, 0, len(candidates))
	for _, title := range lo.Uniq(lo.Map(candidates, func(e *domain.Entry, _ int) string { return e.FeedTitle })) {
		group := byFeed[title]
		feed := known[title]

		if feed.IsFirstFetch() {
			sortEntries(group)
			if len(group) > u.config.FirstPageSize {
				group = group[:u.config.FirstPageSize]
			}
			kept = append(kept, group...)
			continue
		}

		cutoff := *feed.LastFetched
		kept = append(kept, lo.Filter(group, func(e *domain.Entry, _ int) bool {
			return e.CreatedAt.After(cutoff)
		})...)
	}
	return kept
}

// sortEntries orders by pubDate descending, then id descending.
func sortEntries(entries []*domain.Entry) {
	slices.SortFunc(entries, func(a, b *domain.Entry) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
