package domain

import "time"

// DelegationReceipt is what the refresh worker reports back for one batch.
// CycleStartedAt is taken immediately before the worker call and marks the
// lower bound for entries created by this refresh cycle.
type DelegationReceipt struct {
	CycleStartedAt time.Time
	Refreshed      []string
	Failed         []string
}

// RefreshedAny reports whether the worker refreshed at least one feed.
func (r *DelegationReceipt) RefreshedAny() bool {
	return r != nil && len(r.Refreshed) > 0
}

// StalenessReport classifies requested titles before a refresh cycle.
// Known holds the pre-refresh snapshot of every stored feed.
type StalenessReport struct {
	Stale   []string
	Missing []string
	Known   map[string]*FeedRecord
}

// NeedsRefresh reports whether any feed must be delegated.
func (r StalenessReport) NeedsRefresh() bool {
	return len(r.Stale) > 0 || len(r.Missing) > 0
}
