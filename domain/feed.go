package domain

import "time"

// FeedRef is one feed requested by a client batch.
type FeedRef struct {
	PostTitle string `json:"postTitle"`
	FeedURL   string `json:"feedUrl"`
	MediaType string `json:"mediaType,omitempty"`
}

// FeedRecord is the stored state of a feed. LastFetched is nil until the
// refresh worker has fetched the feed once.
type FeedRecord struct {
	ID          string
	Title       string
	FeedURL     string
	LastFetched *time.Time
	EntryCount  int
}

// IsFirstFetch reports whether the feed has never been fetched.
func (f *FeedRecord) IsFirstFetch() bool {
	return f == nil || f.LastFetched == nil
}

// IsStale reports whether the feed needs a refresh at now given threshold.
func (f *FeedRecord) IsStale(now time.Time, threshold time.Duration) bool {
	if f.LastFetched == nil {
		return true
	}
	return now.Sub(*f.LastFetched) > threshold
}
