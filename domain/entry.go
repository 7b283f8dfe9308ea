package domain

import "time"

// Entry is a stored feed entry. GUID is unique within a feed.
type Entry struct {
	ID          int64     `json:"id"`
	GUID        string    `json:"guid"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PubDate     time.Time `json:"pubDate"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	MediaType   string    `json:"mediaType,omitempty"`
	FeedID      string    `json:"feedId"`
	FeedTitle   string    `json:"feedTitle"`
	FeedURL     string    `json:"feedUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InteractionCounts are social counters for an entry.
type InteractionCounts struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Reposts  int `json:"reposts"`
}

// PostMetadata is display metadata for the post (feed) an entry belongs to.
type PostMetadata struct {
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

// DisplayEntry is an entry plus best-effort enrichment.
type DisplayEntry struct {
	Entry
	InteractionCounts InteractionCounts `json:"interactionCounts"`
	PostMetadata      PostMetadata      `json:"postMetadata"`
}

// ReconciliationResult holds the entries that are new for a client.
// HasMore is true iff TotalEntries exceeds len(Entries).
type ReconciliationResult struct {
	Entries      []*Entry
	TotalEntries int
	HasMore      bool
}

// EmptyReconciliation returns a result with no entries.
func EmptyReconciliation() ReconciliationResult {
	return ReconciliationResult{Entries: []*Entry{}}
}
