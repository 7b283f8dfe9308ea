package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is an advisory hint carried on a batch request. Clients send it
// as either a string or a number; it is kept as text.
type Priority string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Priority) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Priority(s)
		return nil
	}
	*p = Priority(string(data))
	return nil
}

// BatchRequest identifies one client-initiated refresh. BatchID is the
// idempotency key for status reporting only.
type BatchRequest struct {
	BatchID         string     `json:"batchId"`
	Feeds           []FeedRef  `json:"feeds"`
	ExistingGUIDs   []string   `json:"existingGuids"`
	NewestEntryDate *Timestamp `json:"newestEntryDate,omitempty"`
	UserID          string     `json:"userId,omitempty"`
	Priority        Priority   `json:"priority,omitempty"`
	RetryCount      int        `json:"retryCount,omitempty"`
}

// Validate checks the message shape. Feeds must be present, but may be empty.
func (r *BatchRequest) Validate() error {
	if strings.TrimSpace(r.BatchID) == "" {
		return fmt.Errorf("%w: batchId is required", ErrInvalidMessage)
	}
	if r.Feeds == nil {
		return fmt.Errorf("%w: feeds is required", ErrInvalidMessage)
	}
	for i, feed := range r.Feeds {
		if strings.TrimSpace(feed.PostTitle) == "" {
			return fmt.Errorf("%w: feeds[%d].postTitle is required", ErrInvalidMessage, i)
		}
		if strings.TrimSpace(feed.FeedURL) == "" {
			return fmt.Errorf("%w: feeds[%d].feedUrl is required", ErrInvalidMessage, i)
		}
	}
	return nil
}

// PostTitles returns the requested feed titles, deduplicated, in request order.
func (r *BatchRequest) PostTitles() []string {
	seen := make(map[string]struct{}, len(r.Feeds))
	titles := make([]string, 0, len(r.Feeds))
	for _, feed := range r.Feeds {
		if _, ok := seen[feed.PostTitle]; ok {
			continue
		}
		seen[feed.PostTitle] = struct{}{}
		titles = append(titles, feed.PostTitle)
	}
	return titles
}

// MediaTypes maps each requested title to the media type the client sent.
func (r *BatchRequest) MediaTypes() map[string]string {
	types := make(map[string]string, len(r.Feeds))
	for _, feed := range r.Feeds {
		if feed.MediaType != "" {
			types[feed.PostTitle] = feed.MediaType
		}
	}
	return types
}
