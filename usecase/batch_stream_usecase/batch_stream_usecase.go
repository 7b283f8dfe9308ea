// Package batch_stream_usecase fans batch statuses out to live subscribers.
package batch_stream_usecase

import (
	"sync"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/metrics"
)

// DefaultRetainFor matches the status store TTL.
const DefaultRetainFor = 300 * time.Second

type retained struct {
	status    *domain.BatchStatus
	expiresAt time.Time
}

// BatchStreamHub addresses subscribers by batch id. The last status of each
// batch is kept for RetainFor so that late subscribers still receive it.
// Expired statuses are dropped on the next Publish or Subscribe.
type BatchStreamHub struct {
	mu          sync.Mutex
	subscribers map[string]map[uint64]chan *domain.BatchStatus
	retained    map[string]retained
	nextID      uint64
	retainFor   time.Duration
	now         func() time.Time
}

func NewBatchStreamHub(retainFor time.Duration, now func() time.Time) *BatchStreamHub {
	if retainFor <= 0 {
		retainFor = DefaultRetainFor
	}
	if now == nil {
		now = time.Now
	}
	return &BatchStreamHub{
		subscribers: make(map[string]map[uint64]chan *domain.BatchStatus),
		retained:    make(map[string]retained),
		retainFor:   retainFor,
		now:         now,
	}
}

// Publish delivers status to current subscribers of its batch and retains
// it. Slow subscribers that still hold an undelivered status are skipped.
func (h *BatchStreamHub) Publish(status *domain.BatchStatus) int {
	if status == nil || status.BatchID == "" {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.evictExpiredLocked(now)
	h.retained[status.BatchID] = retained{status: status, expiresAt: now.Add(h.retainFor)}

	delivered := 0
	for _, ch := range h.subscribers[status.BatchID] {
		select {
		case ch <- status:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe returns a channel receiving statuses for batchID and a cancel
// func that must be called to release it. A retained status is delivered
// immediately.
func (h *BatchStreamHub) Subscribe(batchID string) (<-chan *domain.BatchStatus, func()) {
	ch := make(chan *domain.BatchStatus, 1)

	h.mu.Lock()
	now := h.now()
	h.evictExpiredLocked(now)

	h.nextID++
	id := h.nextID
	if h.subscribers[batchID] == nil {
		h.subscribers[batchID] = make(map[uint64]chan *domain.BatchStatus)
	}
	h.subscribers[batchID][id] = ch
	if r, ok := h.retained[batchID]; ok {
		ch <- r.status
	}
	h.mu.Unlock()
	metrics.StreamSubscribers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[batchID], id)
			if len(h.subscribers[batchID]) == 0 {
				delete(h.subscribers, batchID)
			}
			h.mu.Unlock()
			metrics.StreamSubscribers.Dec()
		})
	}
	return ch, cancel
}

// Latest returns the retained status for batchID, if still live.
func (h *BatchStreamHub) Latest(batchID string) (*domain.BatchStatus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.retained[batchID]
	if !ok || !h.now().Before(r.expiresAt) {
		return nil, false
	}
	return r.status, true
}

// SubscriberCount returns the live subscribers of batchID.
func (h *BatchStreamHub) SubscriberCount(batchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[batchID])
}

func (h *BatchStreamHub) evictExpiredLocked(now time.Time) {
	for id, r := range h.retained {
		if !now.Before(r.expiresAt) {
			delete(h.retained, id)
		}
	}
}
