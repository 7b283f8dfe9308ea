// Package metrics provides Prometheus metrics for the refresh orchestrator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "refresh_orchestrator"

var (
	// BatchesTotal counts processed batch messages by terminal status.
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of batch messages processed",
		},
		[]string{"status"},
	)

	// BatchDuration measures time from receipt to terminal status.
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch processing in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	EarlyExitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "early_exits_total",
			Help:      "Batches completed without delegation because every feed was fresh",
		},
	)

	DelegationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delegations_total",
			Help:      "Refresh worker delegations by outcome",
		},
		[]string{"status"},
	)

	DelegationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delegation_duration_seconds",
			Help:      "Duration of refresh worker calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// EntriesReturned observes page sizes delivered to clients.
	EntriesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entries_returned",
			Help:      "Distribution of entries returned per batch",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)

	EnrichmentFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_fallbacks_total",
			Help:      "Enrichment lookups that fell back to defaults",
		},
		[]string{"lookup"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Enrichment cache lookups by result",
		},
		[]string{"cache", "result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Real-time notification dispatches by outcome",
		},
		[]string{"status"},
	)

	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Live batch stream subscribers",
		},
	)

	// ErrorsTotal counts errors by type.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation", "error_type"},
	)
)

// RecordBatch records a batch reaching a terminal status.
func RecordBatch(status string, durationSeconds float64, entries int) {
	BatchesTotal.WithLabelValues(status).Inc()
	BatchDuration.WithLabelValues(status).Observe(durationSeconds)
	EntriesReturned.Observe(float64(entries))
}

// RecordDelegation records one refresh worker call.
func RecordDelegation(status string, durationSeconds float64) {
	DelegationsTotal.WithLabelValues(status).Inc()
	DelegationDuration.Observe(durationSeconds)
}

func RecordEnrichmentFallback(lookup string) {
	EnrichmentFallbacksTotal.WithLabelValues(lookup).Inc()
}

// RecordCacheLookup records hits and misses for one cache.
func RecordCacheLookup(cache string, hits, misses int) {
	if hits > 0 {
		CacheLookupsTotal.WithLabelValues(cache, "hit").Add(float64(hits))
	}
	if misses > 0 {
		CacheLookupsTotal.WithLabelValues(cache, "miss").Add(float64(misses))
	}
}

func RecordNotification(status string) {
	NotificationsTotal.WithLabelValues(status).Inc()
}

// RecordError records an error.
func RecordError(operation, errorType string) {
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}
