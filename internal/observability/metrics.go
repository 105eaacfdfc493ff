package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the journal catalog service.
// Metrics are organized by subsystem: searches, catalog, cache, source, and
// submissions. All counters and histograms are registered via promauto for
// automatic registration with the default Prometheus registry.
type Metrics struct {
	// SearchesTotal counts search requests, labeled by search type.
	SearchesTotal *prometheus.CounterVec

	// SearchDuration observes search handling duration in seconds, labeled by search type.
	SearchDuration *prometheus.HistogramVec

	// SearchResults observes the distribution of result counts per search.
	SearchResults prometheus.Histogram

	// SuggestionsTotal counts suggestion requests.
	SuggestionsTotal prometheus.Counter

	// CatalogSize reports the number of journals in the current snapshot.
	CatalogSize prometheus.Gauge

	// CacheHits counts loads served from the persistent cache.
	CacheHits prometheus.Counter

	// CacheMisses counts loads where the persistent cache was empty or unreadable.
	CacheMisses prometheus.Counter

	// CacheWriteFailures counts failed writes to the persistent cache.
	CacheWriteFailures prometheus.Counter

	// SourceFetchesTotal counts remote source fetches, labeled by outcome.
	SourceFetchesTotal *prometheus.CounterVec

	// SourceFetchDuration observes remote fetch duration in seconds.
	SourceFetchDuration prometheus.Histogram

	// JournalsAdded counts journals accepted through the submission endpoint.
	JournalsAdded prometheus.Counter

	// AppendFailures counts background deliveries to the remote source that failed.
	AppendFailures prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Searches
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of search requests by search type",
		}, []string{"type"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of search handling in seconds by search type",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"type"}),
		SearchResults: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of journals returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		SuggestionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Total number of suggestion requests",
		}),

		// Catalog
		CatalogSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      "Number of journals in the current catalog snapshot",
		}),

		// Cache
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of catalog loads served from the persistent cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of catalog loads where the persistent cache was empty",
		}),
		CacheWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_failures_total",
			Help:      "Total number of failed persistent cache writes",
		}),

		// Source
		SourceFetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Total number of remote source fetches by outcome",
		}, []string{"outcome"}),
		SourceFetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of remote source fetches in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),

		// Submissions
		JournalsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journals_added_total",
			Help:      "Total number of journals accepted through the submission endpoint",
		}),
		AppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "append_failures_total",
			Help:      "Total number of failed background deliveries to the remote source",
		}),
	}
}

// RecordSearch records a handled search request.
func (m *Metrics) RecordSearch(searchType string, resultCount int, durationSeconds float64) {
	m.SearchesTotal.WithLabelValues(searchType).Inc()
	m.SearchDuration.WithLabelValues(searchType).Observe(durationSeconds)
	m.SearchResults.Observe(float64(resultCount))
}

// RecordSuggestion records a handled suggestion request.
func (m *Metrics) RecordSuggestion() {
	m.SuggestionsTotal.Inc()
}

// RecordCatalogSize records the size of the published snapshot.
func (m *Metrics) RecordCatalogSize(size int) {
	m.CatalogSize.Set(float64(size))
}

// RecordCacheHit records a catalog load served from the persistent cache.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss records a catalog load with no usable cache entry.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}

// RecordCacheWriteFailure records a failed persistent cache write.
func (m *Metrics) RecordCacheWriteFailure() {
	m.CacheWriteFailures.Inc()
}

// RecordSourceFetch records a remote fetch outcome ("success" or "failure").
func (m *Metrics) RecordSourceFetch(outcome string, durationSeconds float64) {
	m.SourceFetchesTotal.WithLabelValues(outcome).Inc()
	m.SourceFetchDuration.Observe(durationSeconds)
}

// RecordJournalAdded records an accepted journal submission.
func (m *Metrics) RecordJournalAdded() {
	m.JournalsAdded.Inc()
}

// RecordAppendFailure records a failed background delivery to the source.
func (m *Metrics) RecordAppendFailure() {
	m.AppendFailures.Inc()
}
