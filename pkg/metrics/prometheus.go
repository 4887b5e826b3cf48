// Package metrics provides Prometheus metrics for the rebelboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset metrics - the upstream static JSON tree.
	datasetFetches       prometheus.Counter
	datasetFetchErrors   *prometheus.CounterVec
	datasetFetchDuration prometheus.Histogram
	datasetMEPs          prometheus.Gauge
	datasetVotes         prometheus.Gauge
	staleFetchesDropped  prometheus.Counter

	// Core computation metrics.
	topicSearches       prometheus.Counter
	topicSearchDuration prometheus.Histogram
	aggregations        *prometheus.CounterVec
	aggregationDuration prometheus.Histogram

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rebelboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetches_total",
		Help:      "Total number of dataset fetches issued to the data tree",
	})

	m.datasetFetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_fetch_errors_total",
			Help:      "Total number of failed dataset fetches by reason",
		},
		[]string{"reason"},
	)

	m.datasetFetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetch_duration_milliseconds",
		Help:      "Histogram of dataset fetch duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.datasetMEPs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_meps",
		Help:      "Number of member records in the most recently applied dataset",
	})

	m.datasetVotes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_total_votes",
		Help:      "Total votes covered by the most recently applied dataset",
	})

	m.staleFetchesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_fetches_dropped_total",
		Help:      "Fetch responses discarded because a newer request superseded them",
	})

	m.topicSearches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "topic_searches_total",
		Help:      "Total number of fuzzy topic searches",
	})

	m.topicSearchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "topic_search_duration_milliseconds",
		Help:      "Histogram of fuzzy topic search duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.aggregations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "aggregations_total",
			Help:      "Total number of category aggregations by dimension",
		},
		[]string{"dimension"},
	)

	m.aggregationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_duration_milliseconds",
		Help:      "Histogram of category aggregation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers operating on the global manager.

// RecordDatasetFetch counts a completed fetch and its latency.
func RecordDatasetFetch(latencyMs float64) {
	globalManager.datasetFetches.Inc()
	globalManager.datasetFetchDuration.Observe(latencyMs)
}

// RecordDatasetFetchError counts a failed fetch by reason.
func RecordDatasetFetchError(reason string) {
	globalManager.datasetFetchErrors.WithLabelValues(reason).Inc()
}

// UpdateDatasetSize records the size of the currently applied dataset.
func UpdateDatasetSize(meps, totalVotes int) {
	globalManager.datasetMEPs.Set(float64(meps))
	globalManager.datasetVotes.Set(float64(totalVotes))
}

// RecordStaleFetchDropped counts a superseded fetch response.
func RecordStaleFetchDropped() {
	globalManager.staleFetchesDropped.Inc()
}

// RecordTopicSearch counts a fuzzy topic search and its latency.
func RecordTopicSearch(latencyMs float64) {
	globalManager.topicSearches.Inc()
	globalManager.topicSearchDuration.Observe(latencyMs)
}

// RecordAggregation counts an aggregation run for a dimension and its latency.
func RecordAggregation(dimension string, latencyMs float64) {
	globalManager.aggregations.WithLabelValues(dimension).Inc()
	globalManager.aggregationDuration.Observe(latencyMs)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
