// Package metrics provides Prometheus metrics for the speedrun engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the speedrun engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Run lifecycle.
	runsStarted  prometheus.Counter
	runsResumed  prometheus.Counter
	runsFinished prometheus.Counter

	// Result scoring.
	resultsSubmitted   prometheus.Counter
	resultsIgnored     *prometheus.CounterVec
	aggregationLatency prometheus.Histogram
	totalPP            prometheus.Gauge
	topScoreCount      prometheus.Gauge
	segmentsReached    *prometheus.CounterVec

	// Leaderboard.
	leaderboardWrites prometheus.Counter
	leaderboardErrors prometheus.Counter

	// Persistence.
	storeSaveLatency prometheus.Histogram
	storeLoadLatency prometheus.Histogram
	storeErrors      *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bsr",
		subsystem:        "speedrun",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_started_total",
		Help:      "Total number of runs started",
	})

	m.runsResumed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_resumed_total",
		Help:      "Total number of runs resumed from a snapshot",
	})

	m.runsFinished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_finished_total",
		Help:      "Total number of runs finished",
	})

	m.resultsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_submitted_total",
		Help:      "Total number of play results submitted",
	})

	m.resultsIgnored = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "results_ignored_total",
			Help:      "Total number of play results that did not change the run",
		},
		[]string{"reason"},
	)

	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_latency_milliseconds",
		Help:      "Histogram of score aggregation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.totalPP = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_pp",
		Help:      "Rank-decayed pp total of the active run",
	})

	m.topScoreCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "top_score_count",
		Help:      "Number of deduplicated top scores in the active run",
	})

	m.segmentsReached = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "segments_reached_total",
			Help:      "Total number of segment milestones reached",
		},
		[]string{"segment"},
	)

	m.leaderboardWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_writes_total",
		Help:      "Total number of finished runs written to a leaderboard",
	})

	m.leaderboardErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_errors_total",
		Help:      "Total number of rejected leaderboard writes",
	})

	m.storeSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "Histogram of persistence write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_load_latency_milliseconds",
		Help:      "Histogram of persistence read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of persistence failures",
		},
		[]string{"operation"},
	)
}

// RecordRunStarted increments the runs started counter.
func RecordRunStarted() {
	globalManager.runsStarted.Inc()
}

// RecordRunResumed increments the runs resumed counter.
func RecordRunResumed() {
	globalManager.runsResumed.Inc()
}

// RecordRunFinished increments the runs finished counter.
func RecordRunFinished() {
	globalManager.runsFinished.Inc()
}

// RecordResultSubmitted increments the results submitted counter.
func RecordResultSubmitted() {
	globalManager.resultsSubmitted.Inc()
}

// RecordResultIgnored increments the ignored results counter for a reason.
func RecordResultIgnored(reason string) {
	globalManager.resultsIgnored.WithLabelValues(reason).Inc()
}

// RecordAggregationLatency records score aggregation latency in milliseconds.
func RecordAggregationLatency(latencyMs float64) {
	globalManager.aggregationLatency.Observe(latencyMs)
}

// UpdateTotalPP sets the active run's rank-decayed total.
func UpdateTotalPP(pp float64) {
	globalManager.totalPP.Set(pp)
}

// UpdateTopScoreCount sets the active run's top score count.
func UpdateTopScoreCount(count int) {
	globalManager.topScoreCount.Set(float64(count))
}

// RecordSegmentReached increments the reached counter for a segment.
func RecordSegmentReached(segment string) {
	globalManager.segmentsReached.WithLabelValues(segment).Inc()
}

// RecordLeaderboardWrite increments the leaderboard writes counter.
func RecordLeaderboardWrite() {
	globalManager.leaderboardWrites.Inc()
}

// RecordLeaderboardError increments the leaderboard errors counter.
func RecordLeaderboardError() {
	globalManager.leaderboardErrors.Inc()
}

// RecordStoreSaveLatency records persistence write latency in milliseconds.
func RecordStoreSaveLatency(latencyMs float64) {
	globalManager.storeSaveLatency.Observe(latencyMs)
}

// RecordStoreLoadLatency records persistence read latency in milliseconds.
func RecordStoreLoadLatency(latencyMs float64) {
	globalManager.storeLoadLatency.Observe(latencyMs)
}

// RecordStoreError increments the persistence failure counter for an operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
