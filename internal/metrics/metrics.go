package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values
const (
	// Recalculation triggers
	TriggerMutation = "mutation"
	TriggerRead     = "read"
	TriggerRange    = "range"
	TriggerManual   = "manual"

	ResultSuccess = "success"
	ResultFailure = "failure"

	// Streak transitions
	TransitionIncrement = "increment"
	TransitionReset     = "reset"
	TransitionNoop      = "noop"
	TransitionPastDate  = "past_date"
	TransitionCounted   = "already_counted"

	// Cache lookups
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheRefresh = "refresh"
	CacheFuture  = "future"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint", "status_code"},
	)
)

// Performance engine metrics
var (
	RecalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_recalculations_total",
			Help: "Total number of daily performance recalculations",
		},
		[]string{"trigger", "result"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "performance_aggregation_duration_seconds",
			Help:    "Time spent reading logs and upserting one daily performance row",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	StreakTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_transitions_total",
			Help: "Streak engine outcomes by transition",
		},
		[]string{"transition"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_cache_total",
			Help: "Daily performance cache lookups by result",
		},
		[]string{"result"},
	)
)
