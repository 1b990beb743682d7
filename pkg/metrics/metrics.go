// Package metrics holds the process-wide Prometheus instruments for the
// query pipeline. Everything is registered on the default registry at init
// and served by the /metrics endpoint.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels used by the pipeline counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlmind_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlmind_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	sqlGenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlmind_sql_generation_total",
			Help: "Total number of SQL generation attempts by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlmind_queries_total",
			Help: "Total number of natural-language queries by pipeline outcome.",
		},
		[]string{"outcome"},
	)

	queryDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlmind_query_duration_ms",
			Help:    "Execution latency of generated queries in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)

	schemaRefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlmind_schema_refresh_total",
			Help: "Total number of forced schema refreshes.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		sqlGenerationTotal,
		queriesTotal,
		queryDurationMs,
		schemaRefreshTotal,
	)
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// ObserveGeneration records one SQL generation attempt. An empty provider
// (no provider answered) is normalized to "none".
func ObserveGeneration(provider, outcome string) {
	if provider == "" {
		provider = "none"
	}
	sqlGenerationTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveQuery records the pipeline outcome of one natural-language query.
// Duration is only observed for successful executions.
func ObserveQuery(outcome string, durationMS int64) {
	queriesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess && durationMS >= 0 {
		queryDurationMs.Observe(float64(durationMS))
	}
}

// IncrementSchemaRefresh records one forced schema refresh.
func IncrementSchemaRefresh() {
	schemaRefreshTotal.Inc()
}
