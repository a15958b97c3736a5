package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	requestsTotal     *prometheus.CounterVec
	latencySeconds    *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	autoGradedTotal   *prometheus.CounterVec
	contentCacheTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		autoGradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_graded_total",
			Help: "Total number of graded submissions, by grading mode.",
		}, []string{"mode"})

		contentCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_requests_total",
			Help: "Course content cache lookups, by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, autoGradedTotal, contentCacheTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// SubmissionsGraded exposes the counter for graded submissions. The mode
// label is "auto" or "deferred".
func SubmissionsGraded() *prometheus.CounterVec {
	RegisterMetrics()
	return autoGradedTotal
}

// ContentCache exposes the counter for content cache lookups. The outcome
// label is "hit" or "miss".
func ContentCache() *prometheus.CounterVec {
	RegisterMetrics()
	return contentCacheTotal
}
