package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"path", "method", "status"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of backend API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// CacheHitsTotal and CacheMissesTotal are incremented by the cache
	// store, labelled by key family.
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"family"},
	)
	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"family"},
	)

	// OptimisticRollbacksTotal counts speculative mutations that had to be
	// rolled back after a failed request.
	OptimisticRollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optimistic_rollbacks_total",
			Help: "Total number of optimistic cache rollbacks",
		},
	)
)

// InitPrometheus registers the metrics. Call this once from main.go.
func InitPrometheus() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(OptimisticRollbacksTotal)
}

type monitorTransport struct {
	next http.RoundTripper
}

// NewMonitorTransport wraps next so every outbound request is tracked in
// Prometheus. Paths are recorded as sent; the API surface is small enough
// that cardinality is not a concern.
func NewMonitorTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &monitorTransport{next: next}
}

func (t *monitorTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(r)

	duration := time.Since(start).Seconds()
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	apiRequestsTotal.WithLabelValues(r.URL.Path, r.Method, status).Inc()
	apiRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(duration)

	return resp, err
}
