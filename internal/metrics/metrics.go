// Package metrics provides Prometheus collectors for the cache, the
// aggregation use cases and the HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	// cacheLookups counts registry lookups.
	// Labels:
	//   - tag: the primary cache tag of the lookup (e.g. "report-stats")
	//   - result: "hit", "miss" or "error"
	cacheLookups *prometheus.CounterVec

	// cacheInvalidations counts invalidation calls by outcome ("ok", "error").
	cacheInvalidations *prometheus.CounterVec

	// cacheSwept counts expired entries removed by the sweeper.
	cacheSwept prometheus.Counter

	// useCaseDuration records service use-case latency.
	// Labels:
	//   - use_case: e.g. "report-stats", "project-summary"
	//   - success: "true" or "false"
	useCaseDuration *prometheus.HistogramVec

	// httpRequests counts HTTP requests by method, route template and status.
	httpRequests *prometheus.CounterVec

	// httpDuration records HTTP latency by method and route template.
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suama_cache_lookups_total",
				Help: "Total number of cache registry lookups",
			},
			[]string{"tag", "result"},
		),
		cacheInvalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suama_cache_invalidations_total",
				Help: "Total number of cache invalidation calls",
			},
			[]string{"result"},
		),
		cacheSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "suama_cache_swept_entries_total",
				Help: "Total number of expired cache entries removed by the sweeper",
			},
		),
		useCaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "suama_use_case_duration_seconds",
				Help:    "Duration of service use cases in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"use_case", "success"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suama_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "suama_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		m.cacheLookups,
		m.cacheInvalidations,
		m.cacheSwept,
		m.useCaseDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// CacheLookup records one registry lookup.
func (m *Metrics) CacheLookup(tag, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(tag, result).Inc()
}

// CacheInvalidation records one invalidation call.
func (m *Metrics) CacheInvalidation(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.cacheInvalidations.WithLabelValues(result).Inc()
}

// CacheSwept records entries removed by one sweep.
func (m *Metrics) CacheSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cacheSwept.Add(float64(n))
}

// UseCase records the latency of one service use case.
func (m *Metrics) UseCase(name string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	m.useCaseDuration.WithLabelValues(name, strconv.FormatBool(success)).Observe(d.Seconds())
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
