package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	viewCacheHits prometheus.Counter
	viewCacheMiss prometheus.Counter
	rosterSize    prometheus.Gauge
	reloads       *prometheus.CounterVec
}

// NewMetrics registers collectors on reg, or on a fresh registry when reg is nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_http_errors_total",
			Help: "HTTP error responses by route and error code.",
		}, []string{"method", "route", "code"}),
		viewCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_view_cache_hits_total",
			Help: "Filtered views served from the view cache.",
		}),
		viewCacheMiss: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_view_cache_misses_total",
			Help: "Filtered views computed because the cache had no entry.",
		}),
		rosterSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "roster_collaborators",
			Help: "Collaborators in the current roster snapshot.",
		}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_reloads_total",
			Help: "Roster loads by source (store or cache).",
		}, []string{"source"}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

// ViewCacheHit counts a cached view lookup that succeeded.
func (m *Metrics) ViewCacheHit() {
	if m == nil {
		return
	}
	m.viewCacheHits.Inc()
}

// ViewCacheMiss counts a cached view lookup that failed.
func (m *Metrics) ViewCacheMiss() {
	if m == nil {
		return
	}
	m.viewCacheMiss.Inc()
}

// RecordReload records a roster load and the resulting size.
func (m *Metrics) RecordReload(source string, size int) {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues(source).Inc()
	m.rosterSize.Set(float64(size))
}
