// Package metrics exposes Prometheus instrumentation for the SDK client:
// request counts and latencies per endpoint, cache hits, retries and breaker
// transitions. Everything registers on a private registry so embedding the
// client never collides with the host application's metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vectorgov"

type ClientMetrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHitsTotal  *prometheus.CounterVec
	retriesTotal    *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
}

func NewClientMetrics() *ClientMetrics {
	m := &ClientMetrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdk",
			Name:      "requests_total",
			Help:      "API requests by endpoint and outcome.",
		}, []string{"endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sdk",
			Name:      "request_duration_seconds",
			Help:      "API request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdk",
			Name:      "cache_hits_total",
			Help:      "Responses served from the server-side cache.",
		}, []string{"endpoint"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdk",
			Name:      "retries_total",
			Help:      "Retry attempts by operation.",
		}, []string{"operation"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sdk",
			Name:      "circuit_breaker_open",
			Help:      "1 while the named operation's circuit is open.",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.cacheHitsTotal,
		m.retriesTotal,
		m.breakerState,
	)
	return m
}

// ObserveRequest records one finished API call.
func (m *ClientMetrics) ObserveRequest(endpoint, status string, seconds float64) {
	m.requestsTotal.WithLabelValues(endpoint, status).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// ObserveCacheHit counts a response the server answered from cache.
func (m *ClientMetrics) ObserveCacheHit(endpoint string) {
	m.cacheHitsTotal.WithLabelValues(endpoint).Inc()
}

// ObserveRetry counts one retry attempt.
func (m *ClientMetrics) ObserveRetry(operation string) {
	m.retriesTotal.WithLabelValues(operation).Inc()
}

// SetBreakerOpen flags the named operation's breaker state.
func (m *ClientMetrics) SetBreakerOpen(operation string, open bool) {
	v := 0.0
	if open {
		v = 1.0
	}
	m.breakerState.WithLabelValues(operation).Set(v)
}

// Handler serves the private registry for scraping.
func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the private registry, mainly for tests.
func (m *ClientMetrics) Registry() *prometheus.Registry {
	return m.registry
}
