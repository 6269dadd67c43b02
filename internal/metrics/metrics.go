// Package metrics provides Prometheus metrics for pageforge.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ComponentsEmitted  *prometheus.CounterVec
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	RateLimited        prometheus.Counter
	UpstreamErrors     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageforge_generations_total",
				Help: "Total layout generations by mode and status.",
			},
			[]string{"mode", "status"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pageforge_generation_duration_seconds",
				Help:    "End-to-end generation duration by mode, including upstream fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		ComponentsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageforge_components_emitted_total",
				Help: "Components emitted into layout documents, by kind.",
			},
			[]string{"kind"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pageforge_cache_hits_total",
				Help: "Layout cache hits.",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pageforge_cache_misses_total",
				Help: "Layout cache misses.",
			},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pageforge_ratelimit_rejected_total",
				Help: "Requests rejected by the rate limiter.",
			},
		),
		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageforge_upstream_errors_total",
				Help: "Errors from upstream services by service and type.",
			},
			[]string{"service", "type"},
		),
		registry: reg,
	}

	reg.MustRegister(m.GenerationsTotal)
	reg.MustRegister(m.GenerationDuration)
	reg.MustRegister(m.ComponentsEmitted)
	reg.MustRegister(m.CacheHits)
	reg.MustRegister(m.CacheMisses)
	reg.MustRegister(m.RateLimited)
	reg.MustRegister(m.UpstreamErrors)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordGeneration increments the generation counter.
func (m *Metrics) RecordGeneration(mode, status string) {
	m.GenerationsTotal.WithLabelValues(mode, status).Inc()
}

// ObserveGeneration records end-to-end generation duration.
func (m *Metrics) ObserveGeneration(mode string, seconds float64) {
	m.GenerationDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordComponent increments the per-kind emission counter.
func (m *Metrics) RecordComponent(kind string) {
	m.ComponentsEmitted.WithLabelValues(kind).Inc()
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}

// RecordRateLimited increments the rate limiter rejection counter.
func (m *Metrics) RecordRateLimited() {
	m.RateLimited.Inc()
}

// RecordUpstreamError increments the upstream error counter.
func (m *Metrics) RecordUpstreamError(service, errType string) {
	m.UpstreamErrors.WithLabelValues(service, errType).Inc()
}
