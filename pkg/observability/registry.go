package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the routing service.
type Registry struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// realtime feed metrics
	FeedCyclesTotal     *prometheus.CounterVec
	FeedLatencySeconds  prometheus.Histogram
	FeedFallbacksTotal  prometheus.Counter
	FeedIncidentsActive prometheus.Gauge
	FeedStationsTracked prometheus.Gauge

	// routing metrics
	RouteQueriesTotal        *prometheus.CounterVec
	RouteQueryDuration       prometheus.Histogram
	RouteVariantsUnreachable *prometheus.CounterVec

	// graph metrics
	GraphVerticesTotal prometheus.Gauge
	GraphEdgesTotal    prometheus.Gauge

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initFeedMetrics()
	r.initRoutingMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
