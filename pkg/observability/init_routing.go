package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRoutingMetrics() {
	r.RouteQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sendero_route_queries_total",
			Help: "Total number of multi-variant route queries",
		},
		[]string{"status"},
	)

	r.RouteQueryDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sendero_route_query_duration_seconds",
			Help:    "Latency of a full three-variant analysis in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.RouteVariantsUnreachable = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sendero_route_variants_unreachable_total",
			Help: "Route variants that found no path, by variant",
		},
		[]string{"variant"},
	)

	r.GraphVerticesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sendero_graph_vertices_total",
			Help: "Vertices in the loaded street graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sendero_graph_edges_total",
			Help: "Directed edges in the loaded street graph",
		},
	)
}
