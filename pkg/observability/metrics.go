package observability

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordFeedCycle records one realtime refresh cycle.
func (r *Registry) RecordFeedCycle(integrity string, latency time.Duration,
	incidents, stations int, fromFallback bool) {
	r.FeedCyclesTotal.WithLabelValues(integrity).Inc()
	r.FeedLatencySeconds.Observe(latency.Seconds())
	r.FeedIncidentsActive.Set(float64(incidents))
	r.FeedStationsTracked.Set(float64(stations))
	if fromFallback {
		r.FeedFallbacksTotal.Inc()
	}
}

// RecordRouteQuery records one multi-variant analysis.
func (r *Registry) RecordRouteQuery(status string, duration time.Duration) {
	r.RouteQueriesTotal.WithLabelValues(status).Inc()
	r.RouteQueryDuration.Observe(duration.Seconds())
}

// RecordUnreachableVariant marks one variant of a query as unreachable.
func (r *Registry) RecordUnreachableVariant(variant string) {
	r.RouteVariantsUnreachable.WithLabelValues(variant).Inc()
}

// SetGraphSize publishes the loaded graph dimensions.
func (r *Registry) SetGraphSize(vertices, edges int) {
	r.GraphVerticesTotal.Set(float64(vertices))
	r.GraphEdgesTotal.Set(float64(edges))
}
