package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFeedMetrics() {
	r.FeedCyclesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sendero_feed_cycles_total",
			Help: "Total number of realtime feed refresh cycles by resulting integrity",
		},
		[]string{"integrity"},
	)

	r.FeedLatencySeconds = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sendero_feed_latency_seconds",
			Help:    "Wall time of a full feed refresh cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.FeedFallbacksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sendero_feed_fallbacks_total",
			Help: "Total number of cycles served from the persisted fallback snapshot",
		},
	)

	r.FeedIncidentsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sendero_feed_incidents_active",
			Help: "Incidents carried by the latest snapshot",
		},
	)

	r.FeedStationsTracked = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sendero_feed_stations_tracked",
			Help: "Bike-share stations carried by the latest snapshot",
		},
	)
}
