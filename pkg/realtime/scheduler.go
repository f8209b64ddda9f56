package realtime

import (
	"context"
	"time"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/observability"
	"go.uber.org/zap"
)

// AlertFunc receives the high-impact incident chosen during a refresh cycle.
type AlertFunc func(incident datastructure.Incident)

// Scheduler refreshes the realtime feed on a fixed interval and raises at
// most one high-impact alert per cycle.
type Scheduler struct {
	feed     *Feed
	interval time.Duration
	alertFn  AlertFunc
	metrics  *observability.Registry
	log      *zap.Logger
}

func NewScheduler(feed *Feed, interval time.Duration, alertFn AlertFunc,
	metrics *observability.Registry, log *zap.Logger) *Scheduler {
	return &Scheduler{
		feed:     feed,
		interval: interval,
		alertFn:  alertFn,
		metrics:  metrics,
		log:      log,
	}
}

// Run blocks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("realtime scheduler stopped")
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	s.log.Info("starting scheduled ingest cycle")
	snap := s.feed.Refresh(ctx)
	s.log.Info("ingest cycle finished",
		zap.String("integrity", snap.Integrity.String()),
		zap.Int("incidents", len(snap.Incidents)),
		zap.Int("stations", len(snap.Stations)),
		zap.Int64("latencyMs", snap.Metrics.LatencyMs))

	if s.metrics != nil {
		s.metrics.RecordFeedCycle(snap.Integrity.String(),
			time.Duration(snap.Metrics.LatencyMs)*time.Millisecond,
			len(snap.Incidents), len(snap.Stations), snap.FromFallback)
	}

	if s.alertFn == nil {
		return
	}
	// one alert per cycle is enough to wake the monitoring channel
	for _, inc := range snap.Incidents {
		if inc.Impact >= pkg.HIGH_IMPACT_ALERT_THRESHOLD {
			s.alertFn(inc)
			break
		}
	}
}
