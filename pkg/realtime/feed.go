package realtime

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/util"
	"go.uber.org/zap"
)

const (
	syncTimeLayout = "2006-01-02 15:04:05"
	cacheKey       = "latest"
)

// Feed orchestrates the two live sources behind a circuit breaker. a refresh
// cycle never returns an error: with both sources down it degrades to the
// persisted fallback, and with no fallback it serves an empty critical
// snapshot rather than taking the routing service down.
type Feed struct {
	stations  StationSource
	incidents IncidentSource
	store     *FallbackStore

	cache   *expirable.LRU[string, *datastructure.RealtimeSnapshot]
	timeout time.Duration
	log     *zap.Logger
}

func NewFeed(stations StationSource, incidents IncidentSource, store *FallbackStore,
	timeout, cacheTTL time.Duration, log *zap.Logger) *Feed {
	return &Feed{
		stations:  stations,
		incidents: incidents,
		store:     store,
		cache:     expirable.NewLRU[string, *datastructure.RealtimeSnapshot](1, nil, cacheTTL),
		timeout:   timeout,
		log:       log,
	}
}

// Fetch returns the cached snapshot while it is fresh, otherwise runs a
// refresh cycle.
func (f *Feed) Fetch(ctx context.Context) *datastructure.RealtimeSnapshot {
	if snap, ok := f.cache.Get(cacheKey); ok {
		return snap
	}
	return f.Refresh(ctx)
}

// Refresh always hits both sources concurrently, each under its own timeout.
func (f *Feed) Refresh(ctx context.Context) *datastructure.RealtimeSnapshot {
	start := time.Now()

	type stationResult struct {
		stations map[string]int
		fidelity float64
		err      error
	}
	type incidentResult struct {
		incidents []datastructure.Incident
		err       error
	}
	stationCh := make(chan stationResult, 1)
	incidentCh := make(chan incidentResult, 1)

	go func() {
		srcCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		st, fidelity, err := f.stations.FetchStations(srcCtx)
		stationCh <- stationResult{stations: st, fidelity: fidelity, err: err}
	}()
	go func() {
		srcCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		inc, err := f.incidents.FetchIncidents(srcCtx)
		incidentCh <- incidentResult{incidents: inc, err: err}
	}()

	st := <-stationCh
	inc := <-incidentCh

	successCount := 0
	if st.err != nil {
		f.logSourceFailure("Ecobici", st.err)
	} else {
		successCount++
	}
	if inc.err != nil {
		f.logSourceFailure("C5", inc.err)
	} else {
		successCount++
	}

	latency := time.Since(start).Milliseconds()

	var snap *datastructure.RealtimeSnapshot
	switch successCount {
	case 2:
		snap = &datastructure.RealtimeSnapshot{
			Stations:  st.stations,
			Incidents: inc.incidents,
			Integrity: datastructure.INTEGRITY_OPTIMAL,
			Metrics:   datastructure.NewFeedMetrics(latency, st.fidelity, time.Now().Format(syncTimeLayout)),
		}
		if err := f.store.Save(snap); err != nil {
			f.log.Error("persist backup snapshot", zap.Error(err))
		}
	case 1:
		// a half-healthy cycle is served but never persisted, the backup
		// only ever holds fully healthy data
		stations := st.stations
		fidelity := st.fidelity
		if st.err != nil {
			stations = make(map[string]int)
			fidelity = 0
		}
		incidents := inc.incidents
		if inc.err != nil {
			incidents = make([]datastructure.Incident, 0)
		}
		snap = &datastructure.RealtimeSnapshot{
			Stations:  stations,
			Incidents: incidents,
			Integrity: datastructure.INTEGRITY_DEGRADED,
			Metrics:   datastructure.NewFeedMetrics(latency, fidelity, time.Now().Format(syncTimeLayout)),
		}
	default:
		snap = f.fallbackSnapshot(latency)
	}

	f.cache.Add(cacheKey, snap)
	return snap
}

func (f *Feed) logSourceFailure(source string, err error) {
	if util.Code(err) == util.ErrSourceTimeout {
		f.log.Warn("Sync Audit: source timeout. Circuit Breaker engaged.",
			zap.String("source", source), zap.Duration("timeout", f.timeout))
		return
	}
	f.log.Error("Sync Audit: source failed", zap.String("source", source), zap.Error(err))
}

func (f *Feed) fallbackSnapshot(latency int64) *datastructure.RealtimeSnapshot {
	f.log.Error("Sync Audit: all data sources offline. Orchestrating data fallback.")

	snap, err := f.store.Load()
	if err != nil {
		f.log.Warn("Resilience Audit: no backup snapshot found. System running empty.",
			zap.Error(err))
		empty := datastructure.NewEmptySnapshot(datastructure.INTEGRITY_CRITICAL,
			datastructure.NewFeedMetrics(latency, 0, time.Now().Format(syncTimeLayout)))
		empty.NoBackup = true
		return empty
	}

	snap.Integrity = datastructure.INTEGRITY_CRITICAL
	snap.FromFallback = true
	return snap
}
