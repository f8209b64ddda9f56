package datastructure

type IntegrityStatus uint8

const (
	INTEGRITY_OPTIMAL  IntegrityStatus = 0
	INTEGRITY_DEGRADED IntegrityStatus = 1
	INTEGRITY_CRITICAL IntegrityStatus = 2
)

func (s IntegrityStatus) String() string {
	switch s {
	case INTEGRITY_OPTIMAL:
		return "Optimal"
	case INTEGRITY_DEGRADED:
		return "Degraded"
	default:
		return "Critical"
	}
}

func ParseIntegrityStatus(s string) IntegrityStatus {
	switch s {
	case "Optimal":
		return INTEGRITY_OPTIMAL
	case "Degraded":
		return INTEGRITY_DEGRADED
	default:
		return INTEGRITY_CRITICAL
	}
}

type FeedMetrics struct {
	LatencyMs int64   `json:"latency_ms"`
	Fidelity  float64 `json:"fidelity"`
	LastSync  string  `json:"last_sync"`
}

func NewFeedMetrics(latencyMs int64, fidelity float64, lastSync string) FeedMetrics {
	return FeedMetrics{LatencyMs: latencyMs, Fidelity: fidelity, LastSync: lastSync}
}

// RealtimeSnapshot is the result of one ingestion cycle. it is created fresh
// each fetch and replaced wholesale, never partially mutated.
type RealtimeSnapshot struct {
	Stations  map[string]int  `json:"ecobici"`
	Incidents []Incident      `json:"incidents"`
	Integrity IntegrityStatus `json:"-"`
	Metrics   FeedMetrics     `json:"metrics"`

	// FromFallback marks a snapshot reconstructed from the last persisted
	// fallback file, NoBackup an empty snapshot returned because no
	// fallback existed either.
	FromFallback bool `json:"-"`
	NoBackup     bool `json:"-"`
}

func NewEmptySnapshot(integrity IntegrityStatus, metrics FeedMetrics) *RealtimeSnapshot {
	return &RealtimeSnapshot{
		Stations:  make(map[string]int),
		Incidents: make([]Incident, 0),
		Integrity: integrity,
		Metrics:   metrics,
	}
}
