package realtime

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/util"
	"go.uber.org/zap"
)

// backupEnvelope is the on-disk shape of a persisted snapshot. metrics is a
// pointer so a hand-edited or legacy file without the block still loads.
type backupEnvelope struct {
	Ecobici   map[string]int             `json:"ecobici"`
	Incidents []datastructure.Incident   `json:"incidents"`
	Integrity string                     `json:"integrity"`
	Metrics   *datastructure.FeedMetrics `json:"metrics"`
}

// FallbackStore persists the last fully healthy snapshot and serves it back
// when every live source is down.
type FallbackStore struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

func NewFallbackStore(path string, log *zap.Logger) *FallbackStore {
	return &FallbackStore{path: path, log: log}
}

// Save writes the snapshot atomically, temp file then rename, so a crash
// mid-write never leaves a truncated backup behind.
func (fs *FallbackStore) Save(snap *datastructure.RealtimeSnapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	env := backupEnvelope{
		Ecobici:   snap.Stations,
		Incidents: snap.Incidents,
		Integrity: snap.Integrity.String(),
		Metrics:   &snap.Metrics,
	}
	buf, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), "backup-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	fs.log.Info("backup snapshot persisted", zap.String("path", fs.path),
		zap.Int("incidents", len(snap.Incidents)))
	return nil
}

// Load reads the persisted snapshot. the stored metrics come back wholesale,
// including the original last_sync, so callers can see how stale the fallback
// data is.
func (fs *FallbackStore) Load() (*datastructure.RealtimeSnapshot, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	buf, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, util.WrapErrorf(err, util.ErrNoBackupSnapshot,
				"no backup snapshot at %s", fs.path)
		}
		return nil, util.WrapErrorf(err, util.ErrNoBackupSnapshot,
			"read backup snapshot at %s", fs.path)
	}

	var env backupEnvelope
	if err := json.Unmarshal(buf, &env); err != nil {
		return nil, util.WrapErrorf(err, util.ErrNoBackupSnapshot,
			"corrupt backup snapshot at %s", fs.path)
	}

	metrics := datastructure.NewFeedMetrics(-1, 0, "Fallback Data")
	if env.Metrics != nil {
		metrics = *env.Metrics
	}
	stations := env.Ecobici
	if stations == nil {
		stations = make(map[string]int)
	}
	incidents := env.Incidents
	if incidents == nil {
		incidents = make([]datastructure.Incident, 0)
	}
	for i := range incidents {
		incidents[i].Origin = datastructure.ORIGIN_LIVE
		incidents[i].NodeID = datastructure.INVALID_VERTEX_ID
	}

	return &datastructure.RealtimeSnapshot{
		Stations:  stations,
		Incidents: incidents,
		Integrity: datastructure.ParseIntegrityStatus(env.Integrity),
		Metrics:   metrics,
	}, nil
}
