package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/util"
	"go.uber.org/zap"
)

// StationSource reports bike-share availability keyed by station id, plus the
// fidelity of the report as the percentage of stations that ever reported.
type StationSource interface {
	FetchStations(ctx context.Context) (map[string]int, float64, error)
}

// IncidentSource reports geolocated live incidents.
type IncidentSource interface {
	FetchIncidents(ctx context.Context) ([]datastructure.Incident, error)
}

func wrapFetchError(err error, source string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return util.WrapErrorf(err, util.ErrSourceTimeout, "%s fetch timed out", source)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return util.WrapErrorf(err, util.ErrSourceTimeout, "%s fetch timed out", source)
	}
	return util.WrapErrorf(err, util.ErrSourceUnavailable, "%s fetch failed", source)
}

// EcobiciSource pulls the GBFS station_status document published for the CDMX
// bike-share system.
type EcobiciSource struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewEcobiciSource(url string, client *http.Client, log *zap.Logger) *EcobiciSource {
	return &EcobiciSource{url: url, client: client, log: log}
}

type gbfsStationStatus struct {
	Data struct {
		Stations []gbfsStation `json:"stations"`
	} `json:"data"`
}

type gbfsStation struct {
	StationID         string `json:"station_id"`
	NumBikesAvailable int    `json:"num_bikes_available"`
	LastReported      int64  `json:"last_reported"`
}

func (s *EcobiciSource) FetchStations(ctx context.Context) (map[string]int, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, util.WrapErrorf(err, util.ErrSourceUnavailable, "build ecobici request")
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, 0, wrapFetchError(err, "ecobici")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, 0, util.WrapErrorf(nil, util.ErrSourceUnavailable,
			"ecobici api status %d", res.StatusCode)
	}

	var payload gbfsStationStatus
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, 0, util.WrapErrorf(err, util.ErrSourceUnavailable, "decode ecobici payload")
	}

	stations := payload.Data.Stations
	byID := make(map[string]int, len(stations))
	validReports := 0
	for _, st := range stations {
		byID[st.StationID] = st.NumBikesAvailable
		if st.LastReported > 0 {
			validReports++
		}
	}
	fidelity := 100.0
	if len(stations) > 0 {
		fidelity = math.Floor(float64(validReports) / float64(len(stations)) * 100.0)
	}

	s.log.Info("Sync Audit: Ecobici data consumed successfully.",
		zap.Int("stations", len(byID)), zap.Float64("fidelity", fidelity))
	return byID, fidelity, nil
}

// C5Source pulls active incidents from the CDMX open-data CKAN datastore,
// filtered to Benito Juárez.
type C5Source struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewC5Source(url string, client *http.Client, log *zap.Logger) *C5Source {
	return &C5Source{url: url, client: client, log: log}
}

type ckanResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Records []ckanRecord `json:"records"`
	} `json:"result"`
}

type ckanRecord struct {
	IncidenteC4 string    `json:"incidente_c4"`
	Latitud     flexFloat `json:"latitud"`
	Longitud    flexFloat `json:"longitud"`
}

// flexFloat tolerates the CKAN datastore serving numeric columns as numbers
// or as quoted strings. unparseable values decode to zero and get dropped by
// the (0,0) coordinate filter.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

func (s *C5Source) FetchIncidents(ctx context.Context) ([]datastructure.Incident, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrSourceUnavailable, "build c5 request")
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, wrapFetchError(err, "c5")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, util.WrapErrorf(nil, util.ErrSourceUnavailable,
			"c5 api status %d", res.StatusCode)
	}

	var payload ckanResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, util.WrapErrorf(err, util.ErrSourceUnavailable, "decode c5 payload")
	}
	if !payload.Success {
		return nil, util.WrapErrorf(nil, util.ErrSourceUnavailable, "c5 api reported failure")
	}

	incidents := make([]datastructure.Incident, 0, len(payload.Result.Records))
	skipped := 0
	for _, rec := range payload.Result.Records {
		lat, lon := float64(rec.Latitud), float64(rec.Longitud)
		// (0,0) is the Atlantic, not Benito Juárez
		if lat == 0 || lon == 0 {
			skipped++
			continue
		}
		tipo := rec.IncidenteC4
		if tipo == "" {
			tipo = "Incidente Vial"
		}
		incidents = append(incidents, datastructure.NewIncident(tipo, lat, lon,
			pkg.LIVE_INCIDENT_IMPACT, "red", "exclamation-triangle",
			datastructure.ORIGIN_LIVE, datastructure.INVALID_VERTEX_ID))
	}
	if skipped > 0 {
		s.log.Warn("Sync Audit: skipped records with invalid coords", zap.Int("skipped", skipped))
	}

	s.log.Info("Sync Audit: C5 Incidents ingested successfully.", zap.Int("count", len(incidents)))
	return incidents, nil
}
