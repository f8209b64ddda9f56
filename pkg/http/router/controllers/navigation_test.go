package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/engine"
	"github.com/sendero-labs/sendero/pkg/geo"
	"github.com/sendero-labs/sendero/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceStub struct {
	analysis       *engine.AnalysisResult
	analysisErr    error
	report         *engine.AuditReport
	reportErr      error
	snapshot       *datastructure.RealtimeSnapshot
	incidents      []datastructure.Incident
	totalIncidents int
	suggestions    []string
	places         map[string]geo.Coordinate

	gotOrigin      geo.Coordinate
	gotDestination geo.Coordinate
	gotUrgency     int
	gotWeather     string
	gotPath        []geo.Coordinate
	gotSensitivity string
	gotPage        int
	gotPageSize    int
	gotQuery       string
	gotLimit       int
	resolveQueries []string
}

func (s *serviceStub) AnalyzeRoute(ctx context.Context, origin, destination geo.Coordinate,
	urgency int, weather string) (*engine.AnalysisResult, error) {
	s.gotOrigin, s.gotDestination = origin, destination
	s.gotUrgency, s.gotWeather = urgency, weather
	return s.analysis, s.analysisErr
}

func (s *serviceStub) AuditRoute(ctx context.Context, path []geo.Coordinate,
	sensitivity string) (*engine.AuditReport, error) {
	s.gotPath, s.gotSensitivity = path, sensitivity
	return s.report, s.reportErr
}

func (s *serviceStub) FeedStatus(ctx context.Context) *datastructure.RealtimeSnapshot {
	return s.snapshot
}

func (s *serviceStub) GraphSize() (int, int, int) {
	return 1874, 4982, 312
}

func (s *serviceStub) ActiveIncidents(ctx context.Context, page, pageSize int) ([]datastructure.Incident, int) {
	s.gotPage, s.gotPageSize = page, pageSize
	return s.incidents, s.totalIncidents
}

func (s *serviceStub) StreetSuggestions(query string, limit int) []string {
	s.gotQuery, s.gotLimit = query, limit
	return s.suggestions
}

func (s *serviceStub) ResolvePlace(ctx context.Context, query string) (geo.Coordinate, bool) {
	s.resolveQueries = append(s.resolveQueries, query)
	if coord, ok := s.places[query]; ok {
		return coord, false
	}
	return geo.NewCoordinate(19.3948, -99.1736), true
}

func record(handle httprouter.Handle, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	handle(w, req, nil)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var body struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sampleAnalysis() *engine.AnalysisResult {
	directCoords := []geo.Coordinate{
		geo.NewCoordinate(19.3700, -99.1660),
		geo.NewCoordinate(19.3700, -99.1540),
	}
	detourCoords := []geo.Coordinate{
		geo.NewCoordinate(19.3700, -99.1660),
		geo.NewCoordinate(19.3760, -99.1660),
		geo.NewCoordinate(19.3760, -99.1540),
		geo.NewCoordinate(19.3700, -99.1540),
	}
	direct := engine.VariantDetail{
		Path:             datastructure.NewRoutePath([]datastructure.Index{4, 9}, []datastructure.Index{2}, 1258.9, 1258.9),
		Coords:           directCoords,
		WalkMinutes:      15.2,
		DepartureBearing: "E",
	}
	detour := engine.VariantDetail{
		Path:             datastructure.NewRoutePath([]datastructure.Index{4, 5, 8, 9}, []datastructure.Index{3, 4, 5}, 2590.1, 2590.1),
		Coords:           detourCoords,
		WalkMinutes:      31.3,
		DepartureBearing: "N",
	}
	return &engine.AnalysisResult{
		Direct:              direct,
		Shield:              detour,
		Balanced:            detour,
		OriginNode:          4,
		DestinationNode:     9,
		OriginQuadrant:      "BJ-Q12",
		DestinationQuadrant: "BJ-Q13",
		IntegrityScore:      1.0,
		EludedIncidents:     1,
		RiskAnalysis: engine.RiskAnalysis{
			Description:      "Análisis de riesgo basado en Fórmula Sandoval 2.5 para BJ-Q12 -> BJ-Q13.",
			RiskFactors:      []string{"base_risk_profile"},
			ImpactWeights:    map[string]float64{"base_risk_profile": 0.3},
			RecommendationBI: "Operación estándar permitida. No se requieren escoltas adicionales.",
			UrbanStressLevel: "LOW",
		},
	}
}

func TestAnalyzeRouteHappyPath(t *testing.T) {
	stub := &serviceStub{analysis: sampleAnalysis()}
	api := New(stub, zap.NewNop())

	body := `{
		"origin": {"lat": 19.3700, "lon": -99.1660},
		"destination": {"lat": 19.3700, "lon": -99.1540},
		"urgency": 55,
		"weather": "rainy"
	}`
	w := record(api.analyzeRoute, http.MethodPost, "/api/navigations/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	assert.Equal(t, geo.NewCoordinate(19.3700, -99.1660), stub.gotOrigin)
	assert.Equal(t, geo.NewCoordinate(19.3700, -99.1540), stub.gotDestination)
	assert.Equal(t, 55, stub.gotUrgency)
	assert.Equal(t, "rainy", stub.gotWeather)

	raw := w.Body.String()
	assert.Contains(t, raw, `"relampago"`)
	assert.Contains(t, raw, `"escudo"`)
	assert.Contains(t, raw, `"directa"`)

	resp := decodeData[analyzeRouteResponse](t, w)
	assert.Equal(t, "Tactical Analysis Complete", resp.Status)
	assert.Equal(t, "BJ-Q12", resp.OriginQuadrant)
	assert.Equal(t, "BJ-Q13", resp.DestinationQuadrant)
	assert.Equal(t, 1.0, resp.IntegrityScore)
	assert.Equal(t, 1, resp.EludedIncidents)
	assert.Equal(t, "LOW", resp.RiskAnalysis.UrbanStressLevel)

	// relampago carries the balanced variant, directa the bare length one
	assert.Equal(t, "N", resp.Balanced.DepartureBearing)
	assert.Equal(t, "E", resp.Direct.DepartureBearing)
	assert.True(t, resp.Direct.Found)
	assert.Equal(t, 1258.9, resp.Direct.DistanceMeters)
	assert.Equal(t, 15.2, resp.Direct.WalkingMinutes)
	assert.Len(t, resp.Direct.Path, 2)
	assert.Equal(t, [2]float64{19.3700, -99.1660}, resp.Direct.Path[0])
	assert.Equal(t, geo.PolylineFromCoords(stub.analysis.Direct.Coords), resp.Direct.Polyline)
	assert.Len(t, resp.Balanced.Path, 4)
}

func TestAnalyzeRouteResolvesNamedEndpoints(t *testing.T) {
	stub := &serviceStub{
		analysis: sampleAnalysis(),
		places: map[string]geo.Coordinate{
			"Parque Hundido": geo.NewCoordinate(19.3785, -99.1784),
			"Metro Zapata":   geo.NewCoordinate(19.3706, -99.1647),
		},
	}
	api := New(stub, zap.NewNop())

	body := `{"origin_name": "Parque Hundido", "destination_name": "Metro Zapata", "urgency": 30}`
	w := record(api.analyzeRoute, http.MethodPost, "/api/navigations/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Parque Hundido", "Metro Zapata"}, stub.resolveQueries)
	assert.Equal(t, geo.NewCoordinate(19.3785, -99.1784), stub.gotOrigin)
	assert.Equal(t, geo.NewCoordinate(19.3706, -99.1647), stub.gotDestination)
}

func TestAnalyzeRouteUnknownPlaceFallsBack(t *testing.T) {
	stub := &serviceStub{analysis: sampleAnalysis()}
	api := New(stub, zap.NewNop())

	// the resolver's fallback coordinate is still a valid one, so the
	// request proceeds instead of failing validation
	body := `{"origin_name": "no existe", "destination": {"lat": 19.3700, "lon": -99.1540}, "urgency": 10}`
	w := record(api.analyzeRoute, http.MethodPost, "/api/navigations/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, geo.NewCoordinate(19.3948, -99.1736), stub.gotOrigin)
}

func TestAnalyzeRouteMalformedBody(t *testing.T) {
	api := New(&serviceStub{}, zap.NewNop())

	for _, body := range []string{"", "{not json", `[1,2,3]`} {
		w := record(api.analyzeRoute, http.MethodPost, "/api/navigations/analyze", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Bad Request", decodeError(t, w).Error.Code)
	}
}

func TestAnalyzeRouteValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "latitude out of range",
			body: `{"origin": {"lat": 123.0, "lon": -99.1660}, "destination": {"lat": 19.3700, "lon": -99.1540}}`,
		},
		{
			name: "longitude out of range",
			body: `{"origin": {"lat": 19.3700, "lon": -199.0}, "destination": {"lat": 19.3700, "lon": -99.1540}}`,
		},
		{
			name: "urgency above range",
			body: `{"origin": {"lat": 19.3700, "lon": -99.1660}, "destination": {"lat": 19.3700, "lon": -99.1540}, "urgency": 150}`,
		},
		{
			name: "negative urgency",
			body: `{"origin": {"lat": 19.3700, "lon": -99.1660}, "destination": {"lat": 19.3700, "lon": -99.1540}, "urgency": -4}`,
		},
		{
			name: "missing destination",
			body: `{"origin": {"lat": 19.3700, "lon": -99.1660}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &serviceStub{analysis: sampleAnalysis()}
			api := New(stub, zap.NewNop())

			w := record(api.analyzeRoute, http.MethodPost, "/api/navigations/analyze", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, "Bad Request", resp.Error.Code)
			assert.Contains(t, resp.Error.Message, "validation error")
			assert.Zero(t, stub.gotUrgency, "service must not be reached on invalid input")
		})
	}
}

func TestAnalyzeRouteErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "validation maps to bad request",
			err:         util.WrapErrorf(nil, util.ErrValidation, "urgency fuera de rango"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "Bad Request",
			wantMessage: "urgency fuera de rango",
		},
		{
			name:        "unreachable pair maps to not found",
			err:         util.WrapErrorf(nil, util.ErrNoPathFound, "no walkable path between endpoints"),
			wantStatus:  http.StatusNotFound,
			wantCode:    "Not Found",
			wantMessage: "no walkable path between endpoints",
		},
		{
			name:        "unclassified maps to server error",
			err:         errors.New("snapshot store unavailable"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "Internal Server Error",
			wantMessage: util.MessageInternalServerError,
		},
	}

	body := `{"origin": {"lat": 19.3700, "lon": -99.1660}, "destination": {"lat": 19.3700, "lon": -99.1540}, "urgency": 50}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := New(&serviceStub{analysisErr: tt.err}, zap.NewNop())

			w := record(api.analyzeRoute, http.MethodPost, "/api/navigations/analyze", body)

			require.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestAuditRouteHappyPath(t *testing.T) {
	stub := &serviceStub{report: &engine.AuditReport{
		IntegrityScore:   50.0,
		UrbanStressLevel: "CRITICAL",
		MainStressor:     "C5_Active_Incident",
		Recommendation:   "Alerta: Incidente activo detectado. Evite la zona de sombra inmediata.",
		DetailedBreakdown: engine.AuditBreakdown{
			IncidentsImpact:       25.0,
			SensitivityMultiplier: 2.0,
		},
		DetectedThreats: []engine.DetectedThreat{
			{Type: "Manifestación", Location: [2]float64{19.3720, -99.1600}, Description: "Reporte activo en radio de 500m. Riesgo HAZMAT."},
		},
		AlternativeSafeRoute: true,
		InsuranceRiskFactor:  2.0,
	}}
	api := New(stub, zap.NewNop())

	body := `{
		"path": [
			{"lat": 19.3700, "lon": -99.1660},
			{"lat": 19.3720, "lon": -99.1600},
			{"lat": 19.3700, "lon": -99.1540}
		],
		"sensitivity": "hazmat"
	}`
	w := record(api.auditRoute, http.MethodPost, "/api/navigations/audit", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.gotPath, 3)
	assert.Equal(t, geo.NewCoordinate(19.3720, -99.1600), stub.gotPath[1])
	assert.Equal(t, "hazmat", stub.gotSensitivity, "tier normalization belongs to the engine, not the handler")

	resp := decodeData[engine.AuditReport](t, w)
	assert.Equal(t, 50.0, resp.IntegrityScore)
	assert.Equal(t, "CRITICAL", resp.UrbanStressLevel)
	assert.Equal(t, "C5_Active_Incident", resp.MainStressor)
	assert.True(t, resp.AlternativeSafeRoute)
	assert.Equal(t, 2.0, resp.InsuranceRiskFactor)
	require.Len(t, resp.DetectedThreats, 1)
	assert.Equal(t, "Manifestación", resp.DetectedThreats[0].Type)
}

func TestAuditRouteValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing path", body: `{"sensitivity": "STANDARD"}`},
		{name: "single waypoint", body: `{"path": [{"lat": 19.3700, "lon": -99.1660}]}`},
		{name: "waypoint out of range", body: `{"path": [{"lat": 19.3700, "lon": -99.1660}, {"lat": 95.0, "lon": -99.1540}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &serviceStub{}
			api := New(stub, zap.NewNop())

			w := record(api.auditRoute, http.MethodPost, "/api/navigations/audit", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w).Error.Message, "validation error")
			assert.Nil(t, stub.gotPath)
		})
	}
}

func TestAuditRouteErrorMapping(t *testing.T) {
	api := New(&serviceStub{
		reportErr: util.WrapErrorf(nil, util.ErrValidation, "audit requires at least two coordinates"),
	}, zap.NewNop())

	body := `{"path": [{"lat": 19.3700, "lon": -99.1660}, {"lat": 19.3700, "lon": -99.1540}]}`
	w := record(api.auditRoute, http.MethodPost, "/api/navigations/audit", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "audit requires at least two coordinates", decodeError(t, w).Error.Message)
}

func TestActiveIncidentsDefaults(t *testing.T) {
	stub := &serviceStub{
		incidents: []datastructure.Incident{
			datastructure.NewIncident("Manifestación", 19.3720, -99.1600, 3.0, "#E74C3C", "protest",
				datastructure.ORIGIN_LIVE, datastructure.INVALID_VERTEX_ID),
			datastructure.NewIncident("Obra en Vía", 19.3780, -99.1700, 3.0, "#F39C12", "construction",
				datastructure.ORIGIN_SYNTHETIC, 17),
		},
		totalIncidents: 42,
	}
	api := New(stub, zap.NewNop())

	w := record(api.activeIncidents, http.MethodGet, "/api/incidents", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.gotPage)
	assert.Equal(t, 20, stub.gotPageSize)

	resp := decodeData[incidentPageResponse](t, w)
	assert.Equal(t, 42, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	require.Len(t, resp.Incidents, 2)
	assert.Equal(t, "Manifestación", resp.Incidents[0].Tipo)
	assert.Equal(t, "live", resp.Incidents[0].Origin)
	assert.Equal(t, "synthetic", resp.Incidents[1].Origin)
}

func TestActiveIncidentsPagingParams(t *testing.T) {
	t.Run("explicit page and size", func(t *testing.T) {
		stub := &serviceStub{}
		api := New(stub, zap.NewNop())

		w := record(api.activeIncidents, http.MethodGet, "/api/incidents?page=3&page_size=5", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, stub.gotPage)
		assert.Equal(t, 5, stub.gotPageSize)
	})

	t.Run("page size capped", func(t *testing.T) {
		stub := &serviceStub{}
		api := New(stub, zap.NewNop())

		w := record(api.activeIncidents, http.MethodGet, "/api/incidents?page_size=2500", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 100, stub.gotPageSize)
	})

	t.Run("rejects bad params", func(t *testing.T) {
		api := New(&serviceStub{}, zap.NewNop())

		for target, message := range map[string]string{
			"/api/incidents?page=0":         "page must be a positive integer",
			"/api/incidents?page=abc":       "page must be a positive integer",
			"/api/incidents?page_size=-1":   "page_size must be a positive integer",
			"/api/incidents?page_size=diez": "page_size must be a positive integer",
		} {
			w := record(api.activeIncidents, http.MethodGet, target, "")
			require.Equal(t, http.StatusBadRequest, w.Code, target)
			assert.Equal(t, message, decodeError(t, w).Error.Message, target)
		}
	})
}

func TestStreetSuggestionsHandler(t *testing.T) {
	stub := &serviceStub{suggestions: []string{"Avenida Coyoacán", "Avenida Universidad"}}
	api := New(stub, zap.NewNop())

	w := record(api.streetSuggestions, http.MethodGet, "/api/streets/suggestions?q=avenida&limit=2", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "avenida", stub.gotQuery)
	assert.Equal(t, 2, stub.gotLimit)
	assert.Equal(t, []string{"Avenida Coyoacán", "Avenida Universidad"},
		decodeData[suggestionsResponse](t, w).Suggestions)

	w = record(api.streetSuggestions, http.MethodGet, "/api/streets/suggestions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", stub.gotQuery)
	assert.Equal(t, 20, stub.gotLimit)

	w = record(api.streetSuggestions, http.MethodGet, "/api/streets/suggestions?limit=0", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "limit must be a positive integer", decodeError(t, w).Error.Message)
}

func TestGeocodeHandler(t *testing.T) {
	stub := &serviceStub{places: map[string]geo.Coordinate{
		"WTC": geo.NewCoordinate(19.3948, -99.1736),
	}}
	api := New(stub, zap.NewNop())

	w := record(api.geocode, http.MethodGet, "/api/geocode?q=WTC", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeData[geocodeResponse](t, w)
	assert.Equal(t, "WTC", resp.Query)
	assert.Equal(t, 19.3948, resp.Lat)
	assert.Equal(t, -99.1736, resp.Lon)
	assert.False(t, resp.Fallback)

	w = record(api.geocode, http.MethodGet, "/api/geocode?q=lugar+desconocido", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeData[geocodeResponse](t, w).Fallback)

	w = record(api.geocode, http.MethodGet, "/api/geocode", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "q is required", decodeError(t, w).Error.Message)
}

func TestFeedStatusHandler(t *testing.T) {
	stub := &serviceStub{snapshot: &datastructure.RealtimeSnapshot{
		Stations: map[string]int{"271": 4, "466": 0, "102": 9},
		Incidents: []datastructure.Incident{
			datastructure.NewIncident("Incidente Vial", 19.3720, -99.1600, 3.0, "#E74C3C", "alert",
				datastructure.ORIGIN_LIVE, datastructure.INVALID_VERTEX_ID),
		},
		Integrity: datastructure.INTEGRITY_OPTIMAL,
		Metrics:   datastructure.NewFeedMetrics(58, 96.0, "2026-08-25 10:00:00"),
	}}
	api := New(stub, zap.NewNop())

	w := record(api.feedStatus, http.MethodGet, "/api/status", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeData[feedStatusResponse](t, w)
	assert.Equal(t, "Optimal", resp.Integrity)
	assert.Equal(t, 1, resp.ActiveIncidents)
	assert.Equal(t, 3, resp.EcobiciStations)
	assert.Equal(t, 96.0, resp.Metrics.Fidelity)
	assert.Equal(t, "2026-08-25 10:00:00", resp.Metrics.LastSync)
	assert.Equal(t, 1874, resp.Graph.Vertices)
	assert.Equal(t, 4982, resp.Graph.Edges)
	assert.Equal(t, 312, resp.Graph.Streets)
}

func TestFeedStatusReportsFallbackIntegrity(t *testing.T) {
	snapshot := datastructure.NewEmptySnapshot(datastructure.INTEGRITY_CRITICAL,
		datastructure.NewFeedMetrics(-1, 0, "Fallback Data"))
	snapshot.FromFallback = true
	api := New(&serviceStub{snapshot: snapshot}, zap.NewNop())

	w := record(api.feedStatus, http.MethodGet, "/api/status", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Critical (Resiliencia Activa)", decodeData[feedStatusResponse](t, w).Integrity)
}
