package controllers

import (
	"time"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/engine"
	"github.com/sendero-labs/sendero/pkg/geo"
)

type coordinateDTO struct {
	Lat float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon float64 `json:"lon" validate:"required,min=-180,max=180"`
}

func (c coordinateDTO) toCoordinate() geo.Coordinate {
	return geo.NewCoordinate(c.Lat, c.Lon)
}

// analyzeRouteRequest accepts either raw coordinates or place names. named
// endpoints are geocoded before validation, so a request with only
// origin_name/destination_name is still a valid one.
type analyzeRouteRequest struct {
	Origin          coordinateDTO `json:"origin" validate:"required"`
	Destination     coordinateDTO `json:"destination" validate:"required"`
	OriginName      string        `json:"origin_name"`
	DestinationName string        `json:"destination_name"`
	Urgency         int           `json:"urgency" validate:"min=0,max=100"`
	Weather         string        `json:"weather"`
}

type routeVariantResponse struct {
	Found            bool         `json:"found"`
	Path             [][2]float64 `json:"path"`
	Polyline         string       `json:"polyline,omitempty"`
	DistanceMeters   float64      `json:"distance_meters"`
	WalkingMinutes   float64      `json:"walking_minutes"`
	DepartureBearing string       `json:"departure_bearing,omitempty"`
}

func newRouteVariantResponse(detail engine.VariantDetail) routeVariantResponse {
	path := make([][2]float64, 0, len(detail.Coords))
	for _, c := range detail.Coords {
		path = append(path, [2]float64{c.Lat, c.Lon})
	}
	resp := routeVariantResponse{
		Found:            detail.Path.Found,
		Path:             path,
		DistanceMeters:   detail.Path.Length,
		WalkingMinutes:   detail.WalkMinutes,
		DepartureBearing: detail.DepartureBearing,
	}
	if detail.Path.Found && len(detail.Coords) >= 2 {
		resp.Polyline = geo.PolylineFromCoords(detail.Coords)
	}
	return resp
}

type analyzeRouteResponse struct {
	Balanced            routeVariantResponse `json:"relampago"`
	Shield              routeVariantResponse `json:"escudo"`
	Direct              routeVariantResponse `json:"directa"`
	OriginNode          datastructure.Index  `json:"origin_node"`
	DestinationNode     datastructure.Index  `json:"destination_node"`
	OriginQuadrant      string               `json:"origin_quadrant"`
	DestinationQuadrant string               `json:"destination_quadrant"`
	IntegrityScore      float64              `json:"integrity_score"`
	EludedIncidents     int                  `json:"eluded_incidents"`
	RiskAnalysis        engine.RiskAnalysis  `json:"risk_analysis"`
	Status              string               `json:"status"`
}

func NewAnalyzeRouteResponse(result *engine.AnalysisResult) analyzeRouteResponse {
	return analyzeRouteResponse{
		Balanced:            newRouteVariantResponse(result.Balanced),
		Shield:              newRouteVariantResponse(result.Shield),
		Direct:              newRouteVariantResponse(result.Direct),
		OriginNode:          result.OriginNode,
		DestinationNode:     result.DestinationNode,
		OriginQuadrant:      result.OriginQuadrant,
		DestinationQuadrant: result.DestinationQuadrant,
		IntegrityScore:      result.IntegrityScore,
		EludedIncidents:     result.EludedIncidents,
		RiskAnalysis:        result.RiskAnalysis,
		Status:              "Tactical Analysis Complete",
	}
}

type auditRouteRequest struct {
	Path        []coordinateDTO `json:"path" validate:"required,min=2,dive"`
	Sensitivity string          `json:"sensitivity"`
}

func (req auditRouteRequest) toCoordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(req.Path))
	for _, c := range req.Path {
		coords = append(coords, c.toCoordinate())
	}
	return coords
}

type incidentResponse struct {
	Tipo    string  `json:"tipo"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Impacto float64 `json:"impacto"`
	Color   string  `json:"color"`
	Icon    string  `json:"icon"`
	Origin  string  `json:"origin"`
}

func newIncidentResponse(incident datastructure.Incident) incidentResponse {
	return incidentResponse{
		Tipo:    incident.Type,
		Lat:     incident.Lat,
		Lon:     incident.Lon,
		Impacto: incident.Impact,
		Color:   incident.Color,
		Icon:    incident.Icon,
		Origin:  incident.Origin.String(),
	}
}

type incidentPageResponse struct {
	Incidents []incidentResponse `json:"incidents"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

func NewIncidentPageResponse(incidents []datastructure.Incident, total, page, pageSize int) incidentPageResponse {
	resp := incidentPageResponse{
		Incidents: make([]incidentResponse, 0, len(incidents)),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}
	for _, incident := range incidents {
		resp.Incidents = append(resp.Incidents, newIncidentResponse(incident))
	}
	return resp
}

type graphStatsResponse struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
	Streets  int `json:"streets"`
}

type feedStatusResponse struct {
	Integrity       string                    `json:"integrity"`
	ActiveIncidents int                       `json:"active_incidents"`
	EcobiciStations int                       `json:"ecobici_stations"`
	Metrics         datastructure.FeedMetrics `json:"metrics"`
	Graph           graphStatsResponse        `json:"graph"`
}

func NewFeedStatusResponse(snapshot *datastructure.RealtimeSnapshot, vertices, edges, streets int) feedStatusResponse {
	integrity := snapshot.Integrity.String()
	if snapshot.FromFallback {
		integrity = "Critical (Resiliencia Activa)"
	}
	return feedStatusResponse{
		Integrity:       integrity,
		ActiveIncidents: len(snapshot.Incidents),
		EcobiciStations: len(snapshot.Stations),
		Metrics:         snapshot.Metrics,
		Graph: graphStatsResponse{
			Vertices: vertices,
			Edges:    edges,
			Streets:  streets,
		},
	}
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type geocodeResponse struct {
	Query    string  `json:"query"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Fallback bool    `json:"fallback"`
}

// alertStreamCommand is the only message a websocket client is expected to
// send, everything else flows server to client.
type alertStreamCommand struct {
	Action string `json:"action" validate:"required"`
}

type incidentAlertMessage struct {
	Alert     string  `json:"alert"`
	Tipo      string  `json:"tipo"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Impacto   float64 `json:"impacto"`
	Color     string  `json:"color"`
	Icon      string  `json:"icon"`
	EmittedAt string  `json:"emitted_at"`
}

func NewIncidentAlertMessage(incident datastructure.Incident) incidentAlertMessage {
	return incidentAlertMessage{
		Alert:     "high_impact_incident",
		Tipo:      incident.Type,
		Lat:       incident.Lat,
		Lon:       incident.Lon,
		Impacto:   incident.Impact,
		Color:     incident.Color,
		Icon:      incident.Icon,
		EmittedAt: time.Now().Format(time.RFC3339),
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
