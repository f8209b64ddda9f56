package datastructure

import "github.com/sendero-labs/sendero/pkg/geo"

type IncidentOrigin uint8

const (
	ORIGIN_SYNTHETIC IncidentOrigin = 0
	ORIGIN_LIVE      IncidentOrigin = 1
)

func (o IncidentOrigin) String() string {
	if o == ORIGIN_LIVE {
		return "live"
	}
	return "synthetic"
}

// Incident is an ephemeral hazard signal, generated or fetched per analysis
// request. it is never persisted as part of the street graph.
type Incident struct {
	Type   string         `json:"tipo"`
	Lat    float64        `json:"lat"`
	Lon    float64        `json:"lon"`
	Impact float64        `json:"impacto"`
	Color  string         `json:"color"`
	Icon   string         `json:"icon"`
	Origin IncidentOrigin `json:"-"`
	// NodeID binds a synthetic incident to the graph vertex it was placed
	// on, INVALID_VERTEX_ID for live feed incidents.
	NodeID Index `json:"-"`
}

func NewIncident(incidentType string, lat, lon, impact float64, color, icon string,
	origin IncidentOrigin, nodeID Index) Incident {
	return Incident{
		Type:   incidentType,
		Lat:    lat,
		Lon:    lon,
		Impact: impact,
		Color:  color,
		Icon:   icon,
		Origin: origin,
		NodeID: nodeID,
	}
}

func (i Incident) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(i.Lat, i.Lon)
}

// DoubleImpacts returns a copy of the incident set with every impact weight
// doubled, the shield variant posture. the input is never mutated.
func DoubleImpacts(incidents []Incident) []Incident {
	doubled := make([]Incident, len(incidents))
	copy(doubled, incidents)
	for i := range doubled {
		doubled[i].Impact *= 2
	}
	return doubled
}
