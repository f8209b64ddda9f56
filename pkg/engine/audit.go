package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/geo"
	"github.com/sendero-labs/sendero/pkg/spatialindex"
	"github.com/sendero-labs/sendero/pkg/util"
)

// cargo sensitivity tiers of the route audit
const (
	SENSITIVITY_STANDARD   = "STANDARD"
	SENSITIVITY_HIGH_VALUE = "HIGH_VALUE"
	SENSITIVITY_HAZMAT     = "HAZMAT"
)

// historic high-risk box just north of the delegación. stands in for the
// hotspot table until one lands in a real store.
const (
	historicZoneMinLat = 19.41
	historicZoneMaxLat = 19.42
	historicZoneMinLon = -99.16
	historicZoneMaxLon = -99.15
)

const maxReportedThreats = 5

type DetectedThreat struct {
	Type        string     `json:"type"`
	Location    [2]float64 `json:"location"`
	Description string     `json:"description"`
}

type AuditBreakdown struct {
	IncidentsImpact       float64 `json:"incidents_impact"`
	HistoricalRiskImpact  float64 `json:"historical_risk_impact"`
	SensitivityMultiplier float64 `json:"sensitivity_multiplier"`
}

type AuditReport struct {
	IntegrityScore       float64          `json:"integrity_score"`
	UrbanStressLevel     string           `json:"urban_stress_level"`
	MainStressor         string           `json:"main_stressor"`
	Recommendation       string           `json:"recommendation"`
	DetailedBreakdown    AuditBreakdown   `json:"detailed_breakdown"`
	DetectedThreats      []DetectedThreat `json:"detected_threats"`
	AlternativeSafeRoute bool             `json:"alternative_safe_route"`
	InsuranceRiskFactor  float64          `json:"insurance_risk_factor"`
}

func normalizeSensitivityTier(tier string) string {
	switch strings.ToUpper(tier) {
	case SENSITIVITY_HIGH_VALUE:
		return SENSITIVITY_HIGH_VALUE
	case SENSITIVITY_HAZMAT:
		return SENSITIVITY_HAZMAT
	default:
		return SENSITIVITY_STANDARD
	}
}

func sensitivityFor(tier string) float64 {
	switch tier {
	case SENSITIVITY_HIGH_VALUE:
		return 1.5
	case SENSITIVITY_HAZMAT:
		return 2.0
	default:
		return 1.0
	}
}

// AuditRoute walks a polyline segment by segment and scores its urban stress
// against the active incidents and the historic risk zone. stress scales with
// the cargo sensitivity tier and caps at 100 percent.
func (e *Engine) AuditRoute(coords []geo.Coordinate, incidents []datastructure.Incident,
	sensitivityTier string) (*AuditReport, error) {

	totalSegments := len(coords) - 1
	if totalSegments <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrValidation,
			"route audit needs at least two coordinates, got %d", len(coords))
	}

	tier := normalizeSensitivityTier(sensitivityTier)
	sensitivity := sensitivityFor(tier)
	hazards := spatialindex.NewIncidentIndex(incidents)

	var (
		stressPoints float64
		incidentHits float64
		riskZoneHits float64
	)
	threats := make([]DetectedThreat, 0, maxReportedThreats)

	for i := 0; i < totalSegments; i++ {
		mid := geo.NewCoordinate(
			(coords[i].GetLat()+coords[i+1].GetLat())/2,
			(coords[i].GetLon()+coords[i+1].GetLon())/2,
		)

		if idx, ok := hazards.NearestWithin(mid, pkg.INCIDENT_RADIUS_DEG); ok {
			stressPoints++
			incidentHits++
			if len(threats) < maxReportedThreats {
				inc := hazards.Incident(idx)
				threats = append(threats, DetectedThreat{
					Type:     threatType(inc),
					Location: [2]float64{inc.Lat, inc.Lon},
					Description: fmt.Sprintf("Reporte activo en radio de 500m. Riesgo %s.",
						tier),
				})
			}
		}

		if mid.GetLat() > historicZoneMinLat && mid.GetLat() < historicZoneMaxLat &&
			mid.GetLon() > historicZoneMinLon && mid.GetLon() < historicZoneMaxLon {
			riskZoneHits += 0.5
			stressPoints += 0.5
		}
	}

	stressPercentage := math.Min(100.0, stressPoints/float64(totalSegments)*100.0*sensitivity)

	mainStressor := "None"
	if incidentHits > riskZoneHits {
		mainStressor = "C5_Active_Incident"
	} else if riskZoneHits > 0 {
		mainStressor = "Historic_High_Risk_Zone"
	}

	var stressLevel string
	switch {
	case stressPercentage < 10:
		stressLevel = "LOW"
	case stressPercentage < 30:
		stressLevel = "MODERATE"
	case stressPercentage < 60:
		stressLevel = "CRITICAL"
	default:
		stressLevel = "SHADOW_ZONE"
	}

	recommendation := "Ruta óptima detectada."
	if stressPercentage > 30 {
		recommendation = "Desvío sugerido por Corredores Verdes (Colima/Tabasco) para mitigar estrés."
	}
	if mainStressor == "C5_Active_Incident" {
		recommendation = "Alerta: Incidente activo detectado. Evite la zona de sombra inmediata."
	}

	return &AuditReport{
		IntegrityScore:   util.RoundFloat(100.0-stressPercentage, 2),
		UrbanStressLevel: stressLevel,
		MainStressor:     mainStressor,
		Recommendation:   recommendation,
		DetailedBreakdown: AuditBreakdown{
			IncidentsImpact:       util.RoundFloat(incidentHits/float64(totalSegments)*100.0, 2),
			HistoricalRiskImpact:  util.RoundFloat(riskZoneHits/float64(totalSegments)*100.0, 2),
			SensitivityMultiplier: sensitivity,
		},
		DetectedThreats:      threats,
		AlternativeSafeRoute: stressPercentage > 30,
		InsuranceRiskFactor:  util.RoundFloat(1.0+(stressPercentage/100.0)*sensitivity, 2),
	}, nil
}

func threatType(inc *datastructure.Incident) string {
	if inc.Type == "" {
		return "C5_INCIDENT_REPORT"
	}
	return inc.Type
}
