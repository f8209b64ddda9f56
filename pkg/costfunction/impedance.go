package costfunction

import (
	"strings"

	"github.com/sendero-labs/sendero/pkg"
)

var avenueKeywords = []string{
	"insurgentes", "eje central", "universidad", "cuauhtemoc", "division del norte",
}

// InfraBonus rewards segments with pedestrian-friendly infrastructure. values
// below 1.0 make a segment more attractive while in a hurry.
func InfraBonus(streetName string, class pkg.StreetClass) float64 {
	switch class {
	case pkg.FOOTWAY, pkg.PEDESTRIAN:
		return pkg.FOOTPATH_BONUS
	case pkg.CYCLEWAY:
		return pkg.CYCLEWAY_BONUS
	case pkg.PRIMARY, pkg.SECONDARY, pkg.TERTIARY:
		return pkg.AVENUE_BONUS
	}

	lower := strings.ToLower(streetName)
	for _, kw := range avenueKeywords {
		if strings.Contains(lower, kw) {
			return pkg.AVENUE_BONUS
		}
	}
	return 1.0
}

// ImpedanceFunction blends distance against danger according to the urgency
// the caller reported. at urgency 100 it degenerates to hurried distance with
// infra bonuses, at urgency 0 the safety term dominates completely.
type ImpedanceFunction struct {
	profile       *RiskProfile
	hazards       HazardIndex
	weatherFactor float64

	hurryRatio  float64
	safetyRatio float64
}

func NewImpedanceCostFunction(profile *RiskProfile, hazards HazardIndex,
	urgency int, weatherFactor float64) *ImpedanceFunction {
	hurry := float64(urgency) / 100.0
	safety := (1.0 - hurry) / 2.0
	if hurry > pkg.HURRY_KINK_THRESHOLD {
		// hurried walkers accept more risk than the linear blend alone
		// would give them
		safety *= 0.5
	}
	return &ImpedanceFunction{
		profile:       profile,
		hazards:       hazards,
		weatherFactor: weatherFactor,
		hurryRatio:    hurry,
		safetyRatio:   safety,
	}
}

// GetWeight computes the blended impedance of one street segment:
//
//	length*infraBonus*hurry + length*(baseRisk*weather*incidentPenalty)*SAFETY_WEIGHT_SCALE*safety
//
// the infra bonus only helps the hurry term. the safety term never gets
// cheaper because a street is wide.
func (f *ImpedanceFunction) GetWeight(e EdgeAttributes) float64 {
	length := e.GetLength()
	if length == 0 {
		return 0
	}

	name := e.GetStreetName()

	hurryTerm := length * InfraBonus(name, e.GetClass()) * f.hurryRatio

	incidentPenalty := 1.0
	if f.hazards != nil {
		if impact, ok := f.hazards.MaxImpactWithin(e.GetMidPoint(), pkg.INCIDENT_RADIUS_DEG); ok {
			incidentPenalty = pkg.INCIDENT_AMPLIFICATION * impact
		}
	}

	riskScore := f.profile.BaseRisk(name) * f.weatherFactor * incidentPenalty
	safetyTerm := length * riskScore * pkg.SAFETY_WEIGHT_SCALE * f.safetyRatio

	return hurryTerm + safetyTerm
}
