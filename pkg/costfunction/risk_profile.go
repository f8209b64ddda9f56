package costfunction

import (
	"strings"

	"github.com/sendero-labs/sendero/pkg"
)

// riskRule assigns a base risk to streets whose lowercased name contains the
// keyword. rules are evaluated in order and the first match wins, danger
// keywords stay ahead of safe ones so "Avenida Insurgentes" can never score
// as safe through a later rule.
type riskRule struct {
	keyword string
	risk    float64
}

// RiskProfile maps street names to base risk multipliers calibrated for
// Benito Juárez and the surrounding colonias.
type RiskProfile struct {
	rules       []riskRule
	defaultRisk float64
}

func NewDefaultRiskProfile() *RiskProfile {
	return &RiskProfile{
		rules: []riskRule{
			{"doctores", pkg.RISK_DANGER},
			{"guerrero", pkg.RISK_DANGER},
			{"insurgentes", pkg.RISK_DANGER},
			{"alvaro obregon", pkg.RISK_DANGER},
			{"durango", pkg.RISK_DANGER},
			{"colima", pkg.RISK_SAFE},
			{"orizaba", pkg.RISK_SAFE},
			{"tabasco", pkg.RISK_SAFE},
			{"guadalajara", pkg.RISK_SAFE},
			{"chiapas", pkg.RISK_SAFE},
			{"jalapa", pkg.RISK_SAFE},
		},
		defaultRisk: pkg.RISK_STANDARD,
	}
}

// BaseRisk returns the risk multiplier for a street name. unnamed streets
// score standard.
func (rp *RiskProfile) BaseRisk(streetName string) float64 {
	if streetName == "" {
		return rp.defaultRisk
	}
	lower := strings.ToLower(streetName)
	for _, r := range rp.rules {
		if strings.Contains(lower, r.keyword) {
			return r.risk
		}
	}
	return rp.defaultRisk
}
