package osmparser

import (
	"github.com/paulmach/osm"
)

// walkableHighway is the set of highway values a pedestrian can use. the
// walk network ignores vehicle one-way restrictions, every kept segment is
// emitted in both directions.
var walkableHighway = map[string]struct{}{
	"primary":        {},
	"primary_link":   {},
	"secondary":      {},
	"secondary_link": {},
	"tertiary":       {},
	"tertiary_link":  {},
	"residential":    {},
	"living_street":  {},
	"service":        {},
	"footway":        {},
	"pedestrian":     {},
	"cycleway":       {},
	"path":           {},
	"steps":          {},
	"track":          {},
	"unclassified":   {},
	"road":           {},
}

func acceptWalkWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	if _, ok := walkableHighway[highway]; !ok {
		return false
	}

	// mapped areas (plazas) produce degenerate closed rings, skip them
	if way.Tags.Find("area") == "yes" {
		return false
	}

	if foot := way.Tags.Find("foot"); foot == "no" || foot == "private" {
		return false
	}
	access := way.Tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}

	return true
}

// wayName prefers the name tag and falls back to ref, unnamed service ways
// end up with the empty name and the standard risk tier.
func wayName(way *osm.Way) string {
	if name := way.Tags.Find("name"); name != "" {
		return name
	}
	return way.Tags.Find("ref")
}
