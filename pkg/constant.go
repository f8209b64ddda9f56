package pkg

const (
	INF_WEIGHT float64 = 1e15

	// average pedestrian speed used for walking-time estimates
	WALK_SPEED_MPS = 1.38

	// hazard lookup radius in planar degrees (~500m at CDMX latitude).
	// every caller must use this constant, never an ad-hoc radius.
	INCIDENT_RADIUS_DEG = 0.0045

	// multiplier applied to the max incident impact found near an edge
	INCIDENT_AMPLIFICATION = 5.0

	// scale of the safety term in the blended impedance
	SAFETY_WEIGHT_SCALE = 5.0

	// above this hurry ratio the safety sensitivity is halved again
	HURRY_KINK_THRESHOLD = 0.7

	RISK_SAFE     = 1.0
	RISK_STANDARD = 10.0
	RISK_DANGER   = 50.0

	AVENUE_BONUS   = 0.6
	FOOTPATH_BONUS = 0.4
	CYCLEWAY_BONUS = 0.5

	LIVE_INCIDENT_IMPACT        = 3.0
	HIGH_IMPACT_ALERT_THRESHOLD = 5.0
)

const (
	DEBUG = false
)

type StreetClass uint8

// enum of osm highway values accepted on the walk network:
// https://wiki.openstreetmap.org/wiki/Key:highway
const (
	PRIMARY       StreetClass = 0
	SECONDARY     StreetClass = 1
	TERTIARY      StreetClass = 2
	RESIDENTIAL   StreetClass = 3
	LIVING_STREET StreetClass = 4
	SERVICE       StreetClass = 5
	FOOTWAY       StreetClass = 6
	PEDESTRIAN    StreetClass = 7
	CYCLEWAY      StreetClass = 8
	PATH          StreetClass = 9
	STEPS         StreetClass = 10
	TRACK         StreetClass = 11
	UNCLASSIFIED  StreetClass = 12
	UNKNOWN       StreetClass = 13
)

func GetStreetClass(highway string) StreetClass {
	switch highway {
	case "primary", "primary_link":
		return PRIMARY
	case "secondary", "secondary_link":
		return SECONDARY
	case "tertiary", "tertiary_link":
		return TERTIARY
	case "residential":
		return RESIDENTIAL
	case "living_street":
		return LIVING_STREET
	case "service":
		return SERVICE
	case "footway":
		return FOOTWAY
	case "pedestrian":
		return PEDESTRIAN
	case "cycleway":
		return CYCLEWAY
	case "path":
		return PATH
	case "steps":
		return STEPS
	case "track":
		return TRACK
	case "unclassified", "road":
		return UNCLASSIFIED
	default:
		return UNKNOWN
	}
}

func (sc StreetClass) String() string {
	switch sc {
	case PRIMARY:
		return "primary"
	case SECONDARY:
		return "secondary"
	case TERTIARY:
		return "tertiary"
	case RESIDENTIAL:
		return "residential"
	case LIVING_STREET:
		return "living_street"
	case SERVICE:
		return "service"
	case FOOTWAY:
		return "footway"
	case PEDESTRIAN:
		return "pedestrian"
	case CYCLEWAY:
		return "cycleway"
	case PATH:
		return "path"
	case STEPS:
		return "steps"
	case TRACK:
		return "track"
	case UNCLASSIFIED:
		return "unclassified"
	default:
		return "unknown"
	}
}
