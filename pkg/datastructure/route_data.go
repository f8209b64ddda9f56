package datastructure

type RouteVariant uint8

const (
	VARIANT_DIRECT   RouteVariant = 0
	VARIANT_SHIELD   RouteVariant = 1
	VARIANT_BALANCED RouteVariant = 2
)

func (v RouteVariant) String() string {
	switch v {
	case VARIANT_DIRECT:
		return "direct"
	case VARIANT_SHIELD:
		return "shield"
	default:
		return "balanced"
	}
}

// RoutePath is one variant's search outcome. an unreachable destination is a
// normal reportable result, Found false and empty nodes, never an error.
type RoutePath struct {
	Found bool    `json:"found"`
	Nodes []Index `json:"nodes"`
	// Cost is the path total over the variant's own weight field, Length
	// the raw meters along the variant's own edges.
	Cost   float64 `json:"cost"`
	Length float64 `json:"length_meters"`

	EdgeIDs []Index `json:"-"`
}

func NewRoutePath(nodes, edgeIDs []Index, cost, length float64) RoutePath {
	return RoutePath{
		Found:   true,
		Nodes:   nodes,
		EdgeIDs: edgeIDs,
		Cost:    cost,
		Length:  length,
	}
}

func NewUnreachablePath() RoutePath {
	return RoutePath{Found: false, Nodes: []Index{}, EdgeIDs: []Index{}}
}
