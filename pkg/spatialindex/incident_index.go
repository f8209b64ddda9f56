package spatialindex

import (
	"math"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/geo"
)

// IncidentIndex answers hazard proximity queries during edge weighting and
// route auditing. it is immutable once built, a new feed snapshot builds a
// new index.
type IncidentIndex struct {
	rt        *Rtree[int]
	incidents []datastructure.Incident
}

func NewIncidentIndex(incidents []datastructure.Incident) *IncidentIndex {
	rt := NewRtree[int]()
	for i := range incidents {
		rt.Insert(incidents[i].Lat, incidents[i].Lon, i)
	}
	return &IncidentIndex{
		rt:        rt,
		incidents: incidents,
	}
}

func (ix *IncidentIndex) Len() int {
	return len(ix.incidents)
}

func (ix *IncidentIndex) Incident(i int) *datastructure.Incident {
	return &ix.incidents[i]
}

// MaxImpactWithin returns the strongest incident impact within radiusDeg of c
// and whether any incident lies in the radius at all.
func (ix *IncidentIndex) MaxImpactWithin(c geo.Coordinate, radiusDeg float64) (float64, bool) {
	hits := ix.rt.SearchWithinRadius(c.GetLat(), c.GetLon(), radiusDeg)
	if len(hits) == 0 {
		return 0, false
	}
	maxImpact := 0.0
	for _, i := range hits {
		maxImpact = math.Max(maxImpact, ix.incidents[i].Impact)
	}
	return maxImpact, true
}

func (ix *IncidentIndex) AnyWithin(c geo.Coordinate, radiusDeg float64) bool {
	return len(ix.rt.SearchWithinRadius(c.GetLat(), c.GetLon(), radiusDeg)) > 0
}

// NearestWithin returns the index of the closest incident within radiusDeg
// of c, if any.
func (ix *IncidentIndex) NearestWithin(c geo.Coordinate, radiusDeg float64) (int, bool) {
	hits := ix.rt.SearchWithinRadius(c.GetLat(), c.GetLon(), radiusDeg)
	if len(hits) == 0 {
		return 0, false
	}
	best := hits[0]
	bestDist := math.MaxFloat64
	for _, i := range hits {
		d := geo.PlanarDistance(c, ix.incidents[i].Coordinate())
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, true
}

// IndicesWithin returns the indices of all incidents within radiusDeg of c,
// for counting distinct hazards along a path.
func (ix *IncidentIndex) IndicesWithin(c geo.Coordinate, radiusDeg float64) []int {
	return ix.rt.SearchWithinRadius(c.GetLat(), c.GetLon(), radiusDeg)
}

// NewVertexIndex indexes every graph vertex for nearest-node snapping.
func NewVertexIndex(g *datastructure.Graph) *Rtree[datastructure.Index] {
	rt := NewRtree[datastructure.Index]()
	for _, v := range g.Vertices() {
		rt.Insert(v.GetLat(), v.GetLon(), v.GetID())
	}
	return rt
}
