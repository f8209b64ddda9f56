package spatialindex

import (
	"math"

	"github.com/sendero-labs/sendero/pkg/geo"
	"github.com/tidwall/rtree"
)

const (
	nearestInitialRadiusDeg = 0.002
	nearestMaxRadiusDeg     = 1.0
)

// Rtree indexes point payloads by coordinate. queries work in planar degree
// space, which is accurate enough at city scale.
type Rtree[T any] struct {
	tr   *rtree.RTreeG[T]
	size int
}

func NewRtree[T any]() *Rtree[T] {
	var tr rtree.RTreeG[T]
	return &Rtree[T]{
		tr: &tr,
	}
}

// Insert adds item at (lat, lon). points are stored as zero-area boxes.
func (rt *Rtree[T]) Insert(lat, lon float64, item T) {
	rt.tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, item)
	rt.size++
}

func (rt *Rtree[T]) Size() int {
	return rt.size
}

// Nearest returns the item closest to the query point. the search window
// doubles until it catches a hit, so dense downtown queries stay cheap while
// the sparse fringe of the network still resolves.
func (rt *Rtree[T]) Nearest(qLat, qLon float64) (T, bool) {
	var (
		best     T
		bestDist = math.MaxFloat64
		found    bool
	)
	q := geo.NewCoordinate(qLat, qLon)
	for radius := nearestInitialRadiusDeg; radius <= nearestMaxRadiusDeg; radius *= 2 {
		rt.tr.Search([2]float64{qLon - radius, qLat - radius}, [2]float64{qLon + radius, qLat + radius},
			func(min, max [2]float64, item T) bool {
				d := geo.PlanarDistance(q, geo.NewCoordinate(min[1], min[0]))
				if d < bestDist {
					bestDist = d
					best = item
					found = true
				}
				return true
			})
		// a hit strictly inside the window cannot be beaten by a point
		// outside it
		if found && bestDist <= radius {
			return best, true
		}
	}
	return best, found
}

// SearchWithinRadius returns every item within radiusDeg of the query point.
func (rt *Rtree[T]) SearchWithinRadius(qLat, qLon, radiusDeg float64) []T {
	q := geo.NewCoordinate(qLat, qLon)

	results := make([]T, 0, 8)
	rt.tr.Search([2]float64{qLon - radiusDeg, qLat - radiusDeg}, [2]float64{qLon + radiusDeg, qLat + radiusDeg},
		func(min, max [2]float64, item T) bool {
			if geo.PlanarDistance(q, geo.NewCoordinate(min[1], min[0])) <= radiusDeg {
				results = append(results, item)
			}
			return true
		})
	return results
}
