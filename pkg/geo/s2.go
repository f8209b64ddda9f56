package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// QuadrantGrid anonymizes exact coordinates into coarse grid cell ids so that
// origin/destination pairs can be logged and reported without exposing the
// precise locations of a request.
type QuadrantGrid struct {
	bounds s2.Rect
	minLat float64
	minLon float64
	dLat   float64
	dLon   float64
	rows   int
	cols   int
	prefix string
}

const OutsideQuadrant = "EXT-QUAD"

func NewQuadrantGrid(minLat, maxLat, minLon, maxLon float64, rows, cols int, prefix string) *QuadrantGrid {
	bounds := s2.RectFromLatLng(s2.LatLngFromDegrees(minLat, minLon))
	bounds = bounds.AddPoint(s2.LatLngFromDegrees(maxLat, maxLon))
	return &QuadrantGrid{
		bounds: bounds,
		minLat: minLat,
		minLon: minLon,
		dLat:   (maxLat - minLat) / float64(rows),
		dLon:   (maxLon - minLon) / float64(cols),
		rows:   rows,
		cols:   cols,
		prefix: prefix,
	}
}

// QuadrantID returns "<prefix>-Q<row><col>" inside the district bounds and
// OutsideQuadrant everywhere else.
func (qg *QuadrantGrid) QuadrantID(c Coordinate) string {
	if !qg.bounds.ContainsLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)) {
		return OutsideQuadrant
	}

	row := int((c.Lat - qg.minLat) / qg.dLat)
	col := int((c.Lon - qg.minLon) / qg.dLon)
	if row > qg.rows-1 {
		row = qg.rows - 1
	}
	if col > qg.cols-1 {
		col = qg.cols - 1
	}

	return fmt.Sprintf("%s-Q%d%d", qg.prefix, row, col)
}
