package geo

import (
	"math"

	"github.com/sendero-labs/sendero/pkg/util"
)

// BearingTo computes the initial bearing in degrees from (p1Lat, p1Lon)
// towards (p2Lat, p2Lon).
// https://www.movable-type.co.uk/scripts/latlong.html
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {

	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

var cardinalNames = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CardinalDirection maps a bearing in degrees to one of the eight compass
// points.
func CardinalDirection(bearing float64) string {
	idx := int(math.Mod(bearing+22.5, 360.0) / 45.0)
	return cardinalNames[idx]
}
