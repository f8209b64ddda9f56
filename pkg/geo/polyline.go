package geo

import (
	polyline "github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes a path geometry with the google polyline codec.
func PolylineFromCoords(coords []Coordinate) string {
	buf := make([][]float64, len(coords))
	for i, c := range coords {
		buf[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(buf))
}

// CoordsFromPolyline is the decode direction of the same codec. the codec
// quantizes to 1e-5 degrees, about one meter, so decoded coordinates match
// the originals only at that precision.
func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	buf, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, len(buf))
	for i, c := range buf {
		coords[i] = NewCoordinate(c[0], c[1])
	}
	return coords, nil
}
