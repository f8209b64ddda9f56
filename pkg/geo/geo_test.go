package geo

import (
	"errors"
	"testing"

	"github.com/sendero-labs/sendero/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinate(t *testing.T) {
	testCases := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"benito juarez center", NewCoordinate(19.3727, -99.1564), false},
		{"lat at north pole", NewCoordinate(90.0, 0.0), false},
		{"lat too high", NewCoordinate(90.0001, 0.0), true},
		{"lat too low", NewCoordinate(-91.0, 0.0), true},
		{"lon at antimeridian", NewCoordinate(0.0, -180.0), false},
		{"lon too low", NewCoordinate(0.0, -181.0), true},
		{"lon too high", NewCoordinate(0.0, 200.0), true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.coord)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.Is(util.Code(err), util.ErrValidation))
		})
	}
}

func TestHaversineMeters(t *testing.T) {
	// one degree of longitude on the equator
	d := HaversineMeters(0, 0, 0, 1)
	assert.InDelta(t, 111194.9, d, 1.0)

	// zero distance
	assert.Zero(t, HaversineMeters(19.37, -99.16, 19.37, -99.16))

	// metro zapata to wtc, roughly 1.6km
	d = HaversineMeters(19.3705, -99.1650, 19.3580, -99.1740)
	assert.InDelta(t, 1670.0, d, 60.0)
}

func TestPlanarDistance(t *testing.T) {
	a := NewCoordinate(19.40, -99.16)
	b := NewCoordinate(19.43, -99.12)
	assert.InDelta(t, 0.05, PlanarDistance(a, b), 1e-12)
	assert.Equal(t, PlanarDistance(a, b), PlanarDistance(b, a))
	assert.Zero(t, PlanarDistance(a, a))
}

func TestMidPoint(t *testing.T) {
	lat, lon := MidPoint(0, 0, 0, 2)
	assert.InDelta(t, 0.0, lat, 1e-9)
	assert.InDelta(t, 1.0, lon, 1e-9)

	// short city segment, spherical midpoint is the arithmetic one for all
	// practical purposes
	lat, lon = MidPoint(19.38, -99.16, 19.40, -99.18)
	assert.InDelta(t, 19.39, lat, 1e-4)
	assert.InDelta(t, -99.17, lon, 1e-4)
}

func TestBearingTo(t *testing.T) {
	assert.InDelta(t, 0.0, BearingTo(19.37, -99.16, 19.40, -99.16), 1e-9)
	assert.InDelta(t, 90.0, BearingTo(0, 0, 0, 1), 1e-9)
	assert.InDelta(t, 180.0, BearingTo(19.40, -99.16, 19.37, -99.16), 1e-9)
	assert.InDelta(t, 270.0, BearingTo(0, 1, 0, 0), 1e-9)
}

func TestCardinalDirection(t *testing.T) {
	testCases := []struct {
		bearing  float64
		expected string
	}{
		{0, "N"}, {22.4, "N"}, {22.5, "NE"}, {45, "NE"},
		{90, "E"}, {135, "SE"}, {180, "S"}, {225, "SW"},
		{270, "W"}, {315, "NW"}, {330, "NW"}, {350, "N"},
	}
	for _, tt := range testCases {
		assert.Equalf(t, tt.expected, CardinalDirection(tt.bearing), "bearing %v", tt.bearing)
	}
}

func TestPolylineFromCoords(t *testing.T) {
	// the reference vector from the polyline format docs
	coords := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", PolylineFromCoords(coords))

	assert.Equal(t, "", PolylineFromCoords(nil))
}

func TestPolylineRoundTrip(t *testing.T) {
	// a route geometry the way the analyzer emits it, zapata towards parque
	// hundido
	route := []Coordinate{
		NewCoordinate(19.37054, -99.16502),
		NewCoordinate(19.37121, -99.16618),
		NewCoordinate(19.37339, -99.16744),
		NewCoordinate(19.37580, -99.17103),
	}

	decoded, err := CoordsFromPolyline(PolylineFromCoords(route))
	require.NoError(t, err)
	require.Len(t, decoded, len(route))
	for i := range route {
		assert.InDelta(t, route[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, route[i].Lon, decoded[i].Lon, 1e-5)
	}

	// quantization is idempotent, a second pass reproduces the sequence
	// exactly
	again, err := CoordsFromPolyline(PolylineFromCoords(decoded))
	require.NoError(t, err)
	assert.Equal(t, decoded, again)
}

func TestCoordsFromPolylineMalformed(t *testing.T) {
	// trailing continuation byte with nothing after it
	_, err := CoordsFromPolyline("_p~iF~")
	require.Error(t, err)
}

func TestQuadrantGrid(t *testing.T) {
	grid := NewQuadrantGrid(19.35, 19.41, -99.19, -99.14, 5, 5, "BJ")

	testCases := []struct {
		name     string
		coord    Coordinate
		expected string
	}{
		{"south west corner", NewCoordinate(19.35, -99.19), "BJ-Q00"},
		{"center cell", NewCoordinate(19.378, -99.163), "BJ-Q22"},
		{"north east corner clamps to last cell", NewCoordinate(19.41, -99.14), "BJ-Q44"},
		{"north of the district", NewCoordinate(19.45, -99.16), OutsideQuadrant},
		{"west of the district", NewCoordinate(19.38, -99.25), OutsideQuadrant},
		{"another city entirely", NewCoordinate(40.71, -74.00), OutsideQuadrant},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, grid.QuadrantID(tt.coord))
		})
	}
}
