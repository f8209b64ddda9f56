package geo

import "github.com/sendero-labs/sendero/pkg/util"

// ValidateCoordinate rejects out-of-range coordinates. values are never
// clamped, a bad coordinate is a hard request error.
func ValidateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return util.WrapErrorf(nil, util.ErrValidation, "latitude %f outside [-90,90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return util.WrapErrorf(nil, util.ErrValidation, "longitude %f outside [-180,180]", c.Lon)
	}
	return nil
}
