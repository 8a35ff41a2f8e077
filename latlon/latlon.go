package latlon

import (
	"errors"
	"fmt"
	"math"
)

const π = math.Pi

// R is the mean earth radius in meters
const R = 6371e3

// NauticalMile in meters
const NauticalMile = 1852.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the coordinate is finite and inside [-90,90] x [-180,180]
func (l LatLon) Validate() error {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lon) || math.IsInf(l.Lat, 0) || math.IsInf(l.Lon, 0) {
		return fmt.Errorf("%w: (%v, %v) is not finite", ErrInvalidCoordinate, l.Lat, l.Lon)
	}
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinate, l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinate, l.Lon)
	}
	return nil
}

func (l LatLon) String() string {
	return fmt.Sprintf("(%.5f, %.5f)", l.Lat, l.Lon)
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}
