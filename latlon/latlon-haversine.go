package latlon

import "math"

type LatLonHaversine struct{}

// DistanceTo returns the great-circle distance in meters
func (LatLonHaversine) DistanceTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * δ
}

// NauticalMilesTo returns the great-circle distance in nautical miles
func (hav LatLonHaversine) NauticalMilesTo(from, to LatLon) float64 {
	return hav.DistanceTo(from, to) / NauticalMile
}
