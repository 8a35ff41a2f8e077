// Package match finds the waypoint of a track closest to a coordinate.
package match

import (
	"github.com/a-bouts/voyage-log/latlon"
	"github.com/a-bouts/voyage-log/track"
)

// Epsilon in nautical miles under which two distances are equal
const Epsilon = 1e-9

var ErrInvalidCoordinate = latlon.ErrInvalidCoordinate

type Result struct {
	Waypoint track.Waypoint `json:"waypoint"`
	Distance float64        `json:"distance"`
}

// Nearest scans every waypoint and keeps the closest one by haversine
// distance. Equidistant waypoints resolve to the lowest index.
func Nearest(t *track.Track, target latlon.LatLon) (Result, error) {
	if err := target.Validate(); err != nil {
		return Result{}, err
	}
	if t == nil || t.Len() == 0 {
		return Result{}, track.ErrEmptyDataset
	}

	return nearest(t.Waypoints(), target), nil
}

func nearest(waypoints []track.Waypoint, target latlon.LatLon) Result {
	hav := latlon.LatLonHaversine{}

	var best Result
	for i, w := range waypoints {
		d := hav.NauticalMilesTo(target, w.LatLon)
		if i == 0 || d < best.Distance-Epsilon || (d <= best.Distance+Epsilon && w.Index < best.Waypoint.Index) {
			best = Result{Waypoint: w, Distance: d}
		}
	}
	return best
}
