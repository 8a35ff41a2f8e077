package track

import (
	"fmt"
	"time"
)

// TopSpeedWindow finds the fastest stretch lasting at least window. For
// every start the end is the first waypoint window or more later. The
// earliest start wins ties. ok is false when the track is shorter than
// window.
func (t *Track) TopSpeedWindow(window time.Duration) (best SpeedWindow, ok bool, err error) {
	if len(t.waypoints) == 0 {
		return SpeedWindow{}, false, ErrEmptyDataset
	}
	if window <= 0 {
		return SpeedWindow{}, false, fmt.Errorf("window must be positive, got %s", window)
	}

	n := len(t.waypoints)
	j := 0
	for i := 0; i < n; i++ {
		if j <= i {
			j = i + 1
		}
		for j < n && t.waypoints[j].Time.Sub(t.waypoints[i].Time) < window {
			j++
		}
		if j == n {
			break
		}

		start, end := t.waypoints[i], t.waypoints[j]
		elapsed := end.Time.Sub(start.Time)
		distance := end.Distance - start.Distance
		speed := knots(distance, elapsed)

		if !ok || speed > best.AverageSpeed {
			best = SpeedWindow{
				Start:        start,
				End:          end,
				Distance:     distance,
				Elapsed:      elapsed,
				AverageSpeed: speed,
			}
			ok = true
		}
	}

	return best, ok, nil
}
