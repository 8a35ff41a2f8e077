package overlay

import (
	"time"

	"github.com/a-bouts/voyage-log/track"
)

// Night hours in UTC, roughly 18:00 to 06:00 in Australian Central time.
// Daylight saving and time zone changes along the way are ignored.
const (
	NightStartUTC = 8
	NightEndUTC   = 21
)

func IsNight(t time.Time) bool {
	h := t.UTC().Hour()
	return h >= NightStartUTC && h < NightEndUTC
}

// NightWatchSegments returns the maximal runs of consecutive night
// waypoints. Runs of a single waypoint cannot be drawn and are dropped.
func NightWatchSegments(t *track.Track) [][]track.Waypoint {
	var segments [][]track.Waypoint
	var run []track.Waypoint

	flush := func() {
		if len(run) >= 2 {
			segments = append(segments, run)
		}
		run = nil
	}

	for _, w := range t.Waypoints() {
		if IsNight(w.Time) {
			run = append(run, w)
			continue
		}
		flush()
	}
	flush()

	return segments
}
