package track

import (
	"time"

	"github.com/a-bouts/voyage-log/latlon"
)

// Waypoint is one logged GPS fix. Index equals its position in the track.
type Waypoint struct {
	Index int `json:"index"`
	latlon.LatLon
	Time     time.Time `json:"time"`
	Speed    float64   `json:"speed"`
	Distance float64   `json:"distance"`
	Leg      string    `json:"leg"`
	Color    string    `json:"color,omitempty"`
}

// LegDef names a leg and the colour it is drawn with
type LegDef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Event is a point of interest pinned to a waypoint
type Event struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Leg spans the waypoints First..Last. Distance and Duration run from the
// departure point, the last waypoint of the previous leg, so that legs add
// up to the whole voyage.
type Leg struct {
	Name          string        `json:"name"`
	Color         string        `json:"color"`
	First         int           `json:"first"`
	Last          int           `json:"last"`
	Departure     int           `json:"departure"`
	DepartureTime time.Time     `json:"departureTime"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	Distance      float64       `json:"distance"`
	Duration      time.Duration `json:"duration"`
	AverageSpeed  float64       `json:"averageSpeed"`
	Waypoints     int           `json:"waypoints"`
}

type SpeedWindow struct {
	Start        Waypoint      `json:"start"`
	End          Waypoint      `json:"end"`
	Distance     float64       `json:"distance"`
	Elapsed      time.Duration `json:"elapsed"`
	AverageSpeed float64       `json:"averageSpeed"`
}

type Totals struct {
	Distance     float64       `json:"distance"`
	Duration     time.Duration `json:"duration"`
	AverageSpeed float64       `json:"averageSpeed"`
	MaxSpeed     float64       `json:"maxSpeed"`
	Waypoints    int           `json:"waypoints"`
	Legs         int           `json:"legs"`
}

func knots(distance float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return distance / elapsed.Hours()
}
