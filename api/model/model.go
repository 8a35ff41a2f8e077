package model

import (
	"github.com/a-bouts/voyage-log/overlay"
	"github.com/a-bouts/voyage-log/track"
)

type Track struct {
	Name      string           `json:"name"`
	Waypoints []track.Waypoint `json:"waypoints"`
	Events    []track.Event    `json:"events"`
}

type Highlight struct {
	Key     overlay.HighlightKey `json:"key"`
	Visible bool                 `json:"visible"`
}

type Emphasis struct {
	Selected string             `json:"selected"`
	Weights  map[string]float64 `json:"weights"`
}

type TopSpeed struct {
	Window string             `json:"window"`
	Found  bool               `json:"found"`
	Best   *track.SpeedWindow `json:"best,omitempty"`
}

type Photos struct {
	Indices []int `json:"indices"`
}

type Error struct {
	Error string `json:"error"`
}
