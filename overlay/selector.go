// Package overlay derives the optional map layers drawn over a voyage.
package overlay

import (
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/track"
)

type HighlightKey string

const (
	NightWatch HighlightKey = "night-watch"
	TopSpeed   HighlightKey = "top-speed"
	Fastest6h  HighlightKey = "fastest-6h"
)

// Builtin reports whether key is one of the fixed highlights every voyage offers
func Builtin(key HighlightKey) bool {
	return key == NightWatch || key == TopSpeed || key == Fastest6h
}

const (
	TopSpeedWindow  = time.Hour
	Fastest6hWindow = 6 * time.Hour
)

type Kind string

const (
	KindSegments Kind = "segments"
	KindMarker   Kind = "marker"
)

// Toggles holds the visible flag of every highlight key. Missing keys are hidden.
type Toggles map[HighlightKey]bool

func (t Toggles) Clone() Toggles {
	c := make(Toggles, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Key is a stable representation of the visible keys, usable as a cache key
func (t Toggles) Key() string {
	var keys []string
	for k, v := range t {
		if v {
			keys = append(keys, string(k))
		}
	}
	sort.Strings(keys)

	return strings.Join(keys, ",")
}

type Layer struct {
	Key      HighlightKey       `json:"key"`
	Kind     Kind               `json:"kind"`
	Label    string             `json:"label"`
	Segments [][]track.Waypoint `json:"segments,omitempty"`
	Marker   *track.Waypoint    `json:"marker,omitempty"`
	Speed    float64            `json:"speed,omitempty"`
}

type Selector struct {
	track  *track.Track
	layers []Layer
}

// NewSelector precomputes every layer the track has geometry for
func NewSelector(t *track.Track) *Selector {
	s := &Selector{track: t}

	if segments := NightWatchSegments(t); len(segments) > 0 {
		s.layers = append(s.layers, Layer{Key: NightWatch, Kind: KindSegments, Label: "Night watch", Segments: segments})
	}

	s.addSpeedLayer(TopSpeed, "Top speed", TopSpeedWindow)
	s.addSpeedLayer(Fastest6h, "Fastest 6h", Fastest6hWindow)

	for _, e := range t.Events() {
		key := HighlightKey(e.Key)
		if s.has(key) || Builtin(key) {
			log.Warnf("Event '%s' shadows a highlight key, ignored", e.Key)
			continue
		}
		w, _ := t.At(e.Index)
		s.layers = append(s.layers, Layer{Key: key, Kind: KindMarker, Label: e.Name, Marker: &w})
	}

	return s
}

func (s *Selector) addSpeedLayer(key HighlightKey, label string, window time.Duration) {
	best, ok, err := s.track.TopSpeedWindow(window)
	if err != nil || !ok {
		log.Debugf("No %s layer: ok=%t err=%v", key, ok, err)
		return
	}

	w := s.track.Waypoints()[best.Start.Index : best.End.Index+1]
	s.layers = append(s.layers, Layer{
		Key:      key,
		Kind:     KindSegments,
		Label:    label,
		Segments: [][]track.Waypoint{w},
		Speed:    best.AverageSpeed,
	})
}

func (s *Selector) has(key HighlightKey) bool {
	for _, l := range s.layers {
		if l.Key == key {
			return true
		}
	}
	return false
}

// Keys lists the highlight keys that have geometry, in render order
func (s *Selector) Keys() []HighlightKey {
	keys := make([]HighlightKey, len(s.layers))
	for i, l := range s.layers {
		keys[i] = l.Key
	}
	return keys
}

func (s *Selector) Has(key HighlightKey) bool {
	return s.has(key)
}

// Known reports whether key can be toggled: a built-in highlight, even one
// the track has no geometry for, or a point of interest.
func (s *Selector) Known(key HighlightKey) bool {
	return Builtin(key) || s.has(key)
}

// ActiveOverlayLayers returns the layers toggled visible. Keys without
// geometry are never returned.
func (s *Selector) ActiveOverlayLayers(toggles Toggles) []Layer {
	var active []Layer
	for _, l := range s.layers {
		if toggles[l.Key] {
			active = append(active, l)
		}
	}
	return active
}
