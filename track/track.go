package track

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDataset = errors.New("track has no waypoints")
	ErrInvalidTrack = errors.New("invalid track")
)

var palette = []string{"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4", "#46f0f0", "#f032e6", "#bcf60c"}

type legRange struct {
	name  string
	color string
	first int
	last  int
}

// Track is the immutable ordered waypoint sequence of one voyage
type Track struct {
	Name      string
	waypoints []Waypoint
	legs      []legRange
	events    []Event
}

// New validates and freezes a voyage. Waypoint indices are reassigned to
// their slice position and each waypoint gets its leg colour.
func New(name string, legDefs []LegDef, waypoints []Waypoint, events []Event) (*Track, error) {
	colors := make(map[string]string)
	for _, d := range legDefs {
		colors[d.Name] = d.Color
	}

	t := &Track{
		Name:      name,
		waypoints: make([]Waypoint, len(waypoints)),
	}
	copy(t.waypoints, waypoints)

	seen := make(map[string]bool)
	for i := range t.waypoints {
		w := &t.waypoints[i]
		w.Index = i

		if w.Leg == "" {
			return nil, fmt.Errorf("%w: waypoint %d has no leg", ErrInvalidTrack, i)
		}
		if err := w.LatLon.Validate(); err != nil {
			return nil, fmt.Errorf("%w: waypoint %d: %v", ErrInvalidTrack, i, err)
		}
		if w.Speed < 0 {
			return nil, fmt.Errorf("%w: waypoint %d has negative speed %f", ErrInvalidTrack, i, w.Speed)
		}

		if i > 0 {
			prev := t.waypoints[i-1]
			if !w.Time.After(prev.Time) {
				return nil, fmt.Errorf("%w: waypoint %d at %s is not after %s", ErrInvalidTrack, i, w.Time, prev.Time)
			}
			if w.Distance < prev.Distance {
				return nil, fmt.Errorf("%w: waypoint %d distance %f decreases from %f", ErrInvalidTrack, i, w.Distance, prev.Distance)
			}
		} else if w.Distance < 0 {
			return nil, fmt.Errorf("%w: waypoint 0 has negative distance", ErrInvalidTrack)
		}

		if len(t.legs) > 0 && t.legs[len(t.legs)-1].name == w.Leg {
			t.legs[len(t.legs)-1].last = i
		} else {
			if seen[w.Leg] {
				return nil, fmt.Errorf("%w: leg '%s' is not contiguous at waypoint %d", ErrInvalidTrack, w.Leg, i)
			}
			seen[w.Leg] = true
			color, ok := colors[w.Leg]
			if !ok || color == "" {
				color = palette[len(t.legs)%len(palette)]
			}
			t.legs = append(t.legs, legRange{name: w.Leg, color: color, first: i, last: i})
		}
		w.Color = t.legs[len(t.legs)-1].color
	}

	keys := make(map[string]bool)
	for _, e := range events {
		if e.Key == "" {
			return nil, fmt.Errorf("%w: event '%s' has no key", ErrInvalidTrack, e.Name)
		}
		if keys[e.Key] {
			return nil, fmt.Errorf("%w: duplicate event key '%s'", ErrInvalidTrack, e.Key)
		}
		if e.Index < 0 || e.Index >= len(t.waypoints) {
			return nil, fmt.Errorf("%w: event '%s' references unknown waypoint %d", ErrInvalidTrack, e.Key, e.Index)
		}
		keys[e.Key] = true
		t.events = append(t.events, e)
	}

	return t, nil
}

func (t *Track) Len() int {
	return len(t.waypoints)
}

// Waypoints returns a copy of the waypoint sequence
func (t *Track) Waypoints() []Waypoint {
	res := make([]Waypoint, len(t.waypoints))
	copy(res, t.waypoints)
	return res
}

func (t *Track) At(index int) (Waypoint, bool) {
	if index < 0 || index >= len(t.waypoints) {
		return Waypoint{}, false
	}
	return t.waypoints[index], true
}

func (t *Track) Events() []Event {
	res := make([]Event, len(t.events))
	copy(res, t.events)
	return res
}

func (t *Track) LegNames() []string {
	names := make([]string, len(t.legs))
	for i, l := range t.legs {
		names[i] = l.name
	}
	return names
}

func (t *Track) HasLeg(name string) bool {
	for _, l := range t.legs {
		if l.name == name {
			return true
		}
	}
	return false
}

// LegStatistics measures each leg from its departure point, the last
// waypoint of the previous leg, so that leg distances add up to the voyage.
func (t *Track) LegStatistics() ([]Leg, error) {
	if len(t.waypoints) == 0 {
		return nil, ErrEmptyDataset
	}

	res := make([]Leg, 0, len(t.legs))
	for _, l := range t.legs {
		departure := l.first
		if departure > 0 {
			departure--
		}
		from := t.waypoints[departure]
		to := t.waypoints[l.last]

		leg := Leg{
			Name:          l.name,
			Color:         l.color,
			First:         l.first,
			Last:          l.last,
			Departure:     departure,
			DepartureTime: from.Time,
			Start:         t.waypoints[l.first].Time,
			End:           to.Time,
			Distance:      to.Distance - from.Distance,
			Duration:      to.Time.Sub(from.Time),
			Waypoints:     l.last - l.first + 1,
		}
		leg.AverageSpeed = knots(leg.Distance, leg.Duration)
		res = append(res, leg)
	}
	return res, nil
}

func (t *Track) Totals() (Totals, error) {
	if len(t.waypoints) == 0 {
		return Totals{}, ErrEmptyDataset
	}

	first := t.waypoints[0]
	last := t.waypoints[len(t.waypoints)-1]

	totals := Totals{
		Distance:  last.Distance - first.Distance,
		Duration:  last.Time.Sub(first.Time),
		Waypoints: len(t.waypoints),
		Legs:      len(t.legs),
	}
	totals.AverageSpeed = knots(totals.Distance, totals.Duration)
	for _, w := range t.waypoints {
		if w.Speed > totals.MaxSpeed {
			totals.MaxSpeed = w.Speed
		}
	}
	return totals, nil
}
