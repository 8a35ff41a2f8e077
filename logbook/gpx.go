package logbook

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/a-bouts/voyage-log/latlon"
	"github.com/a-bouts/voyage-log/match"
	"github.com/a-bouts/voyage-log/track"
)

// LoadGPX builds a track from a GPX file. Each <trk> is a leg. Distances
// and speeds are derived from consecutive fixes and every <wpt> becomes an
// event on the nearest track point.
func LoadGPX(r io.Reader) (*track.Track, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing gpx: %w", err)
	}

	hav := latlon.LatLonHaversine{}

	var waypoints []track.Waypoint
	var legs []track.LegDef
	cumulative := 0.0
	for i, trk := range g.Tracks {
		name := trk.Name
		if name == "" {
			name = fmt.Sprintf("Leg %d", i+1)
		}
		legs = append(legs, track.LegDef{Name: name})

		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				w := track.Waypoint{
					LatLon: latlon.LatLon{Lat: p.Latitude, Lon: p.Longitude},
					Time:   p.Timestamp,
					Leg:    name,
				}
				if n := len(waypoints); n > 0 {
					prev := waypoints[n-1]
					d := hav.NauticalMilesTo(prev.LatLon, w.LatLon)
					cumulative += d
					if elapsed := w.Time.Sub(prev.Time); elapsed > 0 {
						w.Speed = d / elapsed.Hours()
					}
				}
				w.Distance = cumulative
				waypoints = append(waypoints, w)
			}
		}
	}

	name := g.Name
	if name == "" && len(g.Tracks) > 0 {
		name = g.Tracks[0].Name
	}

	t, err := track.New(name, legs, waypoints, nil)
	if err != nil {
		return nil, err
	}
	if len(g.Waypoints) == 0 {
		return t, nil
	}

	var events []track.Event
	keys := make(map[string]int)
	for _, wpt := range g.Waypoints {
		res, err := match.Nearest(t, latlon.LatLon{Lat: wpt.Latitude, Lon: wpt.Longitude})
		if err != nil {
			log.Warnf("Skipping waypoint '%s': %v", wpt.Name, err)
			continue
		}
		key := slug(wpt.Name)
		if key == "" {
			key = "waypoint"
		}
		keys[key]++
		if keys[key] > 1 {
			key = fmt.Sprintf("%s-%d", key, keys[key])
		}
		events = append(events, track.Event{Key: key, Name: wpt.Name, Index: res.Waypoint.Index})
	}

	return track.New(name, legs, t.Waypoints(), events)
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
