package overlay

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/a-bouts/voyage-log/track"
)

func lineString(waypoints []track.Waypoint) orb.LineString {
	ls := make(orb.LineString, len(waypoints))
	for i, w := range waypoints {
		ls[i] = orb.Point{w.Lon, w.Lat}
	}
	return ls
}

// FeatureCollection renders layers for the map: one LineString per
// segment and one Point per marker.
func FeatureCollection(layers []Layer) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, l := range layers {
		switch l.Kind {
		case KindSegments:
			for i, seg := range l.Segments {
				f := geojson.NewFeature(lineString(seg))
				f.Properties["key"] = string(l.Key)
				f.Properties["kind"] = string(l.Kind)
				f.Properties["label"] = l.Label
				f.Properties["segment"] = i
				f.Properties["from"] = seg[0].Index
				f.Properties["to"] = seg[len(seg)-1].Index
				if l.Speed > 0 {
					f.Properties["speed"] = l.Speed
				}
				fc.Append(f)
			}
		case KindMarker:
			if l.Marker == nil {
				continue
			}
			f := geojson.NewFeature(orb.Point{l.Marker.Lon, l.Marker.Lat})
			f.Properties["key"] = string(l.Key)
			f.Properties["kind"] = string(l.Kind)
			f.Properties["label"] = l.Label
			f.Properties["index"] = l.Marker.Index
			fc.Append(f)
		}
	}

	return fc
}

// TrackCollection renders the whole voyage, one LineString per leg
func TrackCollection(t *track.Track) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	ws := t.Waypoints()
	start := 0
	for i := 1; i <= len(ws); i++ {
		if i < len(ws) && ws[i].Leg == ws[start].Leg {
			continue
		}
		// join the leg to its departure point
		from := start
		if from > 0 {
			from--
		}
		f := geojson.NewFeature(lineString(ws[from:i]))
		f.Properties["leg"] = ws[start].Leg
		f.Properties["color"] = ws[start].Color
		fc.Append(f)
		start = i
	}

	return fc
}
