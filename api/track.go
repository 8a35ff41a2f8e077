package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/api/model"
	"github.com/a-bouts/voyage-log/latlon"
	"github.com/a-bouts/voyage-log/match"
	"github.com/a-bouts/voyage-log/overlay"
)

func (s *server) getTrack(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, model.Track{
		Name:      s.track.Name,
		Waypoints: s.track.Waypoints(),
		Events:    s.track.Events(),
	})
}

func (s *server) getTrackGeoJSON(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, overlay.TrackCollection(s.track))
}

func (s *server) getLegs(w http.ResponseWriter, req *http.Request) {
	legs, err := s.track.LegStatistics()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, legs)
}

func (s *server) getTotals(w http.ResponseWriter, req *http.Request) {
	totals, err := s.track.Totals()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *server) getTopSpeed(w http.ResponseWriter, req *http.Request) {
	defer s.profile()()

	window := time.Hour
	if v := req.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeJSON(w, http.StatusBadRequest, model.Error{Error: "invalid window '" + v + "'"})
			return
		}
		window = d
	}

	start := time.Now()
	best, ok, err := s.track.TopSpeedWindow(window)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Debugf("Top speed over %s took %s", window, time.Since(start))

	res := model.TopSpeed{Window: window.String(), Found: ok}
	if ok {
		res.Best = &best
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) getNearest(w http.ResponseWriter, req *http.Request) {
	lat, err := strconv.ParseFloat(mux.Vars(req)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(req)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := match.Nearest(s.track, latlon.LatLon{Lat: lat, Lon: lon})
	if err != nil {
		writeError(w, err)
		return
	}

	requestLogger("nearest", req).Infof("Nearest (%f,%f) : waypoint %d at %.2f nm", lat, lon, res.Waypoint.Index, res.Distance)
	writeJSON(w, http.StatusOK, res)
}

func (s *server) getNightWatch(w http.ResponseWriter, req *http.Request) {
	segments := overlay.NightWatchSegments(s.track)
	writeJSON(w, http.StatusOK, segments)
}
