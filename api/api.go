package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/api/model"
	"github.com/a-bouts/voyage-log/latlon"
	"github.com/a-bouts/voyage-log/overlay"
	"github.com/a-bouts/voyage-log/photo"
	"github.com/a-bouts/voyage-log/session"
	"github.com/a-bouts/voyage-log/track"
)

const SessionHeader = "X-Session-ID"

const maxPhotoSize = 20 << 20

type server struct {
	cpuprofile bool
	track      *track.Track
	selector   *overlay.Selector
	sessions   *session.Store
	overlays   *cache.Cache
	profiling  sync.Mutex
}

func InitServer(cpuprofile bool, t *track.Track, sessions *session.Store) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		cpuprofile: cpuprofile,
		track:      t,
		selector:   overlay.NewSelector(t),
		sessions:   sessions,
		overlays:   cache.New(30*time.Minute, 10*time.Minute),
	}

	router.HandleFunc("/voyage/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/voyage/api/v1").Subrouter()
	apiV1.HandleFunc("/track", s.getTrack).Methods(http.MethodGet)
	apiV1.HandleFunc("/track.geojson", s.getTrackGeoJSON).Methods(http.MethodGet)
	apiV1.HandleFunc("/legs", s.getLegs).Methods(http.MethodGet)
	apiV1.HandleFunc("/totals", s.getTotals).Methods(http.MethodGet)
	apiV1.HandleFunc("/top-speed", s.getTopSpeed).Methods(http.MethodGet)
	apiV1.HandleFunc("/nearest/{lat}/{lon}", s.getNearest).Methods(http.MethodGet)
	apiV1.HandleFunc("/night-watch", s.getNightWatch).Methods(http.MethodGet)

	apiV1.HandleFunc("/highlights", s.getHighlights).Methods(http.MethodGet)
	apiV1.HandleFunc("/toggles/{key}/{visible}", s.putToggle).Methods(http.MethodPut)
	apiV1.HandleFunc("/overlays", s.getOverlays).Methods(http.MethodGet)
	apiV1.HandleFunc("/legs/selected/{leg}", s.selectLeg).Methods(http.MethodPut)
	apiV1.HandleFunc("/legs/selected", s.clearLeg).Methods(http.MethodDelete)
	apiV1.HandleFunc("/emphasis", s.getEmphasis).Methods(http.MethodGet)

	apiV1.HandleFunc("/photos", s.getPhotos).Methods(http.MethodGet)
	apiV1.HandleFunc("/photos/status", s.getPhotoStatus).Methods(http.MethodGet)
	apiV1.HandleFunc("/photos/save", s.savePhoto).Methods(http.MethodPost)
	apiV1.HandleFunc("/photos/pending", s.discardPhoto).Methods(http.MethodDelete)
	apiV1.HandleFunc("/photos/{index:[0-9]+}", s.selectPhoto).Methods(http.MethodPost)
	apiV1.HandleFunc("/photos/{index:[0-9]+}", s.getPhoto).Methods(http.MethodGet)
	apiV1.HandleFunc("/photos/{index:[0-9]+}", s.removePhoto).Methods(http.MethodDelete)

	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, latlon.ErrInvalidCoordinate):
		status = http.StatusBadRequest
	case errors.Is(err, photo.ErrUnknownWaypoint), errors.Is(err, session.ErrUnknownLeg):
		status = http.StatusNotFound
	case errors.Is(err, photo.ErrNothingToSave):
		status = http.StatusConflict
	case errors.Is(err, photo.ErrImageDecodeFailed):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, model.Error{Error: err.Error()})
}

func requestLogger(action string, req *http.Request) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

// session returns the viewer's session, creating one when the header is
// missing or stale, and echoes its id back.
func (s *server) session(w http.ResponseWriter, req *http.Request) *session.Session {
	sess := s.sessions.GetOrCreate(req.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID)
	return sess
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}

func (s *server) profile() func() {
	// only one profile may run at a time
	if !s.cpuprofile || !s.profiling.TryLock() {
		return func() {}
	}
	p := profile.Start(profile.Quiet)
	return func() {
		p.Stop()
		s.profiling.Unlock()
	}
}
