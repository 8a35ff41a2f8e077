package api

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"

	"github.com/a-bouts/voyage-log/api/model"
	"github.com/a-bouts/voyage-log/overlay"
	"github.com/a-bouts/voyage-log/session"
)

func (s *server) getHighlights(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)
	toggles := sess.Toggles()

	var res []model.Highlight
	for _, key := range s.selector.Keys() {
		res = append(res, model.Highlight{Key: key, Visible: toggles[key]})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) putToggle(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	key := overlay.HighlightKey(mux.Vars(req)["key"])
	if !s.selector.Known(key) {
		writeJSON(w, http.StatusNotFound, model.Error{Error: fmt.Sprintf("unknown highlight '%s'", key)})
		return
	}
	visible, err := strconv.ParseBool(mux.Vars(req)["visible"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sess.SetToggle(key, visible)
	writeJSON(w, http.StatusOK, model.Highlight{Key: key, Visible: visible})
}

func (s *server) getOverlays(w http.ResponseWriter, req *http.Request) {
	defer s.profile()()

	sess := s.session(w, req)
	toggles := sess.Toggles()

	k := toggles.Key()
	if data, found := s.overlays.Get(k); found {
		writeJSON(w, http.StatusOK, data)
		return
	}

	fc := overlay.FeatureCollection(s.selector.ActiveOverlayLayers(toggles))
	s.overlays.Set(k, fc, cache.DefaultExpiration)
	writeJSON(w, http.StatusOK, fc)
}

func (s *server) selectLeg(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	if err := sess.SelectLeg(mux.Vars(req)["leg"]); err != nil {
		writeError(w, err)
		return
	}
	s.writeEmphasis(w, sess)
}

func (s *server) clearLeg(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	sess.SelectLeg("")
	s.writeEmphasis(w, sess)
}

func (s *server) getEmphasis(w http.ResponseWriter, req *http.Request) {
	s.writeEmphasis(w, s.session(w, req))
}

func (s *server) writeEmphasis(w http.ResponseWriter, sess *session.Session) {
	leg := sess.SelectedLeg()
	writeJSON(w, http.StatusOK, model.Emphasis{Selected: leg, Weights: s.selector.LegEmphasis(leg)})
}

func pathIndex(req *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(req)["index"])
}

func (s *server) getPhotos(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)
	writeJSON(w, http.StatusOK, model.Photos{Indices: sess.Photos()})
}

func (s *server) getPhotoStatus(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)
	writeJSON(w, http.StatusOK, sess.PhotoStatus())
}

func (s *server) selectPhoto(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	index, err := pathIndex(req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	data, err := ioutil.ReadAll(http.MaxBytesReader(w, req.Body, maxPhotoSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, model.Error{Error: err.Error()})
		return
	}

	status, err := sess.SelectPhoto(index, data)
	if err != nil {
		writeError(w, err)
		return
	}

	requestLogger("photo", req).Infof("Photo of %d bytes on waypoint %d : %s", len(data), index, status.State)
	writeJSON(w, http.StatusOK, status)
}

func (s *server) savePhoto(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	useSuggestion := false
	if v := req.URL.Query().Get("suggested"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		useSuggestion = b
	}

	att, err := sess.SavePhoto(useSuggestion)
	if err != nil {
		requestLogger("photo", req).Warnf("Photo not saved : %v", err)
		writeError(w, err)
		return
	}

	requestLogger("photo", req).Infof("Photo saved on waypoint %d (%dx%d, %d bytes)", att.Index, att.Width, att.Height, len(att.Data))
	writeJSON(w, http.StatusCreated, att)
}

func (s *server) discardPhoto(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	sess.DiscardPhoto()
	writeJSON(w, http.StatusOK, sess.PhotoStatus())
}

func (s *server) getPhoto(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	index, err := pathIndex(req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	att, ok := sess.Photo(index)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(att.Data)))
	w.Write(att.Data)
}

func (s *server) removePhoto(w http.ResponseWriter, req *http.Request) {
	sess := s.session(w, req)

	index, err := pathIndex(req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !sess.RemovePhoto(index) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
