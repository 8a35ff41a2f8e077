package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/voyage-log/api/model"
	"github.com/a-bouts/voyage-log/latlon"
	"github.com/a-bouts/voyage-log/match"
	"github.com/a-bouts/voyage-log/photo"
	"github.com/a-bouts/voyage-log/session"
	"github.com/a-bouts/voyage-log/track"
)

type fixedLocation struct {
	location *latlon.LatLon
}

func (f fixedLocation) ReadLocation([]byte) (latlon.LatLon, error) {
	if f.location == nil {
		return latlon.LatLon{}, photo.ErrMetadataExtractionFailed
	}
	return *f.location, nil
}

func newTrack(t *testing.T, n int) *track.Track {
	t.Helper()

	start := time.Date(2023, 6, 1, 6, 0, 0, 0, time.UTC)
	var waypoints []track.Waypoint
	for i := 0; i < n; i++ {
		leg := "Setting Out"
		if i >= 4 {
			leg = "Gulf"
		}
		waypoints = append(waypoints, track.Waypoint{
			LatLon:   latlon.LatLon{Lat: -12.4 + float64(i)/10, Lon: 130.8 + float64(i)/10},
			Time:     start.Add(time.Duration(i) * time.Hour),
			Speed:    6,
			Distance: float64(i) * 6,
			Leg:      leg,
		})
	}
	var events []track.Event
	if n > 3 {
		events = append(events, track.Event{Key: "dolphins", Name: "Dolphins", Index: 3})
	}
	tr, err := track.New("test", nil, waypoints, events)
	require.NoError(t, err)
	return tr
}

func newRouter(t *testing.T, reader photo.LocationReader) *mux.Router {
	t.Helper()

	tr := newTrack(t, 8)
	return InitServer(false, tr, session.NewStore(tr, reader, photo.Options{MaxWidth: 64}, time.Hour))
}

func do(t *testing.T, router http.Handler, method, url, sessionID string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newRouter(t, fixedLocation{})

	rec := do(t, router, http.MethodGet, "/voyage/-/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Ok"}`, rec.Body.String())
}

func TestTrackEndpoints(t *testing.T) {
	router := newRouter(t, fixedLocation{})

	rec := do(t, router, http.MethodGet, "/voyage/api/v1/track", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tr model.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Len(t, tr.Waypoints, 8)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/legs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var legs []track.Leg
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &legs))
	require.Len(t, legs, 2)
	assert.Equal(t, 18.0, legs[0].Distance)
	assert.Equal(t, 24.0, legs[1].Distance)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/top-speed?window=6h", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var top model.TopSpeed
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	assert.True(t, top.Found)
	assert.Equal(t, 6.0, top.Best.AverageSpeed)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/top-speed?window=12h", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	assert.False(t, top.Found)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/top-speed?window=fast", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/track.geojson", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FeatureCollection")
}

func TestNearest(t *testing.T) {
	router := newRouter(t, fixedLocation{})

	rec := do(t, router, http.MethodGet, "/voyage/api/v1/nearest/-12.2/131.0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res match.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Waypoint.Index)
	assert.InDelta(t, 0, res.Distance, 1e-6)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/nearest/95/0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/nearest/north/0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTogglesAndOverlays(t *testing.T) {
	router := newRouter(t, fixedLocation{})

	rec := do(t, router, http.MethodGet, "/voyage/api/v1/overlays", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, id)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/voyage/api/v1/toggles/dolphins/true", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, rec.Header().Get(SessionHeader))

	rec = do(t, router, http.MethodPut, "/voyage/api/v1/toggles/whales/true", id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/overlays", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dolphins"`)
	assert.Contains(t, rec.Body.String(), `"Point"`)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/highlights", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var highlights []model.Highlight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &highlights))
	for _, h := range highlights {
		assert.Equal(t, h.Key == "dolphins", h.Visible, h.Key)
	}

	// another viewer has its own toggles
	rec = do(t, router, http.MethodGet, "/voyage/api/v1/overlays", "", nil)
	assert.NotContains(t, rec.Body.String(), `"dolphins"`)
}

func TestLegEmphasis(t *testing.T) {
	router := newRouter(t, fixedLocation{})

	rec := do(t, router, http.MethodPut, "/voyage/api/v1/legs/selected/Gulf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)
	var emphasis model.Emphasis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emphasis))
	assert.Equal(t, "Gulf", emphasis.Selected)
	assert.Equal(t, 1.0, emphasis.Weights["Gulf"])
	assert.Less(t, emphasis.Weights["Setting Out"], 1.0)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/emphasis", id, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emphasis))
	assert.Equal(t, "Gulf", emphasis.Selected)

	rec = do(t, router, http.MethodDelete, "/voyage/api/v1/legs/selected", id, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emphasis))
	assert.Equal(t, "", emphasis.Selected)
	assert.Equal(t, 1.0, emphasis.Weights["Setting Out"])

	rec = do(t, router, http.MethodPut, "/voyage/api/v1/legs/selected/Nowhere", id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 128, 64))))
	return buf.Bytes()
}

func TestPhotoFlow(t *testing.T) {
	router := newRouter(t, fixedLocation{location: &latlon.LatLon{Lat: -11.79, Lon: 131.41}})

	rec := do(t, router, http.MethodPost, "/voyage/api/v1/photos/1", "", pngBytes(t))
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)

	var status session.FlowStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, rec.Body.String(), `"confirm-match"`)
	require.NotNil(t, status.Suggestion)
	assert.Equal(t, 6, status.Suggestion.Index)

	rec = do(t, router, http.MethodPost, "/voyage/api/v1/photos/save?suggested=true", id, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var att photo.Attachment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &att))
	assert.Equal(t, 6, att.Index)
	assert.Equal(t, 64, att.Width)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/photos/6", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/photos", id, nil)
	assert.JSONEq(t, `{"indices":[6]}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/voyage/api/v1/photos/save", id, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodDelete, "/voyage/api/v1/photos/6", id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodGet, "/voyage/api/v1/photos/6", id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPhotoDecodeFailure(t *testing.T) {
	router := newRouter(t, fixedLocation{})

	rec := do(t, router, http.MethodPost, "/voyage/api/v1/photos/2", "", []byte("not a photo"))
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)
	assert.Contains(t, rec.Body.String(), `"ready-to-save"`)

	rec = do(t, router, http.MethodPost, "/voyage/api/v1/photos/save", id, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/photos/status", id, nil)
	assert.Contains(t, rec.Body.String(), `"ready-to-save"`)

	rec = do(t, router, http.MethodDelete, "/voyage/api/v1/photos/pending", id, nil)
	assert.Contains(t, rec.Body.String(), `"empty"`)

	rec = do(t, router, http.MethodPost, "/voyage/api/v1/photos/42", id, pngBytes(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadsKeepSessionAlive(t *testing.T) {
	tr := newTrack(t, 8)
	store := session.NewStore(tr, fixedLocation{}, photo.Options{MaxWidth: 64}, 100*time.Millisecond)
	router := InitServer(false, tr, store)

	rec := do(t, router, http.MethodPost, "/voyage/api/v1/photos/2", "", pngBytes(t))
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)
	rec = do(t, router, http.MethodPost, "/voyage/api/v1/photos/save", id, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	deadline := time.Now().Add(250 * time.Millisecond)
	for time.Now().Before(deadline) {
		rec = do(t, router, http.MethodGet, "/voyage/api/v1/photos", id, nil)
		require.Equal(t, id, rec.Header().Get(SessionHeader))
		rec = do(t, router, http.MethodGet, "/voyage/api/v1/overlays", id, nil)
		require.Equal(t, id, rec.Header().Get(SessionHeader))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, 0, store.Sweep())
	rec = do(t, router, http.MethodGet, "/voyage/api/v1/photos", id, nil)
	assert.Equal(t, id, rec.Header().Get(SessionHeader))
	assert.JSONEq(t, `{"indices":[2]}`, rec.Body.String())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, store.Sweep())
}

func TestToggleBuiltinWithoutGeometry(t *testing.T) {
	tr := newTrack(t, 3)
	router := InitServer(false, tr, session.NewStore(tr, fixedLocation{}, photo.Options{}, time.Hour))

	rec := do(t, router, http.MethodPut, "/voyage/api/v1/toggles/fastest-6h/true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)

	rec = do(t, router, http.MethodGet, "/voyage/api/v1/overlays", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/voyage/api/v1/toggles/dolphins/true", id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetIp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-FORWARDED-FOR", "bogus, 10.0.0.7")
	ip, err := getIp(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)
}
