// Package session holds the state of one viewer of the voyage log: the
// highlight toggles, the selected leg and the photos attached so far.
package session

import (
	"sync"
	"time"

	"github.com/a-bouts/voyage-log/overlay"
	"github.com/a-bouts/voyage-log/photo"
	"github.com/a-bouts/voyage-log/track"
)

type EventType string

const (
	ToggleChanged EventType = "toggle-changed"
	LegSelected   EventType = "leg-selected"
	PhotoSaved    EventType = "photo-saved"
	PhotoRemoved  EventType = "photo-removed"
)

type Event struct {
	Session string
	Type    EventType
	Key     overlay.HighlightKey
	Visible bool
	Leg     string
	Index   int
}

type Session struct {
	ID string

	lock        sync.Mutex
	track       *track.Track
	toggles     overlay.Toggles
	leg         string
	attachments *photo.Attachments
	flow        *photo.Flow
	lastSeen    time.Time
	subscribers []func(Event)
}

func New(id string, t *track.Track, reader photo.LocationReader, options photo.Options) *Session {
	attachments := photo.NewAttachments(t.Len())
	return &Session{
		ID:          id,
		track:       t,
		toggles:     overlay.Toggles{},
		attachments: attachments,
		flow:        photo.NewFlow(t, reader, attachments, options),
		lastSeen:    time.Now(),
	}
}

// Subscribe registers fn to be called after every mutation
func (s *Session) Subscribe(fn func(Event)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) notify(e Event) {
	e.Session = s.ID
	for _, fn := range s.subscribers {
		fn(e)
	}
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// Touch marks the session as seen, reads count as activity
func (s *Session) Touch() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
}

func (s *Session) LastSeen() time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.lastSeen
}

func (s *Session) Toggles() overlay.Toggles {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.toggles.Clone()
}

func (s *Session) SetToggle(key overlay.HighlightKey, visible bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
	if s.toggles[key] == visible {
		return
	}
	s.toggles[key] = visible
	s.notify(Event{Type: ToggleChanged, Key: key, Visible: visible})
}

func (s *Session) SelectedLeg() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.leg
}

// SelectLeg emphasises one leg, the empty name clears the selection
func (s *Session) SelectLeg(name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
	if name != "" && !s.track.HasLeg(name) {
		return ErrUnknownLeg
	}
	if s.leg == name {
		return nil
	}
	s.leg = name
	s.notify(Event{Type: LegSelected, Leg: name})
	return nil
}

type FlowStatus struct {
	State      photo.State `json:"state"`
	Target     int         `json:"target"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

type Suggestion struct {
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
}

func (s *Session) status() FlowStatus {
	st := FlowStatus{State: s.flow.State(), Target: s.flow.Target()}
	if res, ok := s.flow.Suggestion(); ok {
		st.Suggestion = &Suggestion{Index: res.Waypoint.Index, Distance: res.Distance}
	}
	return st
}

func (s *Session) PhotoStatus() FlowStatus {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.status()
}

func (s *Session) SelectPhoto(target int, data []byte) (FlowStatus, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
	if _, err := s.flow.Select(target, data); err != nil {
		return s.status(), err
	}
	return s.status(), nil
}

func (s *Session) SavePhoto(useSuggestion bool) (photo.Attachment, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
	att, err := s.flow.Save(useSuggestion)
	if err != nil {
		return att, err
	}
	s.notify(Event{Type: PhotoSaved, Index: att.Index})
	return att, nil
}

func (s *Session) DiscardPhoto() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
	s.flow.Remove()
}

func (s *Session) Photo(index int) (photo.Attachment, bool) {
	return s.attachments.Get(index)
}

func (s *Session) Photos() []int {
	return s.attachments.Indices()
}

func (s *Session) RemovePhoto(index int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.touch()
	if !s.attachments.Delete(index) {
		return false
	}
	s.notify(Event{Type: PhotoRemoved, Index: index})
	return true
}
