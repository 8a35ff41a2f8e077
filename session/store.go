package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/photo"
	"github.com/a-bouts/voyage-log/track"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrUnknownLeg     = errors.New("unknown leg")
)

// Store keeps the sessions of every viewer in memory until they go idle
type Store struct {
	track    *track.Track
	reader   photo.LocationReader
	options  photo.Options
	ttl      time.Duration
	sessions map[string]*Session
	hooks    []func(Event)
	lock     sync.RWMutex
}

func NewStore(t *track.Track, reader photo.LocationReader, options photo.Options, ttl time.Duration) *Store {
	return &Store{
		track:    t,
		reader:   reader,
		options:  options,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Subscribe registers fn on every session created from now on
func (s *Store) Subscribe(fn func(Event)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.hooks = append(s.hooks, fn)
}

func (s *Store) Create() *Session {
	s.lock.Lock()
	defer s.lock.Unlock()

	sess := New(uuid.NewString(), s.track, s.reader, s.options)
	for _, fn := range s.hooks {
		sess.Subscribe(fn)
	}
	s.sessions[sess.ID] = sess

	log.Infof("New session %s (%d active)", sess.ID, len(s.sessions))
	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	sess.Touch()
	return sess, nil
}

// GetOrCreate returns the session id, or a new one when id is unknown
func (s *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess
		}
	}
	return s.Create()
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.sessions)
}

// Sweep drops the sessions idle for longer than the ttl
func (s *Store) Sweep() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := time.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Infof("Swept %d idle sessions (%d active)", removed, len(s.sessions))
	}
	return removed
}

// StartSweeper runs Sweep every interval until the returned channel is closed
func (s *Store) StartSweeper(interval time.Duration) chan bool {
	seconds := uint64(interval.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	sc := gocron.NewScheduler()
	sc.Every(seconds).Seconds().Do(s.Sweep)

	return sc.Start()
}
