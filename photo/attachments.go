package photo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var ErrUnknownWaypoint = errors.New("unknown waypoint")

type Attachment struct {
	Index       int       `json:"index"`
	Data        []byte    `json:"-"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	ContentType string    `json:"contentType"`
	SavedAt     time.Time `json:"savedAt"`
}

// Attachments holds at most one photo per waypoint of a track of size
// waypoints. A new photo for the same waypoint replaces the previous one.
type Attachments struct {
	lock      sync.RWMutex
	waypoints int
	photos    map[int]Attachment
}

func NewAttachments(waypoints int) *Attachments {
	return &Attachments{
		waypoints: waypoints,
		photos:    make(map[int]Attachment),
	}
}

func (a *Attachments) check(index int) error {
	if index < 0 || index >= a.waypoints {
		return fmt.Errorf("%w: %d", ErrUnknownWaypoint, index)
	}
	return nil
}

func (a *Attachments) Put(att Attachment) error {
	if err := a.check(att.Index); err != nil {
		return err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.photos[att.Index] = att
	return nil
}

func (a *Attachments) Get(index int) (Attachment, bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	att, ok := a.photos[index]
	return att, ok
}

func (a *Attachments) Delete(index int) bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	_, ok := a.photos[index]
	delete(a.photos, index)
	return ok
}

// Indices returns the waypoints having a photo, in ascending order
func (a *Attachments) Indices() []int {
	a.lock.RLock()
	defer a.lock.RUnlock()

	res := make([]int, 0, len(a.photos))
	for i := range a.photos {
		res = append(res, i)
	}
	sort.Ints(res)
	return res
}

func (a *Attachments) Len() int {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return len(a.photos)
}
