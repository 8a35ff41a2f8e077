// Package photo attaches pictures to waypoints, suggesting the waypoint
// closest to where the picture was taken.
package photo

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/match"
	"github.com/a-bouts/voyage-log/track"
)

var ErrNothingToSave = errors.New("no photo ready to save")

type Options struct {
	MaxWidth int
	Quality  int
}

// Flow walks one photo from file selection to a saved attachment:
//
//	Empty -> PendingFile -> ConfirmMatch | ReadyToSave -> Saved -> Empty
//
// A Flow is not safe for concurrent use.
type Flow struct {
	track   *track.Track
	reader  LocationReader
	store   *Attachments
	options Options

	state      State
	target     int
	data       []byte
	suggestion *match.Result

	observers []func(from, to State)
}

func NewFlow(t *track.Track, reader LocationReader, store *Attachments, options Options) *Flow {
	if options.MaxWidth <= 0 {
		options.MaxWidth = DefaultMaxWidth
	}
	if options.Quality <= 0 {
		options.Quality = DefaultQuality
	}
	return &Flow{
		track:   t,
		reader:  reader,
		store:   store,
		options: options,
	}
}

func (f *Flow) OnTransition(fn func(from, to State)) {
	f.observers = append(f.observers, fn)
}

func (f *Flow) moveTo(to State) {
	from := f.state
	f.state = to
	log.Debugf("Photo flow %s -> %s (waypoint %d)", from, to, f.target)
	for _, fn := range f.observers {
		fn(from, to)
	}
}

func (f *Flow) State() State {
	return f.state
}

// Target is the waypoint the user picked before choosing a file
func (f *Flow) Target() int {
	return f.target
}

func (f *Flow) Suggestion() (match.Result, bool) {
	if f.state != ConfirmMatch || f.suggestion == nil {
		return match.Result{}, false
	}
	return *f.suggestion, true
}

// Select starts a flow for a file chosen on waypoint target, abandoning any
// unsaved selection. The location is read once; without a usable one the
// flow is ready to save on target directly.
func (f *Flow) Select(target int, data []byte) (State, error) {
	if _, ok := f.track.At(target); !ok {
		return f.state, fmt.Errorf("%w: %d", ErrUnknownWaypoint, target)
	}

	if f.state != Empty {
		f.reset()
	}

	f.target = target
	f.data = data
	f.moveTo(PendingFile)

	location, err := f.reader.ReadLocation(data)
	if err != nil {
		log.Debugf("No location for photo on waypoint %d: %v", target, err)
		f.moveTo(ReadyToSave)
		return f.state, nil
	}

	res, err := match.Nearest(f.track, location)
	if err != nil {
		log.Debugf("No match for photo taken at %s: %v", location, err)
		f.moveTo(ReadyToSave)
		return f.state, nil
	}

	f.suggestion = &res
	f.moveTo(ConfirmMatch)
	return f.state, nil
}

// Save stores the photo. In ConfirmMatch useSuggestion picks between the
// suggested waypoint and the original target; it is ignored otherwise. A
// photo that cannot be decoded leaves the flow as it was.
func (f *Flow) Save(useSuggestion bool) (Attachment, error) {
	if f.state != ConfirmMatch && f.state != ReadyToSave {
		return Attachment{}, fmt.Errorf("%w: flow is %s", ErrNothingToSave, f.state)
	}

	index := f.target
	if f.state == ConfirmMatch && useSuggestion && f.suggestion != nil {
		index = f.suggestion.Waypoint.Index
	}

	img, err := Downscale(f.data, f.options.MaxWidth, f.options.Quality)
	if err != nil {
		return Attachment{}, err
	}

	att := Attachment{
		Index:       index,
		Data:        img.Data,
		Width:       img.Width,
		Height:      img.Height,
		ContentType: "image/jpeg",
		SavedAt:     time.Now(),
	}
	if err := f.store.Put(att); err != nil {
		return Attachment{}, err
	}

	f.moveTo(Saved)
	f.reset()
	return att, nil
}

// Remove drops the pending file
func (f *Flow) Remove() {
	if f.state == Empty {
		return
	}
	f.reset()
}

func (f *Flow) reset() {
	f.data = nil
	f.suggestion = nil
	f.moveTo(Empty)
	f.target = 0
}
