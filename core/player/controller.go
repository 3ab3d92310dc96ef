// Package player owns playback state for the gallery: which track is
// active, transport state, progress and volume. It drives an abstract
// AudioResource so the state machine runs the same against any backend.
package player

import (
	"errors"
	"fmt"
	"sync"

	"soundfolio/logger"
	"soundfolio/model"
)

// State is the playback transport state.
type State int

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// ErrPlaybackStart indicates the backend refused to start playback
// (autoplay policy, decode failure). Expected and non-fatal: the track
// stays selected in Paused state awaiting a user-initiated play.
var ErrPlaybackStart = errors.New("playback start failed")

// Session is a snapshot of the playback state for rendering.
type Session struct {
	ActiveTrack *model.Track
	State       State
	Progress    float64 // fraction in [0, 1]
	Volume      int     // [0, 100]
	Muted       bool
}

// Controller is the playback state machine. At most one audio resource is
// open at a time; selecting a new track tears the previous one down before
// the new load begins. Every selection gets a fresh generation number, and
// completions and position ticks carry the generation of the load that
// produced them: anything from a superseded load is discarded, even when
// the same track is re-selected.
type Controller struct {
	mu      sync.Mutex
	factory ResourceFactory
	onError func(error)

	gen      uint64
	res      AudioResource
	active   *model.Track
	state    State
	progress float64
	volume   int
	muted    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithErrorFunc installs a reporter for non-fatal playback conditions.
// The reporter must not call back into the controller.
func WithErrorFunc(fn func(error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// NewController creates a stopped controller with volume 80.
func NewController(factory ResourceFactory, opts ...Option) *Controller {
	c := &Controller{
		factory: factory,
		state:   Stopped,
		volume:  80,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectTrack makes t the active track. Any existing resource is closed
// first, then a new one is opened and autoplay is attempted. Autoplay
// rejection leaves the track Paused and reports ErrPlaybackStart.
func (c *Controller) SelectTrack(t *model.Track) {
	c.mu.Lock()
	if c.res != nil {
		if err := c.res.Close(); err != nil {
			logger.Warn("Failed to close audio resource", logger.ErrorField(err))
		}
		c.res = nil
	}

	c.active = t
	c.state = Loading
	c.progress = 0

	c.gen++
	gen := c.gen
	id := t.ExternalID
	res := c.factory(func(position, duration float64) {
		c.handlePosition(gen, position, duration)
	})
	c.res = res
	vol := c.effectiveVolume()
	url := t.MediaURL
	c.mu.Unlock()

	go func() {
		if err := res.Open(url); err != nil {
			c.finishLoad(gen, id, err)
			return
		}
		res.SetVolume(vol)
		c.finishLoad(gen, id, res.Play())
	}()
}

// finishLoad applies the outcome of an asynchronous open+play. Completions
// belonging to a superseded load are dropped.
func (c *Controller) finishLoad(gen uint64, id string, err error) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}

	var report error
	if err != nil {
		c.state = Paused
		report = fmt.Errorf("%w: %v", ErrPlaybackStart, err)
	} else {
		c.state = Playing
	}
	onError := c.onError
	c.mu.Unlock()

	if report != nil {
		logger.Warn("Playback did not start", logger.String("trackId", id), logger.ErrorField(report))
		if onError != nil {
			onError(report)
		}
	}
}

// handlePosition is the periodic position callback. Ticks from a
// superseded load never touch progress, even if the re-selected track is
// the same one.
func (c *Controller) handlePosition(gen uint64, position, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if duration <= 0 {
		return
	}
	p := position / duration
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	c.progress = p
}

// TogglePlayPause flips between Playing and Paused. Play failures are
// logged and leave the state Paused; other states are unaffected.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	res := c.res
	switch {
	case c.state == Playing && res != nil:
		c.state = Paused
		c.mu.Unlock()
		if err := res.Pause(); err != nil {
			logger.Warn("Failed to pause playback", logger.ErrorField(err))
		}
	case c.state == Paused && res != nil && c.active != nil:
		id := c.active.ExternalID
		c.mu.Unlock()
		err := res.Play()
		c.mu.Lock()
		if c.res == res && c.active != nil && c.active.ExternalID == id {
			if err != nil {
				c.state = Paused
				logger.Warn("Failed to resume playback", logger.ErrorField(err))
			} else {
				c.state = Playing
			}
		}
		c.mu.Unlock()
	default:
		c.mu.Unlock()
	}
}

// Seek jumps to the given fraction of the track. Progress reflects the
// seek immediately rather than waiting for the next position tick, so the
// UI never snaps back. Transport state is unchanged.
func (c *Controller) Seek(fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.res == nil || c.active == nil {
		return
	}
	if err := c.res.SeekTo(fraction * c.res.Duration()); err != nil {
		logger.Warn("Failed to seek", logger.ErrorField(err))
		return
	}
	c.progress = fraction
}

// SetVolume sets the volume level in [0, 100]. Zero implies muted; any
// positive level unmutes.
func (c *Controller) SetVolume(level int) {
	if level < 0 {
		level = 0
	} else if level > 100 {
		level = 100
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = level
	c.muted = level == 0
	c.applyVolume()
}

// ToggleMute flips muted without altering the stored volume level.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = !c.muted
	c.applyVolume()
}

// Close releases the audio resource and returns to Stopped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.res != nil {
		if err := c.res.Close(); err != nil {
			logger.Warn("Failed to close audio resource", logger.ErrorField(err))
		}
		c.res = nil
	}
	c.active = nil
	c.state = Stopped
	c.progress = 0
}

// Snapshot returns a copy of the current playback session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Session{
		ActiveTrack: c.active,
		State:       c.state,
		Progress:    c.progress,
		Volume:      c.volume,
		Muted:       c.muted,
	}
}

// applyVolume pushes the effective output volume to the resource.
// Caller holds the lock.
func (c *Controller) applyVolume() {
	if c.res != nil {
		c.res.SetVolume(c.effectiveVolume())
	}
}

// effectiveVolume is muted ? 0 : volume/100. Caller holds the lock.
func (c *Controller) effectiveVolume() float64 {
	if c.muted {
		return 0
	}
	return float64(c.volume) / 100
}
