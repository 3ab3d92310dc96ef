package gallery

import (
	"context"
	"sync"

	"soundfolio/logger"
	"soundfolio/model"
)

// CatalogSource fetches the current catalog, newest first.
type CatalogSource interface {
	FetchTracks(ctx context.Context) ([]*model.Track, error)
}

// TrackPlayer receives track selections from the gallery.
type TrackPlayer interface {
	SelectTrack(t *model.Track)
}

// LikeToggler receives like interactions from the gallery.
type LikeToggler interface {
	Toggle(t *model.Track) bool
	IsLiked(id string) bool
}

// PresentationState gates what the gallery may render.
type PresentationState int

const (
	StateLoading PresentationState = iota
	StateError
	StateReady
)

func (s PresentationState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DisplayTrack is a catalog entry decorated with its assigned cover.
// The assignment is positional and only stable within one fetch cycle.
type DisplayTrack struct {
	*model.Track
	CoverAssetRef string
}

// Adapter wires the catalog source, player and like manager together
// behind a single presentation surface.
type Adapter struct {
	mu      sync.RWMutex
	source  CatalogSource
	player  TrackPlayer
	likes   LikeToggler
	covers  *CoverSet
	state   PresentationState
	errMsg  string
	tracks  []DisplayTrack
	fetched bool
}

func NewAdapter(source CatalogSource, player TrackPlayer, likes LikeToggler, covers *CoverSet) *Adapter {
	return &Adapter{
		source: source,
		player: player,
		likes:  likes,
		covers: covers,
		state:  StateLoading,
	}
}

// Activate fetches the catalog exactly once and assigns covers by
// position. Repeat calls are no-ops; the first result stands for the
// session.
func (a *Adapter) Activate(ctx context.Context) {
	a.mu.Lock()
	if a.fetched {
		a.mu.Unlock()
		return
	}
	a.fetched = true
	a.state = StateLoading
	a.mu.Unlock()

	tracks, err := a.source.FetchTracks(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = StateError
		a.errMsg = "Failed to load songs. Please try again later."
		logger.Error("catalog fetch failed", logger.ErrorField(err))
		return
	}

	display := make([]DisplayTrack, len(tracks))
	for i, t := range tracks {
		display[i] = DisplayTrack{Track: t, CoverAssetRef: a.covers.Assign(i)}
	}
	a.tracks = display
	a.state = StateReady
	logger.Info("gallery ready", logger.Int("tracks", len(display)))
}

// State reports the current presentation state and, in the error
// state, a user-facing message.
func (a *Adapter) State() (PresentationState, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state, a.errMsg
}

// Tracks returns the display sequence. It is nil unless the adapter
// is ready; callers must not render outside the ready state.
func (a *Adapter) Tracks() []DisplayTrack {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state != StateReady {
		return nil
	}
	out := make([]DisplayTrack, len(a.tracks))
	copy(out, a.tracks)
	return out
}

// OnTrackSelected hands a selection to the playback controller.
func (a *Adapter) OnTrackSelected(t *DisplayTrack) {
	a.player.SelectTrack(t.Track)
}

// OnLikeToggled hands a like interaction to the like manager and
// reports the optimistic new state.
func (a *Adapter) OnLikeToggled(t *DisplayTrack) bool {
	return a.likes.Toggle(t.Track)
}

// IsLiked reports the current liked state for badge rendering.
func (a *Adapter) IsLiked(id string) bool {
	return a.likes.IsLiked(id)
}
