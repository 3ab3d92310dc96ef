package likes

import (
	"context"
	"sync"
	"time"

	"soundfolio/logger"
	"soundfolio/model"
)

// Notifier delivers a like notification to the server. client.Client
// satisfies this.
type Notifier interface {
	SendLike(ctx context.Context, songID, songTitle string) error
}

// Manager applies like toggles optimistically: membership flips and
// persists immediately, then a best-effort notification goes out. Only a
// confirmed delivery failure rolls the flip back, and only if the current
// membership still equals the value this toggle set — a rollback never
// undoes a later toggle.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	notifier Notifier
	timeout  time.Duration
	inflight sync.WaitGroup
}

// NewManager wires the liked-set store to a notifier.
func NewManager(store *Store, notifier Notifier) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		timeout:  15 * time.Second,
	}
}

// Toggle flips the liked state of the track and returns the new state.
// The local set reflects the toggle before the notification is sent.
func (m *Manager) Toggle(track *model.Track) bool {
	id := track.ExternalID

	m.mu.Lock()
	liked := !m.store.Contains(id)
	if err := m.store.SetMembership(id, liked); err != nil {
		logger.Error("Failed to persist like set", logger.String("trackId", id), logger.ErrorField(err))
	}
	m.mu.Unlock()

	m.inflight.Add(1)
	go m.notify(track, liked)

	return liked
}

// IsLiked reports whether the track is currently liked.
func (m *Manager) IsLiked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Contains(id)
}

// Liked returns the liked IDs in stable order.
func (m *Manager) Liked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.List()
}

// Wait blocks until all in-flight notifications have settled. Used on
// shutdown and in tests.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// notify sends the notification and rolls back on confirmed failure.
func (m *Manager) notify(track *model.Track, liked bool) {
	defer m.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.notifier.SendLike(ctx, track.ExternalID, track.Title)
	if err == nil {
		return
	}

	logger.Warn("Like notification failed, rolling back",
		logger.String("trackId", track.ExternalID),
		logger.ErrorField(err))

	m.mu.Lock()
	defer m.mu.Unlock()
	// Compare-and-revert: only undo the membership value this toggle
	// introduced. A newer toggle has already changed it; leave that alone.
	if m.store.Contains(track.ExternalID) != liked {
		return
	}
	if err := m.store.SetMembership(track.ExternalID, !liked); err != nil {
		logger.Error("Failed to persist like rollback",
			logger.String("trackId", track.ExternalID),
			logger.ErrorField(err))
	}
}
