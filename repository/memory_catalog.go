package repository

import (
	"context"
	"sort"
	"sync"

	"soundfolio/model"
)

// MemoryCatalogStore is an in-memory CatalogStore. It backs tests and local
// development runs where no MySQL instance is available.
type MemoryCatalogStore struct {
	mu     sync.RWMutex
	byID   map[string]model.Track
	failed bool
}

// NewMemoryCatalogStore creates an empty in-memory store.
func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{byID: make(map[string]model.Track)}
}

// SetUnavailable makes every subsequent operation fail with
// ErrStoreUnavailable. Used by tests to simulate an unreachable store.
func (s *MemoryCatalogStore) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = unavailable
}

func (s *MemoryCatalogStore) UpsertTrack(_ context.Context, track *model.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return ErrStoreUnavailable
	}
	s.byID[track.ExternalID] = *track
	return nil
}

func (s *MemoryCatalogStore) ListTracks(_ context.Context) ([]*model.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failed {
		return nil, ErrStoreUnavailable
	}
	tracks := make([]*model.Track, 0, len(s.byID))
	for id := range s.byID {
		t := s.byID[id]
		tracks = append(tracks, &t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].UploadedAt.Equal(tracks[j].UploadedAt) {
			return tracks[i].ExternalID < tracks[j].ExternalID
		}
		return tracks[i].UploadedAt.After(tracks[j].UploadedAt)
	})
	return tracks, nil
}
