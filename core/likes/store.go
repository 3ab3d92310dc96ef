// Package likes owns the client-local liked-track set and its
// reconciliation with the server's like-notification endpoint.
package likes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Store persists the liked set as a JSON list of external track IDs under
// a fixed path, written on every change and reloaded at session start.
type Store struct {
	path string
	ids  map[string]struct{}
}

// OpenStore loads the liked set from path, starting empty if the file does
// not exist yet.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, ids: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read like set: %w", err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse like set: %w", err)
	}
	for _, id := range list {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// Contains reports whether the track is currently liked.
func (s *Store) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// SetMembership adds or removes the track and persists the set.
func (s *Store) SetMembership(id string, liked bool) error {
	if liked {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
	return s.save()
}

// List returns the liked IDs in stable order.
func (s *Store) List() []string {
	list := make([]string, 0, len(s.ids))
	for id := range s.ids {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}

func (s *Store) save() error {
	data, err := json.Marshal(s.List())
	if err != nil {
		return fmt.Errorf("failed to marshal like set: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create like set directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write like set: %w", err)
	}
	return nil
}
