// Package flags keeps the set of routes an operator has flagged for
// attention. Flags live for the lifetime of the process and are never
// touched by polling.
package flags

import (
	"slices"
	"sync"
)

// Store maps route ids to a flagged bit. The zero value is ready to use.
type Store struct {
	mu      sync.RWMutex
	flagged map[string]struct{}
}

// Toggle flips the flag for id and returns the new value.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flagged[id]; ok {
		delete(s.flagged, id)
		return false
	}
	if s.flagged == nil {
		s.flagged = make(map[string]struct{})
	}
	s.flagged[id] = struct{}{}
	return true
}

// IsFlagged reports whether id is flagged. Unknown ids are not.
func (s *Store) IsFlagged(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flagged[id]
	return ok
}

// Flagged returns the flagged ids in sorted order.
func (s *Store) Flagged() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.flagged))
	for id := range s.flagged {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
