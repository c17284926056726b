package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot is the latest published value plus poll bookkeeping.
type Snapshot[T any] struct {
	Value               T
	HasValue            bool
	Session             uint64 // poll session that produced Value
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store is the single published cell for one kind of snapshot. Writers are
// the poll scheduler (Publish, Fail); readers take copies with Snapshot.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
	merge    func(previous, incoming T) T
	clone    func(T) T
}

// NewStore returns an empty store. merge reconciles the previous value with
// each incoming one; clone copies values handed out by Snapshot. Either may
// be nil.
func NewStore[T any](merge func(previous, incoming T) T, clone func(T) T) *Store[T] {
	return &Store[T]{merge: merge, clone: clone}
}

// Publish reconciles v with the current value and swaps it in. Values from a
// session older than the one already published are rejected.
func (s *Store[T]) Publish(session uint64, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.HasValue && session < s.snapshot.Session {
		return false
	}
	if s.snapshot.HasValue && s.merge != nil {
		v = s.merge(s.snapshot.Value, v)
	}
	s.snapshot.Value = v
	s.snapshot.HasValue = true
	s.snapshot.Session = session
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Fail records a poll failure. The previous value is kept.
func (s *Store[T]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Update applies fn to the published value in place, for client-side edits
// such as ClientState changes. It reports false when nothing is published
// yet. fn must not retain its argument.
func (s *Store[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.HasValue {
		return false
	}
	s.snapshot.Value = fn(s.snapshot.Value)
	return true
}

// Reset forgets everything, including the last published session.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot[T]{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.clone != nil && snap.HasValue {
		snap.Value = s.clone(s.snapshot.Value)
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
