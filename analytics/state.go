// SPDX-License-Identifier: MIT

// Package analytics holds the single current centrality result and
// orchestrates its refresh.
//
// State is the slot itself: one mutex, one pointer. Every Get, Set and
// Clear takes the lock only for the pointer swap. Service wraps a State
// with parameters, metrics and logging, and runs the O(T·n³) computation
// with no lock held.
package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/topology"
)

// Entry is one installed (snapshot, result) pair.
// Entries are never modified after installation.
type Entry struct {
	ID         uuid.UUID
	Snapshot   *topology.Snapshot
	Result     *centrality.Result
	Params     centrality.Parameters
	ComputedAt time.Time
}

// State holds zero or one Entry.
// It uses a plain sync.Mutex: reads and writes are equally short.
// The zero value is an empty, ready-to-use State.
type State struct {
	mu    sync.Mutex
	entry *Entry
}

// NewState returns an empty State.
func NewState() *State { return &State{} }

// Get returns the current entry, or false when empty.
func (s *State) Get() (Entry, bool) {
	s.mu.Lock()
	e := s.entry
	s.mu.Unlock()

	if e == nil {
		return Entry{}, false
	}

	return *e, true
}

// Set installs (snapshot, result) as a new entry and returns it.
func (s *State) Set(snapshot *topology.Snapshot, result *centrality.Result) Entry {
	return s.Install(Entry{Snapshot: snapshot, Result: result})
}

// Install replaces the current entry with e, filling a zero ID and
// ComputedAt. The previous entry, if any, is dropped.
func (s *State) Install(e Entry) Entry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ComputedAt.IsZero() {
		e.ComputedAt = time.Now()
	}
	e.Params = e.Params.Clone()

	s.mu.Lock()
	s.entry = &e
	s.mu.Unlock()

	return e
}

// Clear empties the slot and reports whether an entry was removed.
func (s *State) Clear() bool {
	s.mu.Lock()
	removed := s.entry != nil
	s.entry = nil
	s.mu.Unlock()

	return removed
}
