package availability

import (
	"slices"
	"sync"

	"github.com/javiermolinar/weekslot/internal/task"
)

// Store holds the availability grid of every user seen by the process.
// It is a cache derived from the durable task store and is never persisted.
//
// Each user has two locks. The operation lock, taken with Lock, lets a
// caller serialize a whole read-decide-write sequence for one user. The
// grid lock is internal and guards the grid data, so grid methods stay
// safe to call while the operation lock is held.
type Store struct {
	mu    sync.Mutex
	users map[int64]*entry
}

type entry struct {
	op sync.Mutex

	mu      sync.RWMutex
	grid    Grid
	present bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{users: make(map[int64]*entry)}
}

func (s *Store) entry(userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		e = &entry{}
		s.users[userID] = e
	}
	return e
}

// Lock acquires the operation lock for userID and returns its release func.
// Operations on different users never wait on each other.
func (s *Store) Lock(userID int64) (unlock func()) {
	e := s.entry(userID)
	e.op.Lock()
	return e.op.Unlock
}

// Initialize resets the user's grid to all free, discarding any prior state.
func (s *Store) Initialize(userID int64) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = Free()
	e.present = true
}

// EnsureInitialized creates an all-free grid for the user only if none exists.
func (s *Store) EnsureInitialized(userID int64) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensure()
}

func (e *entry) ensure() {
	if !e.present {
		e.grid = Free()
		e.present = true
	}
}

// RebuildFromTasks resets the user's grid and marks every task busy.
func (s *Store) RebuildFromTasks(userID int64, tasks []*task.Task) {
	grid := FromTasks(tasks)
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = grid
	e.present = true
}

// MarkBusy marks a run of the user's slots busy, initializing the grid if needed.
func (s *Store) MarkBusy(userID int64, day task.Day, hour, duration int) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensure()
	e.grid.MarkBusy(day, hour, duration)
}

// MarkFree marks a run of the user's slots free, initializing the grid if needed.
func (s *Store) MarkFree(userID int64, day task.Day, hour, duration int) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensure()
	e.grid.MarkFree(day, hour, duration)
}

// IsFree reports whether a run of the user's slots is free.
// A user without a grid gets an all-free one.
func (s *Store) IsFree(userID int64, day task.Day, hour, duration int) bool {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensure()
	return e.grid.IsFree(day, hour, duration)
}

// Snapshot returns a copy of the user's grid and whether one exists.
func (s *Store) Snapshot(userID int64) (Grid, bool) {
	s.mu.Lock()
	e, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return Free(), false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid, e.present
}

// Reset drops the user's grid. The next access starts from all free.
func (s *Store) Reset(userID int64) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = Free()
	e.present = false
}

// Users returns the IDs of users that currently have a grid, sorted.
func (s *Store) Users() []int64 {
	s.mu.Lock()
	entries := make(map[int64]*entry, len(s.users))
	for id, e := range s.users {
		entries[id] = e
	}
	s.mu.Unlock()

	ids := make([]int64, 0, len(entries))
	for id, e := range entries {
		e.mu.RLock()
		present := e.present
		e.mu.RUnlock()
		if present {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
