// Package state holds the dashboard tables in memory between pipeline runs.
// All reads serve from here; the spreadsheet is only touched on upload and
// refresh.
package state

import (
	"sync"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

// Snapshot is an immutable view of the loaded tables. Callers must not mutate
// the slices.
type Snapshot struct {
	Pivot        []domain.PivotRow
	MovesHistory []domain.MoveLeg
	Inbound      []domain.MoveLeg
	Outbound     []domain.MoveLeg
	LastSyncedAt time.Time
}

// AppState guards the current snapshot. Replacement is wholesale: readers
// either see the previous complete snapshot or the new one, never a mix.
type AppState struct {
	mu       sync.RWMutex
	snapshot Snapshot
	loaded   bool
}

func New() *AppState {
	return &AppState{}
}

// Replace swaps in a new snapshot.
func (s *AppState) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.loaded = true
}

// Snapshot returns the current tables and whether any data has been loaded.
func (s *AppState) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.loaded
}

// Loaded reports whether a snapshot has been published.
func (s *AppState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
