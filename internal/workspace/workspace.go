// Package workspace holds the per-session state of the dashboard: the
// currently loaded record set and the generation counter that lets a newer
// load supersede an older one still in flight.
package workspace

import (
	"errors"
	"sync"
	"time"

	"inventory/internal/core"
)

// ErrStaleLoad is returned by Commit when a newer load began after the
// ticket was issued.
var ErrStaleLoad = errors.New("load superseded by a newer one")

// Snapshot is an immutable view of one completed load.
type Snapshot struct {
	Records    core.RecordSet
	Source     core.Source
	FileName   string
	Issues     []core.RowIssue
	LoadedAt   time.Time
	Generation uint64
}

// Ticket identifies one load attempt.
type Ticket struct {
	generation uint64
}

// Generation returns the load generation this ticket belongs to.
func (t Ticket) Generation() uint64 { return t.generation }

// Workspace is safe for concurrent use.
type Workspace struct {
	mu      sync.RWMutex
	next    uint64
	current *Snapshot
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{}
}

// Begin starts a new load. Any ticket issued earlier becomes stale.
func (w *Workspace) Begin() Ticket {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	return Ticket{generation: w.next}
}

// Commit replaces the current snapshot with s if t is still the latest ticket.
func (w *Workspace) Commit(t Ticket, s Snapshot) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t.generation != w.next {
		return Snapshot{}, ErrStaleLoad
	}
	s.Generation = t.generation
	s.Records = s.Records.Clone()
	if s.Records == nil {
		s.Records = core.RecordSet{}
	}
	if s.LoadedAt.IsZero() {
		s.LoadedAt = time.Now()
	}
	w.current = &s
	return s, nil
}

// Snapshot returns the last committed load.
func (w *Workspace) Snapshot() (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return Snapshot{}, false
	}
	return *w.current, true
}

// Reset drops the loaded data and invalidates loads in flight.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	w.current = nil
}
