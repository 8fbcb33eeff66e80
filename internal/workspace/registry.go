package workspace

import (
	"time"

	"inventory/internal/cache"
)

// Registry maps session IDs to workspaces. Idle sessions expire after ttl
// and the least recently used one is dropped once max is reached.
type Registry struct {
	sessions *cache.LRUCache[*Workspace]
	manager  *cache.Manager
}

// NewRegistry creates a registry and starts its background sweeper.
func NewRegistry(max int, ttl time.Duration) *Registry {
	sessions := cache.NewLRUCache[*Workspace](max, ttl)
	manager := cache.NewManager()
	manager.Register(sessions)

	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	manager.StartCleanup(interval)

	return &Registry{sessions: sessions, manager: manager}
}

// Acquire returns the workspace for id, creating it when absent. The
// boolean reports whether it was created.
func (r *Registry) Acquire(id string) (*Workspace, bool) {
	return r.sessions.GetOrCreate(id, New)
}

// Lookup returns the workspace for id without creating one.
func (r *Registry) Lookup(id string) (*Workspace, bool) {
	return r.sessions.Get(id)
}

// Drop forgets the session.
func (r *Registry) Drop(id string) {
	r.sessions.Delete(id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Size()
}

// OnExpire registers fn to run after a sweep removed idle sessions.
func (r *Registry) OnExpire(fn func(removed int)) {
	r.manager.OnClean(fn)
}

// Close stops the sweeper.
func (r *Registry) Close() {
	r.manager.Stop()
}
