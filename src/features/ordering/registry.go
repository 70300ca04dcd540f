package ordering

import (
	"sync"

	"github.com/formantjeff/setlist/src/features/metrics"
)

// Registry hands out one Manager per setlist so every caller touching
// the same setlist goes through the same queue.
type Registry struct {
	store   SongStore
	metrics *metrics.Metrics

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry creates an empty registry backed by the given store.
func NewRegistry(store SongStore, m *metrics.Metrics) *Registry {
	return &Registry{
		store:    store,
		metrics:  m,
		managers: make(map[string]*Manager),
	}
}

// Manager returns the manager for a setlist, creating it on first use.
func (r *Registry) Manager(setlistID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[setlistID]; ok {
		return m
	}
	m := NewManager(r.store, r.metrics, setlistID)
	r.managers[setlistID] = m
	return m
}

// Drop forgets the manager for a setlist. Used when a setlist is
// deleted.
func (r *Registry) Drop(setlistID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, setlistID)
}
