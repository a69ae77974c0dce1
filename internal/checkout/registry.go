package checkout

import "sync"

// Registry maps buyer session IDs to checkout sessions
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Store)}
}

// Get returns the checkout of a session, creating an empty one on first use
func (r *Registry) Get(sessionID string) *Store {
	r.mu.RLock()
	store, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok = r.sessions[sessionID]; ok {
		return store
	}
	store = NewStore()
	r.sessions[sessionID] = store
	return store
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}
