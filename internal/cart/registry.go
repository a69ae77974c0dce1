package cart

import "sync"

// Registry maps buyer session IDs to their carts
type Registry struct {
	mu    sync.RWMutex
	carts map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Store)}
}

// Get returns the cart of a session, creating an empty one on first use
func (r *Registry) Get(sessionID string) *Store {
	r.mu.RLock()
	store, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok = r.carts[sessionID]; ok {
		return store
	}
	store = NewStore()
	r.carts[sessionID] = store
	return store
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
