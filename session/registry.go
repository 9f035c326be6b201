package session

import (
	"context"
	"sync"

	"uzhavan/backend"
	"uzhavan/kvstore"
)

// Registry hands out one Manager per scope (a device id or a user id) and
// initializes it lazily on first use.
type Registry struct {
	mu       sync.Mutex
	store    kvstore.Store
	backend  backend.Service
	managers map[string]*Manager
}

func NewRegistry(store kvstore.Store, svc backend.Service) *Registry {
	return &Registry{
		store:    store,
		backend:  svc,
		managers: make(map[string]*Manager),
	}
}

// Get returns the Manager for scope, creating and initializing it if needed.
func (r *Registry) Get(ctx context.Context, scope string) *Manager {
	r.mu.Lock()
	m, ok := r.managers[scope]
	if !ok {
		m = NewManager(scope, r.store, r.backend)
		r.managers[scope] = m
	}
	r.mu.Unlock()

	m.Initialize(ctx)
	return m
}
