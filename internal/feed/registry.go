package feed

import (
	"sync"
	"time"
)

// Registry keeps the live session of each view owner
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*registryEntry
	now      func() time.Time
}

type registryEntry struct {
	session *Session
	touched time.Time
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		now:      time.Now,
	}
}

// Get returns the owner's session and marks it as used
func (r *Registry) Get(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[key]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.session, true
}

// Has reports whether the owner has a live session without marking it as used
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[key]
	return ok
}

// Put stores the owner's session, replacing any previous one
func (r *Registry) Put(key string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key] = &registryEntry{session: s, touched: r.now()}
}

// Delete discards the owner's session
func (r *Registry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Clear discards every session so each is rebuilt on next use
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.sessions)
	r.sessions = make(map[string]*registryEntry)
	return n
}

// Sweep discards sessions idle longer than idle
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for key, e := range r.sessions {
		if e.touched.Before(cutoff) {
			delete(r.sessions, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
