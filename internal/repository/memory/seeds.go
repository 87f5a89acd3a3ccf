package memory

import (
	"context"
	"sync"
	"time"
)

// SeedStore keeps per-key seeds in process memory. A seed lives until its key has been
// idle longer than the sweep window, which models the end of a viewing session.
type SeedStore struct {
	mu    sync.RWMutex
	seeds map[string]*seedEntry
	live  func(key string) bool
	now   func() time.Time
}

type seedEntry struct {
	seed    string
	touched time.Time
}

// NewSeedStore creates an empty store
func NewSeedStore() *SeedStore {
	return &SeedStore{
		seeds: make(map[string]*seedEntry),
		now:   time.Now,
	}
}

// KeepWhile makes Sweep spare the seed of every key for which live reports true,
// so a seed outlasts the sweep window as long as its owner's session does.
func (s *SeedStore) KeepWhile(live func(key string) bool) *SeedStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = live
	return s
}

// For returns the seed store scoped to key
func (s *SeedStore) For(key string) *ScopedSeeds {
	return &ScopedSeeds{store: s, key: key}
}

// Sweep forgets seeds idle longer than idle and returns how many were removed
func (s *SeedStore) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for key, e := range s.seeds {
		if s.live != nil && s.live(key) {
			continue
		}
		if e.touched.Before(cutoff) {
			delete(s.seeds, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live seeds
func (s *SeedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seeds)
}

// ScopedSeeds implements repository.SeedStore for one key
type ScopedSeeds struct {
	store *SeedStore
	key   string
}

// Get returns the seed and refreshes its idle timer
func (c *ScopedSeeds) Get(_ context.Context) (string, bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	e, ok := c.store.seeds[c.key]
	if !ok {
		return "", false, nil
	}
	e.touched = c.store.now()
	return e.seed, true, nil
}

// Set stores the seed
func (c *ScopedSeeds) Set(_ context.Context, seed string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	c.store.seeds[c.key] = &seedEntry{seed: seed, touched: c.store.now()}
	return nil
}
