package testutil

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"sync"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// FakeWordSource serves pages from memory in the same order as the Postgres query:
// md5(id || seed), then id
type FakeWordSource struct {
	mu    sync.Mutex
	words []domain.WordEntry
	err   error
	calls []repository.PageQuery

	gate    chan struct{}
	started chan struct{}
}

// NewFakeWordSource creates a source over words
func NewFakeWordSource(words ...domain.WordEntry) *FakeWordSource {
	return &FakeWordSource{words: words}
}

// SetWords replaces the underlying set
func (f *FakeWordSource) SetWords(words []domain.WordEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.words = words
}

// SetError makes every following fetch fail with err (nil restores success)
func (f *FakeWordSource) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Block makes following fetches wait until release is called. Each blocked fetch
// signals on started before waiting.
func (f *FakeWordSource) Block() (started <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gate := make(chan struct{})
	st := make(chan struct{}, 16)
	f.gate = gate
	f.started = st

	var once sync.Once
	return st, func() { once.Do(func() { close(gate) }) }
}

// Unblock lets new fetches through; fetches already waiting stay blocked until released
func (f *FakeWordSource) Unblock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = nil
	f.started = nil
}

// Calls returns the queries received so far
func (f *FakeWordSource) Calls() []repository.PageQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.PageQuery, len(f.calls))
	copy(out, f.calls)
	return out
}

// FetchPage implements repository.WordSource
func (f *FakeWordSource) FetchPage(ctx context.Context, q repository.PageQuery) ([]domain.WordEntry, error) {
	f.mu.Lock()
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}

	excluded := make(map[int64]struct{}, len(q.Excluded))
	for _, id := range q.Excluded {
		excluded[id] = struct{}{}
	}

	var eligible []domain.WordEntry
	for _, w := range f.words {
		if _, ok := excluded[w.ID]; ok {
			continue
		}
		if q.Filter.Matches(w) {
			eligible = append(eligible, w)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		hi, hj := seededKey(eligible[i].ID, q.Seed), seededKey(eligible[j].ID, q.Seed)
		if hi != hj {
			return hi < hj
		}
		return eligible[i].ID < eligible[j].ID
	})

	if q.Offset >= len(eligible) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(eligible) {
		end = len(eligible)
	}
	return append([]domain.WordEntry(nil), eligible[q.Offset:end]...), nil
}

func seededKey(id int64, seed string) string {
	sum := md5.Sum([]byte(strconv.FormatInt(id, 10) + seed))
	return hex.EncodeToString(sum[:])
}

// CompletionStore is an in-memory completion store with injectable failures
type CompletionStore struct {
	mu     sync.Mutex
	ids    []int64
	GetErr error
	SetErr error
}

// NewCompletionStore creates a store holding ids
func NewCompletionStore(ids ...int64) *CompletionStore {
	return &CompletionStore{ids: ids}
}

// Get implements repository.CompletionStore
func (s *CompletionStore) Get(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return append([]int64(nil), s.ids...), nil
}

// Set implements repository.CompletionStore
func (s *CompletionStore) Set(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.ids = append([]int64(nil), ids...)
	return nil
}

// IDs returns the stored ids
func (s *CompletionStore) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ids...)
}

// SeedStore is an in-memory seed store with injectable failures
type SeedStore struct {
	Seed   string
	GetErr error
	SetErr error
}

// Get implements repository.SeedStore
func (s *SeedStore) Get(_ context.Context) (string, bool, error) {
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	return s.Seed, s.Seed != "", nil
}

// Set implements repository.SeedStore
func (s *SeedStore) Set(_ context.Context, seed string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.Seed = seed
	return nil
}
