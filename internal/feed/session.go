package feed

import (
	"sync"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// Session is the working state of one filtered, paginated, seeded browsing pass.
// It is owned by one view; the mutex only serializes that view's own handlers.
type Session struct {
	mu sync.Mutex

	filter    domain.Filter
	seed      string
	page      int
	delivered []domain.WordEntry
	hasMore   bool
	loading   bool

	// token is bumped on every re-initialization; fetch results carrying an older token are dropped
	token uint64

	// excluded is the completion snapshot sent to the source, fixed for the whole pass
	// so that server offsets stay stable
	excluded []int64
	// seen holds ids delivered or completed during this pass
	seen map[int64]struct{}

	completions repository.CompletionStore
	completeMu  sync.Mutex
}

// State is a read-only copy of a session for rendering
type State struct {
	Filter  domain.Filter      `json:"filter"`
	Seed    string             `json:"-"`
	Page    int                `json:"page"`
	Words   []domain.WordEntry `json:"words"`
	HasMore bool               `json:"hasMore"`
	Loading bool               `json:"loading"`
}

// CaughtUp reports the "nothing left to study" state
func (st State) CaughtUp() bool {
	return len(st.Words) == 0 && !st.HasMore && !st.Loading
}

// Snapshot returns the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := make([]domain.WordEntry, len(s.delivered))
	copy(words, s.delivered)

	return State{
		Filter:  s.filter,
		Seed:    s.seed,
		Page:    s.page,
		Words:   words,
		HasMore: s.hasMore,
		Loading: s.loading,
	}
}

// Filter returns the active filter
func (s *Session) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Seed returns the session seed
func (s *Session) Seed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Word returns a delivered entry by id
func (s *Session) Word(id int64) (domain.WordEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.delivered {
		if w.ID == id {
			return w, true
		}
	}
	return domain.WordEntry{}, false
}

// begin resets paging for a new pass and returns its token. Caller holds mu.
func (s *Session) begin(filter domain.Filter) uint64 {
	s.token++
	s.filter = filter
	s.page = 0
	s.delivered = nil
	s.hasMore = false
	s.loading = true
	s.excluded = nil
	s.seen = make(map[int64]struct{})
	return s.token
}

// appendPage applies one over-fetched page. Caller holds mu.
func (s *Session) appendPage(words []domain.WordEntry, pageSize int) {
	s.hasMore = len(words) > pageSize
	if s.hasMore {
		words = words[:pageSize]
	}
	s.page++

	for _, w := range words {
		if !s.filter.Matches(w) {
			continue
		}
		if _, ok := s.seen[w.ID]; ok {
			continue
		}
		s.seen[w.ID] = struct{}{}
		s.delivered = append(s.delivered, w)
	}
}

// remove drops id from the delivered list and keeps it from coming back this pass. Caller holds mu.
func (s *Session) remove(id int64) bool {
	s.seen[id] = struct{}{}

	for i, w := range s.delivered {
		if w.ID == id {
			s.delivered = append(s.delivered[:i:i], s.delivered[i+1:]...)
			return true
		}
	}
	return false
}
