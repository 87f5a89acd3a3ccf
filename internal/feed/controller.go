package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// DefaultPageSize is the number of entries shown per page
const DefaultPageSize = 20

// Profile groups the per-user stores a session is built from
type Profile struct {
	Completions repository.CompletionStore
	Seeds       repository.SeedStore
}

// Controller drives feed sessions against a word source
type Controller struct {
	source   repository.WordSource
	pageSize int
	newSeed  func() string
	logger   *zap.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithSeedGenerator overrides how new session seeds are made
func WithSeedGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newSeed = fn
	}
}

// NewController creates a feed controller
func NewController(source repository.WordSource, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		source:   source,
		pageSize: DefaultPageSize,
		newSeed:  uuid.NewString,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the configured page size
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Initialize starts a session for filter, reusing the profile's session seed or creating one.
// On fetch failure the returned session is empty with no more pages, alongside the error.
func (c *Controller) Initialize(ctx context.Context, p Profile, filter domain.Filter) (*Session, error) {
	s := &Session{
		seed:        c.sessionSeed(ctx, p.Seeds),
		completions: p.Completions,
		seen:        make(map[int64]struct{}),
	}
	return s, c.reset(ctx, s, filter)
}

// LoadMore appends the next page. It does nothing when there are no more pages
// or a fetch is already in flight. On failure the session is left unchanged.
func (c *Controller) LoadMore(ctx context.Context, s *Session) error {
	s.mu.Lock()
	if !s.hasMore || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	token := s.token
	q := repository.PageQuery{
		Seed:     s.seed,
		Limit:    c.pageSize + 1,
		Offset:   s.page * c.pageSize,
		Excluded: s.excluded,
		Filter:   s.filter,
	}
	s.mu.Unlock()

	words, err := c.source.FetchPage(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		c.logger.Debug("Dropping stale page", zap.Int("offset", q.Offset))
		return nil
	}
	s.loading = false
	if err != nil {
		return fmt.Errorf("load page %d: %w", s.page, err)
	}

	s.appendPage(words, c.pageSize)
	return nil
}

// Complete records id as done and removes it from the delivered list.
// The completion is persisted before the list changes.
func (c *Controller) Complete(ctx context.Context, s *Session, id int64) error {
	s.completeMu.Lock()
	defer s.completeMu.Unlock()

	ids, err := s.completions.Get(ctx)
	if err != nil {
		return fmt.Errorf("read completions: %w", err)
	}
	if err := s.completions.Set(ctx, append(ids, id)); err != nil {
		return fmt.Errorf("save completion %d: %w", id, err)
	}

	s.mu.Lock()
	s.remove(id)
	s.mu.Unlock()

	return nil
}

// ChangeFilter restarts the session for a new filter with the same seed
func (c *Controller) ChangeFilter(ctx context.Context, s *Session, filter domain.Filter) error {
	return c.reset(ctx, s, filter)
}

// ResetCompletions clears the completion set and restarts the session with its current filter
func (c *Controller) ResetCompletions(ctx context.Context, s *Session) error {
	s.completeMu.Lock()
	err := s.completions.Set(ctx, nil)
	s.completeMu.Unlock()
	if err != nil {
		return fmt.Errorf("clear completions: %w", err)
	}

	return c.reset(ctx, s, s.Filter())
}

func (c *Controller) reset(ctx context.Context, s *Session, filter domain.Filter) error {
	s.mu.Lock()
	token := s.begin(filter)
	seed := s.seed
	s.mu.Unlock()

	excluded := c.completed(ctx, s.completions)

	words, err := c.source.FetchPage(ctx, repository.PageQuery{
		Seed:     seed,
		Limit:    c.pageSize + 1,
		Offset:   0,
		Excluded: excluded,
		Filter:   filter,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		c.logger.Debug("Dropping stale first page", zap.Stringer("filter", filter))
		return nil
	}
	s.loading = false
	s.excluded = excluded
	if err != nil {
		return fmt.Errorf("load first page (%s): %w", filter, err)
	}

	s.appendPage(words, c.pageSize)
	return nil
}

// completed reads the completion set for exclusion. Storage failures never block the feed.
func (c *Controller) completed(ctx context.Context, store repository.CompletionStore) []int64 {
	ids, err := store.Get(ctx)
	if err != nil {
		c.logger.Warn("Failed to read completions, showing all entries", zap.Error(err))
		return nil
	}
	return ids
}

func (c *Controller) sessionSeed(ctx context.Context, seeds repository.SeedStore) string {
	if seeds == nil {
		return c.newSeed()
	}

	seed, ok, err := seeds.Get(ctx)
	if err != nil {
		c.logger.Warn("Failed to read session seed", zap.Error(err))
	}
	if ok && seed != "" {
		return seed
	}

	seed = c.newSeed()
	if err := seeds.Set(ctx, seed); err != nil {
		c.logger.Warn("Failed to store session seed", zap.Error(err))
	}
	return seed
}
