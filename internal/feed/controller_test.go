package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordfeed/internal/domain"
	"wordfeed/internal/testutil"
)

func newTestController(source *testutil.FakeWordSource, opts ...Option) *Controller {
	opts = append([]Option{WithSeedGenerator(func() string { return "seed-1" })}, opts...)
	return NewController(source, testutil.NewTestLogger(), opts...)
}

func newProfile(completed ...int64) (Profile, *testutil.CompletionStore) {
	store := testutil.NewCompletionStore(completed...)
	return Profile{Completions: store, Seeds: &testutil.SeedStore{}}, store
}

func ids(words []domain.WordEntry) []int64 {
	out := make([]int64, 0, len(words))
	for _, w := range words {
		out = append(out, w.ID)
	}
	return out
}

func loadAll(t *testing.T, c *Controller, s *Session) State {
	t.Helper()
	for i := 0; s.Snapshot().HasMore; i++ {
		require.Less(t, i, 1000, "paging did not terminate")
		require.NoError(t, c.LoadMore(context.Background(), s))
	}
	return s.Snapshot()
}

func TestController_ScenarioA_OverFetchByOne(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(25)...)
	c := newTestController(source)
	profile, _ := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Len(t, st.Words, 20)
	assert.True(t, st.HasMore)
	assert.Equal(t, 1, st.Page)

	require.NoError(t, c.LoadMore(ctx, s))

	st = s.Snapshot()
	assert.Len(t, st.Words, 25)
	assert.False(t, st.HasMore)
	assert.ElementsMatch(t, ids(testutil.NewTestWords(25)), ids(st.Words))

	calls := source.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 21, calls[0].Limit)
	assert.Equal(t, 0, calls[0].Offset)
	assert.Equal(t, 21, calls[1].Limit)
	assert.Equal(t, 20, calls[1].Offset)
}

func TestController_ScenarioB_AllCompleted(t *testing.T) {
	words := testutil.NewTestWords(20)
	source := testutil.NewFakeWordSource(words...)
	c := newTestController(source)
	profile, _ := newProfile(ids(words)...)

	s, err := c.Initialize(context.Background(), profile, domain.Filter{})
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Empty(t, st.Words)
	assert.False(t, st.HasMore)
	assert.True(t, st.CaughtUp())
}

func TestController_ScenarioC_CompleteMidPage(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(30)...)
	c := newTestController(source)
	profile, store := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	before := s.Snapshot().Words
	x := before[3].ID

	require.NoError(t, c.Complete(ctx, s, x))

	after := s.Snapshot().Words
	assert.Len(t, after, len(before)-1)
	assert.NotContains(t, ids(after), x)
	assert.Equal(t, []int64{x}, store.IDs())

	require.NoError(t, c.ChangeFilter(ctx, s, domain.Filter{Category: testutil.Ptr("verbs")}))
	require.NoError(t, c.ChangeFilter(ctx, s, domain.Filter{}))

	all := loadAll(t, c, s)
	assert.NotContains(t, ids(all.Words), x)
	assert.Len(t, all.Words, 29)
}

func TestController_ScenarioD_ReimportClearsCompletions(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(5)...)
	c := newTestController(source)
	profile, store := newProfile(1, 2, 3)
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{4, 5}, ids(s.Snapshot().Words))

	// destructive re-import: ids restart, every completion set is wiped
	source.SetWords([]domain.WordEntry{
		testutil.NewTestWord(1, "new1", "m"),
		testutil.NewTestWord(2, "new2", "m"),
	})
	require.NoError(t, store.Set(ctx, nil))

	s, err = c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids(s.Snapshot().Words))
}

func TestController_NeverDeliversInactive(t *testing.T) {
	words := testutil.NewTestWords(10)
	for i := range words {
		if i%2 == 0 {
			words[i].Active = false
		}
	}
	source := testutil.NewFakeWordSource(words...)
	c := newTestController(source, WithPageSize(2))
	profile, _ := newProfile()

	s, err := c.Initialize(context.Background(), profile, domain.Filter{})
	require.NoError(t, err)

	all := loadAll(t, c, s)
	assert.Len(t, all.Words, 5)
	for _, w := range all.Words {
		assert.True(t, w.Active)
	}
}

func TestController_InitializeIsReproducible(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(40)...)
	c := newTestController(source)
	ctx := context.Background()

	p1, _ := newProfile()
	first, err := c.Initialize(ctx, p1, domain.Filter{})
	require.NoError(t, err)
	p2, _ := newProfile()
	second, err := c.Initialize(ctx, p2, domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, ids(first.Snapshot().Words), ids(second.Snapshot().Words))
	assert.NotEqual(t, ids(testutil.NewTestWords(20)), ids(first.Snapshot().Words), "order is seeded, not by id")
}

func TestController_PaginationCompleteness(t *testing.T) {
	var words []domain.WordEntry
	for i := 1; i <= 47; i++ {
		w := testutil.NewTestWord(int64(i), "t", "m")
		if i%3 == 0 {
			w.Category = testutil.Ptr("verbs")
		} else {
			w.Category = testutil.Ptr("nouns")
		}
		w.Day = testutil.Ptr(i % 4)
		w.Active = i%7 != 0
		words = append(words, w)
	}
	completed := []int64{3, 6, 9, 10, 11}

	tests := []struct {
		name   string
		filter domain.Filter
	}{
		{"all", domain.Filter{}},
		{"category", domain.Filter{Category: testutil.Ptr("nouns")}},
		{"day", domain.Filter{Day: testutil.Ptr(2)}},
		{"both", domain.Filter{Category: testutil.Ptr("verbs"), Day: testutil.Ptr(1)}},
		{"no match", domain.Filter{Category: testutil.Ptr("adjectives")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := testutil.NewFakeWordSource(words...)
			c := newTestController(source, WithPageSize(4))
			profile, _ := newProfile(completed...)

			s, err := c.Initialize(context.Background(), profile, tt.filter)
			require.NoError(t, err)
			all := loadAll(t, c, s)

			var want []int64
			for _, w := range words {
				if tt.filter.Matches(w) && !containsID(completed, w.ID) {
					want = append(want, w.ID)
				}
			}

			got := ids(all.Words)
			assert.ElementsMatch(t, want, got)
			assert.Len(t, got, len(want), "no duplicates")
		})
	}
}

func containsID(list []int64, id int64) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func TestController_CompleteBeforeItsPageArrives(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(25)...)
	c := newTestController(source)
	profile, store := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	delivered := ids(s.Snapshot().Words)
	var pending int64
	for _, w := range testutil.NewTestWords(25) {
		if !containsID(delivered, w.ID) {
			pending = w.ID
			break
		}
	}
	require.NotZero(t, pending)

	require.NoError(t, c.Complete(ctx, s, pending))
	assert.Len(t, s.Snapshot().Words, 20)
	assert.Equal(t, []int64{pending}, store.IDs())

	require.NoError(t, c.LoadMore(ctx, s))

	st := s.Snapshot()
	assert.Len(t, st.Words, 24)
	assert.NotContains(t, ids(st.Words), pending)
	assert.False(t, st.HasMore)
}

func TestController_CompleteAppendsUnconditionally(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(3)...)
	c := newTestController(source)
	profile, store := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	require.NoError(t, c.Complete(ctx, s, 2))
	require.NoError(t, c.Complete(ctx, s, 2))

	assert.Equal(t, []int64{2, 2}, store.IDs())
	assert.Len(t, s.Snapshot().Words, 2)
}

func TestController_CompleteStoreFailures(t *testing.T) {
	tests := []struct {
		name   string
		getErr error
		setErr error
	}{
		{"read fails", errors.New("disk gone"), nil},
		{"write fails", nil, errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := testutil.NewFakeWordSource(testutil.NewTestWords(3)...)
			c := newTestController(source)
			profile, store := newProfile()
			ctx := context.Background()

			s, err := c.Initialize(ctx, profile, domain.Filter{})
			require.NoError(t, err)

			store.GetErr = tt.getErr
			store.SetErr = tt.setErr

			err = c.Complete(ctx, s, 1)

			assert.Error(t, err)
			assert.Len(t, s.Snapshot().Words, 3, "list untouched when the completion was not saved")
		})
	}
}

func TestController_UnreadableCompletionsShowEverything(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(3)...)
	c := newTestController(source)
	profile, store := newProfile(1)
	store.GetErr = errors.New("locked")

	s, err := c.Initialize(context.Background(), profile, domain.Filter{})

	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Words, 3)
}

func TestController_InitializeFetchFailure(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(5)...)
	source.SetError(errors.New("backend down"))
	c := newTestController(source)
	profile, _ := newProfile()

	s, err := c.Initialize(context.Background(), profile, domain.Filter{})

	assert.Error(t, err)
	require.NotNil(t, s)
	st := s.Snapshot()
	assert.Empty(t, st.Words)
	assert.False(t, st.HasMore)
	assert.False(t, st.Loading)
}

func TestController_LoadMoreFailureLeavesSessionUnchanged(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(25)...)
	c := newTestController(source)
	profile, _ := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)
	before := s.Snapshot()

	source.SetError(errors.New("timeout"))
	assert.Error(t, c.LoadMore(ctx, s))
	assert.Equal(t, before, s.Snapshot())

	source.SetError(nil)
	require.NoError(t, c.LoadMore(ctx, s))
	assert.Len(t, s.Snapshot().Words, 25)
}

func TestController_LoadMoreWithoutMorePagesIsNoop(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(5)...)
	c := newTestController(source)
	profile, _ := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)
	require.False(t, s.Snapshot().HasMore)

	require.NoError(t, c.LoadMore(ctx, s))

	assert.Len(t, source.Calls(), 1)
}

func TestController_LoadMoreInFlightIsNoop(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(45)...)
	c := newTestController(source)
	profile, _ := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	started, release := source.Block()
	done := make(chan error, 1)
	go func() { done <- c.LoadMore(ctx, s) }()
	<-started

	assert.True(t, s.Snapshot().Loading)
	require.NoError(t, c.LoadMore(ctx, s))

	release()
	require.NoError(t, <-done)

	st := s.Snapshot()
	assert.Len(t, st.Words, 40)
	assert.Equal(t, 2, st.Page)
	assert.Len(t, source.Calls(), 2)
}

func TestController_StaleLoadMoreIsDropped(t *testing.T) {
	words := testutil.NewTestWords(30)
	for i := range words {
		if i < 10 {
			words[i].Category = testutil.Ptr("verbs")
		}
	}
	source := testutil.NewFakeWordSource(words...)
	c := newTestController(source)
	profile, _ := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	started, release := source.Block()
	done := make(chan error, 1)
	go func() { done <- c.LoadMore(ctx, s) }()
	<-started
	source.Unblock()

	verbs := domain.Filter{Category: testutil.Ptr("verbs")}
	require.NoError(t, c.ChangeFilter(ctx, s, verbs))

	release()
	require.NoError(t, <-done)

	st := s.Snapshot()
	assert.True(t, st.Filter.Equal(verbs))
	assert.Len(t, st.Words, 10)
	assert.Equal(t, 1, st.Page)
	assert.False(t, st.Loading)
}

func TestController_StaleFirstPageIsDropped(t *testing.T) {
	words := testutil.NewTestWords(6)
	words[0].Category = testutil.Ptr("verbs")
	source := testutil.NewFakeWordSource(words...)
	c := newTestController(source)
	profile, _ := newProfile()
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	started, release := source.Block()
	done := make(chan error, 1)
	go func() { done <- c.ChangeFilter(ctx, s, domain.Filter{}) }()
	<-started
	source.Unblock()

	verbs := domain.Filter{Category: testutil.Ptr("verbs")}
	require.NoError(t, c.ChangeFilter(ctx, s, verbs))

	release()
	require.NoError(t, <-done)

	st := s.Snapshot()
	assert.True(t, st.Filter.Equal(verbs))
	assert.Equal(t, []int64{1}, ids(st.Words))
}

func TestController_SeedHandling(t *testing.T) {
	t.Run("reuses stored seed", func(t *testing.T) {
		c := newTestController(testutil.NewFakeWordSource())
		seeds := &testutil.SeedStore{Seed: "kept"}

		s, err := c.Initialize(context.Background(), Profile{Completions: testutil.NewCompletionStore(), Seeds: seeds}, domain.Filter{})

		require.NoError(t, err)
		assert.Equal(t, "kept", s.Seed())
	})

	t.Run("creates and stores seed", func(t *testing.T) {
		c := newTestController(testutil.NewFakeWordSource())
		seeds := &testutil.SeedStore{}

		s, err := c.Initialize(context.Background(), Profile{Completions: testutil.NewCompletionStore(), Seeds: seeds}, domain.Filter{})

		require.NoError(t, err)
		assert.Equal(t, "seed-1", s.Seed())
		assert.Equal(t, "seed-1", seeds.Seed)
	})

	t.Run("broken seed store still yields a seed", func(t *testing.T) {
		c := newTestController(testutil.NewFakeWordSource())
		seeds := &testutil.SeedStore{GetErr: errors.New("x"), SetErr: errors.New("y")}

		s, err := c.Initialize(context.Background(), Profile{Completions: testutil.NewCompletionStore(), Seeds: seeds}, domain.Filter{})

		require.NoError(t, err)
		assert.Equal(t, "seed-1", s.Seed())
	})

	t.Run("filter change keeps the seed", func(t *testing.T) {
		source := testutil.NewFakeWordSource(testutil.NewTestWords(3)...)
		n := 0
		c := NewController(source, testutil.NewTestLogger(), WithSeedGenerator(func() string {
			n++
			return "seed-" + string(rune('0'+n))
		}))
		profile, _ := newProfile()
		ctx := context.Background()

		s, err := c.Initialize(ctx, profile, domain.Filter{})
		require.NoError(t, err)
		require.NoError(t, c.ChangeFilter(ctx, s, domain.Filter{Day: testutil.Ptr(1)}))

		assert.Equal(t, "seed-1", s.Seed())
		for _, q := range source.Calls() {
			assert.Equal(t, "seed-1", q.Seed)
		}
	})
}

func TestController_ResetCompletions(t *testing.T) {
	words := testutil.NewTestWords(4)
	words[0].Day = testutil.Ptr(1)
	words[1].Day = testutil.Ptr(1)
	source := testutil.NewFakeWordSource(words...)
	c := newTestController(source)
	profile, store := newProfile(1)
	ctx := context.Background()
	day1 := domain.Filter{Day: testutil.Ptr(1)}

	s, err := c.Initialize(ctx, profile, day1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(s.Snapshot().Words))

	require.NoError(t, c.ResetCompletions(ctx, s))

	assert.Empty(t, store.IDs())
	st := s.Snapshot()
	assert.True(t, st.Filter.Equal(day1))
	assert.ElementsMatch(t, []int64{1, 2}, ids(st.Words))
}

func TestController_ResetCompletionsStoreFailure(t *testing.T) {
	source := testutil.NewFakeWordSource(testutil.NewTestWords(2)...)
	c := newTestController(source)
	profile, store := newProfile(1)
	ctx := context.Background()

	s, err := c.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)
	store.SetErr = errors.New("read-only")

	assert.Error(t, c.ResetCompletions(ctx, s))
	assert.Equal(t, []int64{2}, ids(s.Snapshot().Words))
}
