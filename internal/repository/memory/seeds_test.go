package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordfeed/internal/domain"
	"wordfeed/internal/feed"
	"wordfeed/internal/testutil"
)

func TestSeedStore_GetSet(t *testing.T) {
	store := NewSeedStore()
	ctx := context.Background()

	_, ok, err := store.For("tg:1").Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.For("tg:1").Set(ctx, "abc"))

	seed, ok, err := store.For("tg:1").Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", seed)

	_, ok, _ = store.For("tg:2").Get(ctx)
	assert.False(t, ok)
}

func TestSeedStore_Sweep(t *testing.T) {
	store := NewSeedStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.For("old").Set(ctx, "s1"))
	now = now.Add(90 * time.Minute)
	require.NoError(t, store.For("fresh").Set(ctx, "s2"))
	now = now.Add(40 * time.Minute)

	removed := store.Sweep(time.Hour)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
	_, ok, _ := store.For("old").Get(ctx)
	assert.False(t, ok)
}

func TestSeedStore_GetRefreshesIdleTimer(t *testing.T) {
	store := NewSeedStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.For("k").Set(ctx, "s"))
	now = now.Add(50 * time.Minute)
	_, ok, _ := store.For("k").Get(ctx)
	require.True(t, ok)
	now = now.Add(50 * time.Minute)

	assert.Equal(t, 0, store.Sweep(time.Hour))
}

func TestSeedStore_SweepSparesLiveKeys(t *testing.T) {
	live := map[string]bool{"active": true}
	store := NewSeedStore().KeepWhile(func(key string) bool { return live[key] })
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.For("active").Set(ctx, "s1"))
	require.NoError(t, store.For("gone").Set(ctx, "s2"))
	now = now.Add(3 * time.Hour)

	assert.Equal(t, 1, store.Sweep(time.Hour))
	seed, ok, _ := store.For("active").Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "s1", seed)

	delete(live, "active")
	now = now.Add(3 * time.Hour)
	assert.Equal(t, 1, store.Sweep(time.Hour))
	assert.Equal(t, 0, store.Len())
}

// A session rebuilt after a long stretch of use keeps its ordering
func TestSeedStore_SeedOutlivesWindowWhileSessionIsUsed(t *testing.T) {
	sessions := feed.NewRegistry()
	store := NewSeedStore().KeepWhile(sessions.Has)
	now := time.Now()
	store.now = func() time.Time { return now }

	generated := 0
	controller := feed.NewController(
		testutil.NewFakeWordSource(testutil.NewTestWords(30)...),
		testutil.NewTestLogger(),
		feed.WithPageSize(5),
		feed.WithSeedGenerator(func() string {
			generated++
			return fmt.Sprintf("seed-%d", generated)
		}),
	)
	profile := feed.Profile{Completions: testutil.NewCompletionStore(), Seeds: store.For("tg:7")}
	ctx := context.Background()

	s, err := controller.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)
	sessions.Put("tg:7", s)
	before := s.Snapshot()

	// taps keep the session alive while the seed's own timer runs out
	for i := 0; i < 4; i++ {
		now = now.Add(30 * time.Minute)
		_, ok := sessions.Get("tg:7")
		require.True(t, ok)
		store.Sweep(time.Hour)
	}
	require.Equal(t, 1, store.Len())

	sessions.Clear()
	rebuilt, err := controller.Initialize(ctx, profile, domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 1, generated)
	assert.Equal(t, before.Seed, rebuilt.Snapshot().Seed)
	assert.Equal(t, before.Words, rebuilt.Snapshot().Words)
}
