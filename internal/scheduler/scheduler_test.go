package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingStore struct {
	removed int
	calls   atomic.Int32
	idle    time.Duration
}

func (c *countingStore) Sweep(idle time.Duration) int {
	c.calls.Add(1)
	c.idle = idle
	return c.removed
}

func TestSweeper_Sweep(t *testing.T) {
	sessions := &countingStore{removed: 2}
	seeds := &countingStore{removed: 3}

	s := NewSweeper(time.Hour, zap.NewNop(),
		Target{Name: "sessions", Store: sessions},
		Target{Name: "seeds", Store: seeds},
	)

	assert.Equal(t, 5, s.Sweep())
	assert.Equal(t, time.Hour, sessions.idle)
	assert.Equal(t, int32(1), seeds.calls.Load())
}

func TestSweeper_StartRunsJob(t *testing.T) {
	store := &countingStore{}
	s := NewSweeper(time.Hour, zap.NewNop(), Target{Name: "sessions", Store: store})
	s.every = 50 * time.Millisecond

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return store.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}
