package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_PutGetDelete(t *testing.T) {
	r := NewRegistry()
	s := &Session{seed: "a"}

	_, ok := r.Get("u1")
	assert.False(t, ok)

	r.Put("u1", s)
	got, ok := r.Get("u1")
	assert.True(t, ok)
	assert.Same(t, s, got)

	r.Delete("u1")
	_, ok = r.Get("u1")
	assert.False(t, ok)
}

func TestRegistry_Sweep(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Put("idle", &Session{})
	r.Put("active", &Session{})
	now = now.Add(3 * time.Hour)
	r.Get("active")
	now = now.Add(time.Minute)

	removed := r.Sweep(2 * time.Hour)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get("active")
	assert.True(t, ok)
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	r.Put("a", &Session{})
	r.Put("b", &Session{})

	assert.Equal(t, 2, r.Clear())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_HasDoesNotTouch(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	assert.False(t, r.Has("u1"))
	r.Put("u1", &Session{})
	now = now.Add(3 * time.Hour)

	assert.True(t, r.Has("u1"))
	assert.Equal(t, 1, r.Sweep(2*time.Hour))
	assert.False(t, r.Has("u1"))
}
