package sqlite

import (
	"context"
	"encoding/json"
)

// CompletionKey is the fixed key the completion set lives under
const CompletionKey = "completedWords"

// Completions is one profile's completion set inside the local store
type Completions struct {
	store *LocalStore
	key   string
}

// Completions returns the completion set of a profile
func (s *LocalStore) Completions(profile string) *Completions {
	return &Completions{store: s, key: CompletionKey + ":" + profile}
}

// Get returns stored ids. Absent or malformed content reads as an empty set.
func (c *Completions) Get(ctx context.Context) ([]int64, error) {
	raw, ok, err := c.store.GetItem(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

// Set replaces the stored ids
func (c *Completions) Set(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return c.store.RemoveItem(ctx, c.key)
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.store.SetItem(ctx, c.key, string(raw))
}

// ResetAllCompletions clears the completion set of every profile
func (s *LocalStore) ResetAllCompletions(ctx context.Context) (int64, error) {
	return s.RemovePrefix(ctx, CompletionKey+":")
}
