package testutil

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"wordfeed/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// NewTestWord creates an active test word
func NewTestWord(id int64, term, meaning string) domain.WordEntry {
	return domain.WordEntry{
		ID:        id,
		Term:      term,
		Meaning:   meaning,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

// NewTestWords creates active words with ids 1..n
func NewTestWords(n int) []domain.WordEntry {
	words := make([]domain.WordEntry, 0, n)
	for i := 1; i <= n; i++ {
		words = append(words, NewTestWord(int64(i), fmt.Sprintf("term%d", i), fmt.Sprintf("meaning%d", i)))
	}
	return words
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
