package repository

import (
	"context"

	"wordfeed/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	GrantAdmin(ctx context.Context, userID int64) error
}

// PageQuery asks the word source for one seeded, filtered window of active entries
type PageQuery struct {
	Seed     string
	Limit    int
	Offset   int
	Excluded []int64
	Filter   domain.Filter
}

// WordSource is the remote, range-queryable collection the feed reads from
type WordSource interface {
	FetchPage(ctx context.Context, q PageQuery) ([]domain.WordEntry, error)
}

// WordRepository defines word data operations
type WordRepository interface {
	WordSource
	Categories(ctx context.Context) ([]string, error)
	Days(ctx context.Context) ([]domain.DayBucket, error)
	ExistingTerms(ctx context.Context) ([]string, error)
	InsertWords(ctx context.Context, words []domain.WordEntry) (int, error)
	ReplaceWords(ctx context.Context, words []domain.WordEntry) (int, error)
}

// QuestionRepository defines quiz data operations
type QuestionRepository interface {
	Versions(ctx context.Context) ([]string, error)
	QuestionsByVersion(ctx context.Context, version string) ([]domain.Question, error)
	SaveVersion(ctx context.Context, version string, questions []domain.Question) error
	AddAnswer(ctx context.Context, questionID int64, a domain.Answer) (domain.Answer, error)
	DeleteAnswer(ctx context.Context, answerID int64) error
}

// CompletionStore holds one profile's completed word ids in durable local storage
type CompletionStore interface {
	Get(ctx context.Context) ([]int64, error)
	Set(ctx context.Context, ids []int64) error
}

// CompletionResetter clears every stored completion set at once
type CompletionResetter interface {
	ResetAllCompletions(ctx context.Context) (int64, error)
}

// SeedStore holds the randomization seed for the lifetime of one viewing session
type SeedStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, seed string) error
}
