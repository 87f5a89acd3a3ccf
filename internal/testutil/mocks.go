package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GrantAdmin(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) FetchPage(ctx context.Context, q repository.PageQuery) ([]domain.WordEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WordEntry), args.Error(1)
}

func (m *MockWordRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWordRepository) Days(ctx context.Context) ([]domain.DayBucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayBucket), args.Error(1)
}

func (m *MockWordRepository) ExistingTerms(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWordRepository) InsertWords(ctx context.Context, words []domain.WordEntry) (int, error) {
	args := m.Called(ctx, words)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) ReplaceWords(ctx context.Context, words []domain.WordEntry) (int, error) {
	args := m.Called(ctx, words)
	return args.Int(0), args.Error(1)
}

// MockQuestionRepository is a mock for QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Versions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) QuestionsByVersion(ctx context.Context, version string) ([]domain.Question, error) {
	args := m.Called(ctx, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) SaveVersion(ctx context.Context, version string, questions []domain.Question) error {
	args := m.Called(ctx, version, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) AddAnswer(ctx context.Context, questionID int64, a domain.Answer) (domain.Answer, error) {
	args := m.Called(ctx, questionID, a)
	return args.Get(0).(domain.Answer), args.Error(1)
}

func (m *MockQuestionRepository) DeleteAnswer(ctx context.Context, answerID int64) error {
	args := m.Called(ctx, answerID)
	return args.Error(0)
}

// MockCompletionResetter is a mock for CompletionResetter
type MockCompletionResetter struct {
	mock.Mock
}

func (m *MockCompletionResetter) ResetAllCompletions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
