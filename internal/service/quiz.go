package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// QuizService runs multiple-choice quizzes over stored question sets
type QuizService struct {
	questionRepo repository.QuestionRepository
	shuffle      func(n int, swap func(i, j int))
	logger       *zap.Logger
}

// NewQuizService creates a new quiz service
func NewQuizService(questionRepo repository.QuestionRepository, logger *zap.Logger) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		shuffle:      rand.Shuffle,
		logger:       logger,
	}
}

// Versions returns the stored question set versions
func (s *QuizService) Versions(ctx context.Context) ([]string, error) {
	return s.questionRepo.Versions(ctx)
}

// Start loads a version and shuffles the answers of every question.
// A version without questions gives an empty quiz.
func (s *QuizService) Start(ctx context.Context, version string) (*domain.Quiz, error) {
	questions, err := s.questionRepo.QuestionsByVersion(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("load questions of %q: %w", version, err)
	}

	for i := range questions {
		answers := questions[i].Answers
		s.shuffle(len(answers), func(a, b int) {
			answers[a], answers[b] = answers[b], answers[a]
		})
	}

	return domain.NewQuiz(version, questions), nil
}

// SaveVersion replaces the questions of a version
func (s *QuizService) SaveVersion(ctx context.Context, version string, questions []domain.Question) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return domain.ErrEmptyVersion
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d has no text", i+1)
		}
	}

	if err := s.questionRepo.SaveVersion(ctx, version, questions); err != nil {
		s.logger.Error("Failed to save question set", zap.String("version", version), zap.Error(err))
		return err
	}

	s.logger.Info("Question set saved", zap.String("version", version), zap.Int("questions", len(questions)))
	return nil
}

// AddAnswer appends an answer to one stored question
func (s *QuizService) AddAnswer(ctx context.Context, questionID int64, a domain.Answer) (domain.Answer, error) {
	a.Text = strings.TrimSpace(a.Text)
	if a.Text == "" {
		return domain.Answer{}, domain.ErrEmptyAnswer
	}

	saved, err := s.questionRepo.AddAnswer(ctx, questionID, a)
	if err != nil {
		s.logger.Error("Failed to add answer", zap.Int64("question_id", questionID), zap.Error(err))
		return domain.Answer{}, err
	}

	s.logger.Info("Answer added", zap.Int64("question_id", questionID), zap.Int64("answer_id", saved.ID))
	return saved, nil
}

// DeleteAnswer removes one stored answer
func (s *QuizService) DeleteAnswer(ctx context.Context, answerID int64) error {
	if err := s.questionRepo.DeleteAnswer(ctx, answerID); err != nil {
		s.logger.Error("Failed to delete answer", zap.Int64("answer_id", answerID), zap.Error(err))
		return err
	}

	s.logger.Info("Answer deleted", zap.Int64("answer_id", answerID))
	return nil
}
