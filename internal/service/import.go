package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"wordfeed/internal/domain"
	"wordfeed/internal/importer"
	"wordfeed/internal/repository"
)

// SessionDiscarder drops every live feed session so each is rebuilt on next use
type SessionDiscarder interface {
	Clear() int
}

// QuestionSaver stores a parsed question set
type QuestionSaver interface {
	SaveVersion(ctx context.Context, version string, questions []domain.Question) error
}

// ImportService applies spreadsheet uploads to the word and question stores
type ImportService struct {
	wordRepo    repository.WordRepository
	questions   QuestionSaver
	completions repository.CompletionResetter
	sessions    []SessionDiscarder
	logger      *zap.Logger
}

// NewImportService creates a new import service. sessions are cleared after a destructive import.
func NewImportService(
	wordRepo repository.WordRepository,
	questions QuestionSaver,
	completions repository.CompletionResetter,
	logger *zap.Logger,
	sessions ...SessionDiscarder,
) *ImportService {
	return &ImportService{
		wordRepo:    wordRepo,
		questions:   questions,
		completions: completions,
		sessions:    sessions,
		logger:      logger,
	}
}

// ImportWords parses an xlsx word list and applies it in the given mode.
// In append mode terms already stored are skipped; ErrNoNewWords is returned with the
// result when nothing is left. Replace mode drops every stored word, reuses identifiers,
// and so clears every completion set and live session.
func (s *ImportService) ImportWords(ctx context.Context, r io.Reader, mode domain.ImportMode) (*domain.ImportResult, error) {
	sheet, err := importer.ParseWords(r)
	if err != nil {
		return nil, err
	}

	result := &domain.ImportResult{
		Mode:      mode,
		TotalRows: sheet.TotalRows,
		Skipped:   sheet.Skipped,
		Errors:    sheet.Errors,
	}

	switch mode {
	case domain.ImportAppend:
		return s.appendWords(ctx, sheet.Words, result)
	case domain.ImportReplace:
		return s.replaceWords(ctx, sheet.Words, result)
	default:
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}
}

func (s *ImportService) appendWords(ctx context.Context, words []domain.WordEntry, result *domain.ImportResult) (*domain.ImportResult, error) {
	existing, err := s.wordRepo.ExistingTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing terms: %w", err)
	}

	fresh, dupes := dedupe(words, existing)
	result.Duplicates = dupes
	if len(fresh) == 0 {
		return result, domain.ErrNoNewWords
	}

	inserted, err := s.wordRepo.InsertWords(ctx, fresh)
	if err != nil {
		s.logger.Error("Failed to insert words", zap.Error(err))
		return nil, err
	}
	result.Inserted = inserted

	s.logger.Info("Words appended", zap.Int("inserted", inserted), zap.Int("duplicates", dupes))
	return result, nil
}

func (s *ImportService) replaceWords(ctx context.Context, words []domain.WordEntry, result *domain.ImportResult) (*domain.ImportResult, error) {
	fresh, dupes := dedupe(words, nil)
	result.Duplicates = dupes
	if len(fresh) == 0 {
		return result, domain.ErrEmptyWorkbook
	}

	inserted, err := s.wordRepo.ReplaceWords(ctx, fresh)
	if err != nil {
		s.logger.Error("Failed to replace words", zap.Error(err))
		return nil, err
	}
	result.Inserted = inserted

	// identifiers restart, so every stored completion now points at a different word
	cleared, err := s.completions.ResetAllCompletions(ctx)
	if err != nil {
		s.logger.Error("Words replaced but completions were not cleared", zap.Error(err))
		return result, fmt.Errorf("clear completions: %w", err)
	}

	discarded := 0
	for _, d := range s.sessions {
		discarded += d.Clear()
	}

	s.logger.Info("Words replaced",
		zap.Int("inserted", inserted),
		zap.Int64("completion_sets_cleared", cleared),
		zap.Int("sessions_discarded", discarded),
	)
	return result, nil
}

// ImportQuestions parses an xlsx question set and stores it as version
func (s *ImportService) ImportQuestions(ctx context.Context, r io.Reader, version string) (int, error) {
	if strings.TrimSpace(version) == "" {
		return 0, domain.ErrEmptyVersion
	}

	questions, err := importer.ParseQuestions(r)
	if err != nil {
		return 0, err
	}

	if err := s.questions.SaveVersion(ctx, version, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

// dedupe drops rows whose trimmed, case-folded term is in existing or earlier in words
func dedupe(words []domain.WordEntry, existing []string) ([]domain.WordEntry, int) {
	seen := make(map[string]struct{}, len(existing)+len(words))
	for _, t := range existing {
		seen[normalizeTerm(t)] = struct{}{}
	}

	fresh := make([]domain.WordEntry, 0, len(words))
	dupes := 0
	for _, w := range words {
		key := normalizeTerm(w.Term)
		if _, ok := seen[key]; ok {
			dupes++
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, w)
	}
	return fresh, dupes
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
