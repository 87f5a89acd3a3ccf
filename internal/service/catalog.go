package service

import (
	"context"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// daysPageSize is the number of day buttons per picker page
const daysPageSize = 7

// CatalogService lists the facets words can be filtered by
type CatalogService struct {
	wordRepo repository.WordRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(wordRepo repository.WordRepository) *CatalogService {
	return &CatalogService{wordRepo: wordRepo}
}

// Categories returns the distinct categories of active words
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.wordRepo.Categories(ctx)
}

// Days returns the day buckets of active words
func (s *CatalogService) Days(ctx context.Context) ([]domain.DayBucket, error) {
	return s.wordRepo.Days(ctx)
}

// DaysPage returns one picker page of day buckets and the total page count
func (s *CatalogService) DaysPage(ctx context.Context, page int) ([]domain.DayBucket, int, error) {
	days, err := s.wordRepo.Days(ctx)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (len(days) + daysPageSize - 1) / daysPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * daysPageSize
	end := start + daysPageSize
	if end > len(days) {
		end = len(days)
	}

	return days[start:end], totalPages, nil
}
