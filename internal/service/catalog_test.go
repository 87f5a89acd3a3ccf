package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"wordfeed/internal/domain"
	"wordfeed/internal/testutil"
)

func makeDays(n int) []domain.DayBucket {
	days := make([]domain.DayBucket, 0, n)
	for i := 1; i <= n; i++ {
		days = append(days, domain.DayBucket{Day: i, WordCount: i * 2})
	}
	return days
}

func TestCatalogService_DaysPage(t *testing.T) {
	tests := []struct {
		name          string
		page          int
		days          []domain.DayBucket
		mockError     error
		expectedDays  []int
		expectedPages int
		expectedError bool
	}{
		{
			name:          "first page",
			page:          1,
			days:          makeDays(10),
			expectedDays:  []int{1, 2, 3, 4, 5, 6, 7},
			expectedPages: 2,
		},
		{
			name:          "second page",
			page:          2,
			days:          makeDays(10),
			expectedDays:  []int{8, 9, 10},
			expectedPages: 2,
		},
		{
			name:          "page below one is first page",
			page:          0,
			days:          makeDays(3),
			expectedDays:  []int{1, 2, 3},
			expectedPages: 1,
		},
		{
			name:          "page past the end is last page",
			page:          9,
			days:          makeDays(8),
			expectedDays:  []int{8},
			expectedPages: 2,
		},
		{
			name:          "no days",
			page:          1,
			days:          nil,
			expectedDays:  []int{},
			expectedPages: 1,
		},
		{
			name:          "repository error",
			page:          1,
			mockError:     fmt.Errorf("database error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockWordRepository)
			mockRepo.On("Days", mock.Anything).Return(tt.days, tt.mockError)

			service := NewCatalogService(mockRepo)

			days, totalPages, err := service.DaysPage(context.Background(), tt.page)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPages, totalPages)
			got := make([]int, 0, len(days))
			for _, d := range days {
				got = append(got, d.Day)
			}
			assert.Equal(t, tt.expectedDays, got)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Categories(t *testing.T) {
	mockRepo := new(testutil.MockWordRepository)
	mockRepo.On("Categories", mock.Anything).Return([]string{"nouns", "verbs"}, nil)

	service := NewCatalogService(mockRepo)

	categories, err := service.Categories(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"nouns", "verbs"}, categories)
	mockRepo.AssertExpectations(t)
}
