package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name          string
		category      string
		day           string
		expected      Filter
		expectedError bool
	}{
		{
			name:     "empty means all",
			expected: Filter{},
		},
		{
			name:     "explicit all",
			category: "ALL",
			day:      "all",
			expected: Filter{},
		},
		{
			name:     "category only",
			category: " toeic ",
			expected: Filter{Category: strPtr("toeic")},
		},
		{
			name:     "both",
			category: "toeic",
			day:      "3",
			expected: Filter{Category: strPtr("toeic"), Day: intPtr(3)},
		},
		{
			name:          "day not a number",
			day:           "three",
			expectedError: true,
		},
		{
			name:          "negative day",
			day:           "-1",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.category, tt.day)

			if tt.expectedError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFilter))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(f), "got %s", f)
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	word := WordEntry{ID: 1, Active: true, Category: strPtr("toeic"), Day: intPtr(2)}
	inactive := WordEntry{ID: 2, Active: false}
	bare := WordEntry{ID: 3, Active: true}

	tests := []struct {
		name     string
		filter   Filter
		word     WordEntry
		expected bool
	}{
		{"zero filter matches active", Filter{}, word, true},
		{"zero filter rejects inactive", Filter{}, inactive, false},
		{"category match", Filter{Category: strPtr("toeic")}, word, true},
		{"category mismatch", Filter{Category: strPtr("ielts")}, word, false},
		{"category on entry without one", Filter{Category: strPtr("toeic")}, bare, false},
		{"day match", Filter{Day: intPtr(2)}, word, true},
		{"day mismatch", Filter{Day: intPtr(1)}, word, false},
		{"day on entry without one", Filter{Day: intPtr(1)}, bare, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(tt.word))
		})
	}
}

func TestFilter_EqualAndLabels(t *testing.T) {
	a := Filter{Category: strPtr("toeic"), Day: intPtr(1)}
	b := Filter{Category: strPtr("toeic"), Day: intPtr(1)}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(a.WithDay(nil)))
	assert.False(t, a.Equal(a.WithCategory(strPtr("ielts"))))
	assert.True(t, Filter{}.IsZero())
	assert.Equal(t, "category=toeic day=1", a.String())
	assert.Equal(t, "category=all day=all", Filter{}.String())
}
