package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AllValue is the picker value meaning "no restriction"
const AllValue = "all"

// Filter narrows the feed by deck category and/or day bucket.
// A nil field means "all".
type Filter struct {
	Category *string `json:"category,omitempty"`
	Day      *int    `json:"day,omitempty"`
}

// ParseFilter builds a filter from raw picker values. Empty strings and "all" mean no restriction.
func ParseFilter(category, day string) (Filter, error) {
	var f Filter

	category = strings.TrimSpace(category)
	if category != "" && !strings.EqualFold(category, AllValue) {
		f.Category = &category
	}

	day = strings.TrimSpace(day)
	if day != "" && !strings.EqualFold(day, AllValue) {
		n, err := strconv.Atoi(day)
		if err != nil || n < 0 {
			return Filter{}, fmt.Errorf("invalid day %q: %w", day, ErrInvalidFilter)
		}
		f.Day = &n
	}

	return f, nil
}

// WithCategory returns a copy with the category replaced (nil clears it)
func (f Filter) WithCategory(category *string) Filter {
	f.Category = category
	return f
}

// WithDay returns a copy with the day replaced (nil clears it)
func (f Filter) WithDay(day *int) Filter {
	f.Day = day
	return f
}

// IsZero reports whether the filter matches every entry
func (f Filter) IsZero() bool {
	return f.Category == nil && f.Day == nil
}

// Equal compares filters by value
func (f Filter) Equal(o Filter) bool {
	if (f.Category == nil) != (o.Category == nil) {
		return false
	}
	if f.Category != nil && *f.Category != *o.Category {
		return false
	}
	if (f.Day == nil) != (o.Day == nil) {
		return false
	}
	return f.Day == nil || *f.Day == *o.Day
}

// Matches reports whether an active entry passes the filter
func (f Filter) Matches(w WordEntry) bool {
	if !w.Active {
		return false
	}
	if f.Category != nil && (w.Category == nil || *w.Category != *f.Category) {
		return false
	}
	if f.Day != nil && (w.Day == nil || *w.Day != *f.Day) {
		return false
	}
	return true
}

// CategoryLabel returns the category or "all"
func (f Filter) CategoryLabel() string {
	if f.Category == nil {
		return AllValue
	}
	return *f.Category
}

// DayLabel returns the day number or "all"
func (f Filter) DayLabel() string {
	if f.Day == nil {
		return AllValue
	}
	return strconv.Itoa(*f.Day)
}

func (f Filter) String() string {
	return "category=" + f.CategoryLabel() + " day=" + f.DayLabel()
}
