package domain

import (
	"fmt"
	"strconv"
)

// DayBucket represents a study day with its active word count
type DayBucket struct {
	Day       int `json:"day"`
	WordCount int `json:"word_count"`
}

// DayString returns the day number as used in callback data
func (d DayBucket) DayString() string {
	return strconv.Itoa(d.Day)
}

// DisplayString returns user-friendly label
func (d DayBucket) DisplayString() string {
	return fmt.Sprintf("Day %d (%d)", d.Day, d.WordCount)
}
