package domain

import "time"

// WordEntry is one vocabulary card
type WordEntry struct {
	ID        int64     `json:"id"`
	Term      string    `json:"term"`
	Meaning   string    `json:"meaning"`
	Note      string    `json:"note,omitempty"`
	Day       *int      `json:"day,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// WordPair is a simplified version for display
type WordPair struct {
	Term    string
	Meaning string
}

// Pair returns the display pair of the entry
func (w WordEntry) Pair() WordPair {
	return WordPair{Term: w.Term, Meaning: w.Meaning}
}
