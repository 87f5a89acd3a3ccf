package domain

import "fmt"

// ImportMode selects how an uploaded word list is applied
type ImportMode string

const (
	// ImportAppend inserts rows whose term is not yet stored
	ImportAppend ImportMode = "append"
	// ImportReplace drops every stored word first; identifiers are reused
	ImportReplace ImportMode = "replace"
)

// ImportResult holds the outcome of a word import
type ImportResult struct {
	Mode       ImportMode
	TotalRows  int
	Inserted   int
	Skipped    int
	Duplicates int
	Errors     []string
}

// Summary returns a one-line human readable report
func (r ImportResult) Summary() string {
	s := fmt.Sprintf("%d of %d rows imported (%s)", r.Inserted, r.TotalRows, r.Mode)
	if r.Duplicates > 0 {
		s += fmt.Sprintf(", %d duplicates", r.Duplicates)
	}
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	return s
}
