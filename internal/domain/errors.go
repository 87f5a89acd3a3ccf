package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrEmptyWorkbook = errors.New("workbook has no data rows")
	ErrMissingColumn = errors.New("workbook is missing a required column")
	ErrNoNewWords    = errors.New("no new words to import, all rows are duplicates")
	ErrUnanswered    = errors.New("quiz has unanswered questions")
	ErrEmptyVersion  = errors.New("version cannot be empty")
	ErrForbidden     = errors.New("forbidden")
	ErrEmptyAnswer   = errors.New("answer text cannot be empty")
)
