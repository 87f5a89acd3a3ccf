// Package importer reads word lists and question sets from spreadsheet uploads.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"wordfeed/internal/domain"
)

// AnswersSheet is the optional sheet holding quiz answers
const AnswersSheet = "answers"

// WordSheet is the parsed content of a word workbook
type WordSheet struct {
	Words     []domain.WordEntry
	TotalRows int
	Skipped   int
	Errors    []string
}

// column aliases, lower-case; the first name is the canonical one
var (
	termColumn     = []string{"term", "engword", "word"}
	meaningColumn  = []string{"meaning", "korword", "translation"}
	noteColumn     = []string{"note", "etc"}
	dayColumn      = []string{"day"}
	categoryColumn = []string{"category", "topic"}
	activeColumn   = []string{"active", "useyn"}

	questionColumn = []string{"question"}
	questionNo     = []string{"question_no", "questionno", "question no"}
	answerColumn   = []string{"answer"}
	correctColumn  = []string{"correctyn", "correct"}
)

// ParseWords reads the first sheet of an xlsx workbook. The first row is the header.
func ParseWords(r io.Reader) (*WordSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, domain.ErrEmptyWorkbook
	}

	h := newHeader(rows[0])
	termIdx, err := h.require(termColumn)
	if err != nil {
		return nil, err
	}
	meaningIdx, err := h.require(meaningColumn)
	if err != nil {
		return nil, err
	}
	noteIdx := h.find(noteColumn)
	dayIdx := h.find(dayColumn)
	categoryIdx := h.find(categoryColumn)
	activeIdx := h.find(activeColumn)

	sheet := &WordSheet{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		sheet.TotalRows++

		term := cell(row, termIdx)
		if term == "" {
			sheet.Skipped++
			continue
		}

		w := domain.WordEntry{
			Term:    term,
			Meaning: cell(row, meaningIdx),
			Note:    cell(row, noteIdx),
			Active:  true,
		}

		if v := cell(row, dayIdx); v != "" {
			day, err := strconv.Atoi(v)
			if err != nil || day < 0 {
				sheet.Skipped++
				sheet.Errors = append(sheet.Errors, fmt.Sprintf("Row %d: invalid day %q", rowNum, v))
				continue
			}
			w.Day = &day
		}
		if v := cell(row, categoryIdx); v != "" {
			w.Category = &v
		}
		if v := cell(row, activeIdx); v != "" {
			w.Active = parseYes(v)
		}

		sheet.Words = append(sheet.Words, w)
	}

	if sheet.TotalRows == 0 {
		return nil, domain.ErrEmptyWorkbook
	}
	return sheet, nil
}

// ParseQuestions reads questions from the first sheet and their answers from the
// "answers" sheet when present. Answers refer to questions by 1-based data row.
func ParseQuestions(r io.Reader) ([]domain.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, domain.ErrEmptyWorkbook
	}

	h := newHeader(rows[0])
	textIdx, err := h.require(questionColumn)
	if err != nil {
		return nil, err
	}
	noteIdx := h.find(noteColumn)

	var questions []domain.Question
	for _, row := range rows[1:] {
		text := cell(row, textIdx)
		if text == "" {
			continue
		}
		questions = append(questions, domain.Question{Text: text, Note: cell(row, noteIdx)})
	}
	if len(questions) == 0 {
		return nil, domain.ErrEmptyWorkbook
	}

	if idx, _ := f.GetSheetIndex(AnswersSheet); idx < 0 {
		return questions, nil
	}

	answerRows, err := f.GetRows(AnswersSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get answer rows: %w", err)
	}
	if len(answerRows) < 2 {
		return questions, nil
	}

	ah := newHeader(answerRows[0])
	noIdx, err := ah.require(questionNo)
	if err != nil {
		return nil, err
	}
	answerIdx, err := ah.require(answerColumn)
	if err != nil {
		return nil, err
	}
	correctIdx, err := ah.require(correctColumn)
	if err != nil {
		return nil, err
	}
	answerNoteIdx := ah.find(noteColumn)

	for i, row := range answerRows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2

		no, err := strconv.Atoi(cell(row, noIdx))
		if err != nil || no < 1 || no > len(questions) {
			return nil, fmt.Errorf("answers row %d: unknown question %q", rowNum, cell(row, noIdx))
		}
		text := cell(row, answerIdx)
		if text == "" {
			return nil, fmt.Errorf("answers row %d: empty answer", rowNum)
		}

		q := &questions[no-1]
		q.Answers = append(q.Answers, domain.Answer{
			Text:    text,
			Correct: parseYes(cell(row, correctIdx)),
			Note:    cell(row, answerNoteIdx),
		})
	}

	return questions, nil
}

type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := h[key]; !ok && key != "" {
			h[key] = i
		}
	}
	return h
}

func (h header) find(aliases []string) int {
	for _, a := range aliases {
		if i, ok := h[a]; ok {
			return i
		}
	}
	return -1
}

func (h header) require(aliases []string) (int, error) {
	i := h.find(aliases)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", domain.ErrMissingColumn, aliases[0])
	}
	return i, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1", "o":
		return true
	}
	return false
}
