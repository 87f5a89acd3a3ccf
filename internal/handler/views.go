package handler

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
	"wordfeed/internal/feed"
)

const (
	// Telegram caps messages at 4096 characters
	maxFeedText    = 3500
	maxDoneButtons = 30
	doneButtonsRow = 5
)

func filterLine(f domain.Filter) string {
	return fmt.Sprintf("category: %s · day: %s", f.CategoryLabel(), f.DayLabel())
}

// feedView renders the delivered list as numbered cards with a done button per card
func feedView(st feed.State) (string, *tele.ReplyMarkup) {
	var b strings.Builder
	b.WriteString("📚 Words · " + filterLine(st.Filter) + "\n\n")

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row

	if st.CaughtUp() {
		b.WriteString("🎉 All caught up! Nothing left to study for this filter.\n")
		b.WriteString("Change the filter or reset your progress to start over.")
		rows = append(rows,
			markup.Row(btnFilter, btnReset),
			markup.Row(btnMainMenu),
		)
		markup.Inline(rows...)
		return b.String(), markup
	}

	shown := 0
	for i, w := range st.Words {
		card := fmt.Sprintf("%d. %s — %s\n", i+1, w.Term, w.Meaning)
		if w.Note != "" {
			card += "    " + w.Note + "\n"
		}
		if b.Len()+len(card) > maxFeedText {
			break
		}
		b.WriteString(card)
		shown++
	}
	if hidden := len(st.Words) - shown; hidden > 0 {
		fmt.Fprintf(&b, "…and %d more\n", hidden)
	}

	fmt.Fprintf(&b, "\nShowing %d", len(st.Words))
	if st.HasMore {
		b.WriteString(" · more available")
	}

	limit := shown
	if limit > maxDoneButtons {
		limit = maxDoneButtons
	}
	var row tele.Row
	for i := 0; i < limit; i++ {
		id := strconv.FormatInt(st.Words[i].ID, 10)
		row = append(row, markup.Data(fmt.Sprintf("✓ %d", i+1), btnDone.Unique, id))
		if len(row) == doneButtonsRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if st.HasMore {
		rows = append(rows, markup.Row(btnMore))
	}
	rows = append(rows,
		markup.Row(btnFilter, btnReset),
		markup.Row(btnMainMenu),
	)
	markup.Inline(rows...)

	return b.String(), markup
}

// filterView shows the active filter with pickers for each facet
func filterView(f domain.Filter) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Category: "+f.CategoryLabel(), btnPickCategory.Unique)),
		markup.Row(markup.Data("Day: "+f.DayLabel(), btnPickDay.Unique, "1")),
		markup.Row(btnClearFilter),
		markup.Row(btnWords),
	)
	return "🔎 Filter\n\n" + filterLine(f), markup
}

// categoryPickerView lists categories; "all" clears the category
func categoryPickerView(categories []string, current domain.Filter) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{markup.Row(markup.Data(mark("All categories", current.Category == nil), btnSetCategory.Unique, domain.AllValue))}

	for _, c := range categories {
		selected := current.Category != nil && *current.Category == c
		rows = append(rows, markup.Row(markup.Data(mark(c, selected), btnSetCategory.Unique, c)))
	}
	rows = append(rows, markup.Row(btnFilter))
	markup.Inline(rows...)

	text := "Choose a category:"
	if len(categories) == 0 {
		text = "No categories yet."
	}
	return text, markup
}

// dayPickerView lists one page of day buckets with navigation
func dayPickerView(days []domain.DayBucket, page, totalPages int, current domain.Filter) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{markup.Row(markup.Data(mark("All days", current.Day == nil), btnSetDay.Unique, domain.AllValue))}

	for _, d := range days {
		selected := current.Day != nil && *current.Day == d.Day
		rows = append(rows, markup.Row(markup.Data(mark(d.DisplayString(), selected), btnSetDay.Unique, d.DayString())))
	}

	if totalPages > 1 {
		nav := tele.Row{}
		if page > 1 {
			nav = append(nav, markup.Data("⬅️", btnPickDay.Unique, strconv.Itoa(page-1)))
		}
		if page < totalPages {
			nav = append(nav, markup.Data("➡️", btnPickDay.Unique, strconv.Itoa(page+1)))
		}
		rows = append(rows, nav)
	}
	rows = append(rows, markup.Row(btnFilter))
	markup.Inline(rows...)

	text := fmt.Sprintf("Choose a day (page %d/%d):", page, totalPages)
	if len(days) == 0 {
		text = "No days yet."
	}
	return text, markup
}

func mark(label string, selected bool) string {
	if selected {
		return "• " + label
	}
	return label
}

// quizVersionsView lists question sets
func quizVersionsView(versions []string) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, v := range versions {
		rows = append(rows, markup.Row(markup.Data(v, btnQuizVersion.Unique, v)))
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	if len(versions) == 0 {
		return "No quizzes yet.", markup
	}
	return "📝 Choose a quiz:", markup
}

// quizView renders the focused question. After submit it marks right and wrong answers.
func quizView(q *domain.Quiz) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	question := q.CurrentQuestion()
	if question == nil {
		markup.Inline(markup.Row(btnQuiz), markup.Row(btnMainMenu))
		return fmt.Sprintf("Quiz %q has no questions.", q.Version), markup
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 %s · question %d/%d (%d%%)\n", q.Version, q.Current+1, len(q.Questions), q.Progress())
	if q.Score != nil {
		fmt.Fprintf(&b, "Score: %d/%d\n", q.Score.Correct, q.Score.Total)
	}
	b.WriteString("\n" + question.Text + "\n")
	if question.Note != "" {
		b.WriteString("\n" + question.Note + "\n")
	}

	chosen, answered := q.Choices[question.ID]
	var rows []tele.Row
	for _, a := range question.Answers {
		label := a.Text
		switch {
		case q.Submitted && a.Correct:
			label = "✅ " + label
		case q.Submitted && answered && a.ID == chosen:
			label = "❌ " + label
		case answered && a.ID == chosen:
			label = "● " + label
		}
		data := strconv.FormatInt(question.ID, 10) + "|" + strconv.FormatInt(a.ID, 10)
		rows = append(rows, markup.Row(markup.Data(label, btnQuizAnswer.Unique, data)))
	}

	nav := tele.Row{}
	if q.Current > 0 {
		nav = append(nav, btnQuizPrev)
	}
	if q.Current < len(q.Questions)-1 {
		nav = append(nav, btnQuizNext)
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	if !q.Submitted {
		rows = append(rows, markup.Row(btnQuizSubmit))
	}
	rows = append(rows, markup.Row(btnQuiz, btnMainMenu))
	markup.Inline(rows...)

	return b.String(), markup
}
