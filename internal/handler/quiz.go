package handler

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
)

func (h *Handler) setQuiz(userID int64, q *domain.Quiz) {
	h.quizMux.Lock()
	defer h.quizMux.Unlock()
	h.quizzes[userID] = q
}

// withQuiz runs fn on the user's quiz under the quiz lock and renders the result.
// fn may return a toast for the callback acknowledgement.
func (h *Handler) withQuiz(c tele.Context, fn func(q *domain.Quiz) string) error {
	userID := c.Sender().ID

	h.quizMux.Lock()
	q, ok := h.quizzes[userID]
	if !ok {
		h.quizMux.Unlock()
		return notify(c, "The quiz has expired. Please start it again.")
	}
	toast := fn(q)
	text, markup := quizView(q)
	h.quizMux.Unlock()

	return h.renderWith(c, text, markup, toast)
}

// handleQuizVersions lists question sets
func (h *Handler) handleQuizVersions(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	versions, err := h.svc.Quiz.Versions(ctx)
	if err != nil {
		h.logger.Error("Failed to get quiz versions", zap.Error(err))
		return notify(c, "Failed to load quizzes")
	}

	text, markup := quizVersionsView(versions)
	return h.render(c, text, markup)
}

// handleQuizStart starts a fresh attempt with reshuffled answers
func (h *Handler) handleQuizStart(c tele.Context) error {
	userID := c.Sender().ID
	version := c.Data()

	ctx, cancel := requestContext()
	defer cancel()

	q, err := h.svc.Quiz.Start(ctx, version)
	if err != nil {
		h.logger.Error("Failed to start quiz", zap.String("version", version), zap.Error(err))
		return notify(c, "Failed to load the quiz")
	}
	h.setQuiz(userID, q)

	h.logger.Info("Quiz started",
		zap.Int64("user_id", userID),
		zap.String("version", version),
		zap.Int("questions", len(q.Questions)),
	)

	text, markup := quizView(q)
	return h.render(c, text, markup)
}

// handleQuizAnswer records a choice; data is "<question id>|<answer id>"
func (h *Handler) handleQuizAnswer(c tele.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Respond()
	}
	questionID, err1 := strconv.ParseInt(args[0], 10, 64)
	answerID, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		return c.Respond()
	}

	return h.withQuiz(c, func(q *domain.Quiz) string {
		if !q.Choose(questionID, answerID) && q.Submitted {
			return "This attempt is already graded"
		}
		return ""
	})
}

// handleQuizPrev moves to the previous question
func (h *Handler) handleQuizPrev(c tele.Context) error {
	return h.withQuiz(c, func(q *domain.Quiz) string {
		q.Prev()
		return ""
	})
}

// handleQuizNext moves to the next question
func (h *Handler) handleQuizNext(c tele.Context) error {
	return h.withQuiz(c, func(q *domain.Quiz) string {
		q.Next()
		return ""
	})
}

// handleQuizSubmit grades the attempt, or jumps to the first unanswered question
func (h *Handler) handleQuizSubmit(c tele.Context) error {
	return h.withQuiz(c, func(q *domain.Quiz) string {
		score, err := q.Submit()
		switch {
		case errors.Is(err, domain.ErrUnanswered):
			return "Answer every question first"
		case err != nil:
			return "This quiz has no questions"
		}

		h.logger.Info("Quiz submitted",
			zap.Int64("user_id", c.Sender().ID),
			zap.String("version", q.Version),
			zap.Int("correct", score.Correct),
			zap.Int("total", score.Total),
		)
		return fmt.Sprintf("Score: %d/%d", score.Correct, score.Total)
	})
}
