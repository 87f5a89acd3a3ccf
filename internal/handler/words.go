package handler

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
	"wordfeed/internal/feed"
)

const textLoadFailed = "Could not load words. Please try again."

// session returns the user's live feed session, starting one with no filter when absent.
// A session whose first page failed is not kept, so the next request retries.
func (h *Handler) session(ctx context.Context, userID int64) (*feed.Session, error) {
	key := ownerKey(userID)
	if s, ok := h.svc.Sessions.Get(key); ok {
		return s, nil
	}

	s, err := h.svc.Feed.Initialize(ctx, h.svc.Profiles(key), domain.Filter{})
	if err != nil {
		return nil, err
	}
	h.svc.Sessions.Put(key, s)
	return s, nil
}

func (h *Handler) showFeed(c tele.Context, s *feed.Session) error {
	text, markup := feedView(s.Snapshot())
	return h.render(c, text, markup)
}

// handleWords shows the current feed
func (h *Handler) handleWords(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to start feed", zap.Int64("user_id", userID), zap.Error(err))
		return notify(c, textLoadFailed)
	}
	return h.showFeed(c, s)
}

// handleMore appends the next page. Taps while a page is loading are dropped.
func (h *Handler) handleMore(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to start feed", zap.Int64("user_id", userID), zap.Error(err))
		return notify(c, textLoadFailed)
	}

	if err := h.svc.Feed.LoadMore(ctx, s); err != nil {
		h.logger.Error("Failed to load more words", zap.Int64("user_id", userID), zap.Error(err))
		return notify(c, textLoadFailed)
	}
	return h.showFeed(c, s)
}

// handleDone marks one card as studied
func (h *Handler) handleDone(c tele.Context) error {
	userID := c.Sender().ID
	id, err := strconv.ParseInt(strings.TrimSpace(c.Data()), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown card"})
	}

	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to start feed", zap.Int64("user_id", userID), zap.Error(err))
		return notify(c, textLoadFailed)
	}

	if err := h.svc.Feed.Complete(ctx, s, id); err != nil {
		h.logger.Error("Failed to save completion",
			zap.Int64("user_id", userID),
			zap.Int64("word_id", id),
			zap.Error(err),
		)
		return notify(c, "Could not save your progress. Please try again.")
	}

	h.logger.Debug("Word completed", zap.Int64("user_id", userID), zap.Int64("word_id", id))
	return h.showFeed(c, s)
}

// handleReset clears the user's progress and restarts the feed with the same filter
func (h *Handler) handleReset(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to start feed", zap.Int64("user_id", userID), zap.Error(err))
		return notify(c, textLoadFailed)
	}

	if err := h.svc.Feed.ResetCompletions(ctx, s); err != nil {
		h.logger.Error("Failed to reset completions", zap.Int64("user_id", userID), zap.Error(err))
		h.svc.Sessions.Delete(ownerKey(userID))
		return notify(c, "Could not reset your progress. Please try again.")
	}

	h.logger.Info("Completions reset", zap.Int64("user_id", userID))
	return h.showFeed(c, s)
}
