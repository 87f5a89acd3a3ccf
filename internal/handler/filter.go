package handler

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
)

// handleFilterMenu shows the active filter
func (h *Handler) handleFilterMenu(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, c.Sender().ID)
	if err != nil {
		return notify(c, textLoadFailed)
	}

	text, markup := filterView(s.Filter())
	return h.render(c, text, markup)
}

// handlePickCategory lists categories
func (h *Handler) handlePickCategory(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, c.Sender().ID)
	if err != nil {
		return notify(c, textLoadFailed)
	}

	categories, err := h.svc.Catalog.Categories(ctx)
	if err != nil {
		h.logger.Error("Failed to get categories", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load categories"})
	}

	text, markup := categoryPickerView(categories, s.Filter())
	return h.render(c, text, markup)
}

// handlePickDay lists one page of day buckets
func (h *Handler) handlePickDay(c tele.Context) error {
	page, err := strconv.Atoi(strings.TrimSpace(c.Data()))
	if err != nil {
		page = 1
	}

	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, c.Sender().ID)
	if err != nil {
		return notify(c, textLoadFailed)
	}

	days, totalPages, err := h.svc.Catalog.DaysPage(ctx, page)
	if err != nil {
		h.logger.Error("Failed to get days", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load days"})
	}
	if page > totalPages {
		page = totalPages
	}

	text, markup := dayPickerView(days, page, totalPages, s.Filter())
	return h.render(c, text, markup)
}

// handleSetCategory applies a category, keeping the day
func (h *Handler) handleSetCategory(c tele.Context) error {
	f, err := domain.ParseFilter(c.Data(), "")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown category"})
	}
	return h.changeFilter(c, func(cur domain.Filter) domain.Filter {
		return cur.WithCategory(f.Category)
	})
}

// handleSetDay applies a day, keeping the category
func (h *Handler) handleSetDay(c tele.Context) error {
	f, err := domain.ParseFilter("", c.Data())
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown day"})
	}
	return h.changeFilter(c, func(cur domain.Filter) domain.Filter {
		return cur.WithDay(f.Day)
	})
}

// handleClearFilter shows every word again
func (h *Handler) handleClearFilter(c tele.Context) error {
	return h.changeFilter(c, func(domain.Filter) domain.Filter {
		return domain.Filter{}
	})
}

func (h *Handler) changeFilter(c tele.Context, next func(domain.Filter) domain.Filter) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	s, err := h.session(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to start feed", zap.Int64("user_id", userID), zap.Error(err))
		return notify(c, textLoadFailed)
	}

	filter := next(s.Filter())
	if err := h.svc.Feed.ChangeFilter(ctx, s, filter); err != nil {
		h.logger.Error("Failed to change filter",
			zap.Int64("user_id", userID),
			zap.Stringer("filter", filter),
			zap.Error(err),
		)
		// the half-reset session would read as caught up; rebuild it on the next request
		h.svc.Sessions.Delete(ownerKey(userID))
		return notify(c, textLoadFailed)
	}

	h.logger.Debug("Filter changed", zap.Int64("user_id", userID), zap.Stringer("filter", filter))
	return h.showFeed(c, s)
}
