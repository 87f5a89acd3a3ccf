package handler

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
)

const (
	textMainMenu     = "🏠 Main menu\n\nChoose an action:"
	textAskPassword  = "Hi! Send the study password to continue:"
	textGenericError = "Something went wrong. Please try again later."
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.svc.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(textGenericError)
	}

	authorized, err := h.svc.Auth.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(textGenericError)
	}

	h.ResetState(userID)

	if !authorized {
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingPassword})
		return c.Send(textAskPassword)
	}

	return h.render(c, textMainMenu, mainMenuMarkup())
}

// handleAdminCommand unlocks admin rights: "/admin <password>" or "/admin" then the password
func (h *Handler) handleAdminCommand(c tele.Context) error {
	userID := c.Sender().ID

	if password := strings.TrimSpace(c.Message().Payload); password != "" {
		// keep the password out of the chat history
		if err := c.Delete(); err != nil {
			h.logger.Debug("Failed to delete admin password message", zap.Error(err))
		}
		return h.grantAdmin(c, userID, password)
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingAdminPassword})
	return c.Send("Send the admin password:")
}

func (h *Handler) grantAdmin(c tele.Context, userID int64, password string) error {
	ctx, cancel := requestContext()
	defer cancel()

	h.ResetState(userID)

	if err := h.svc.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(textGenericError)
	}

	err := h.svc.Auth.GrantAdmin(ctx, userID, password)
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.logger.Warn("Rejected admin password", zap.Int64("user_id", userID))
		return c.Send("Wrong admin password")
	case err != nil:
		h.logger.Error("Failed to grant admin", zap.Error(err))
		return c.Send(textGenericError)
	}

	h.logger.Info("Admin rights granted", zap.Int64("user_id", userID))
	return c.Send(textAdminHelp)
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	if h.GetState(userID).State == domain.StateWaitingAdminPassword {
		if err := c.Delete(); err != nil {
			h.logger.Debug("Failed to delete admin password message", zap.Error(err))
		}
		return h.grantAdmin(c, userID, text)
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.svc.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	authorized, err := h.svc.Auth.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(textGenericError)
	}

	if authorized {
		h.ResetState(userID)
		return c.Send(textMainMenu, mainMenuMarkup())
	}

	if !h.svc.Auth.CheckPassword(text) {
		return c.Send("Wrong password")
	}

	if err := h.svc.Auth.AuthorizeUser(ctx, userID); err != nil {
		h.logger.Error("Failed to authorize user", zap.Error(err))
		return c.Send(textGenericError)
	}

	h.logger.Info("User authorized", zap.Int64("user_id", userID))
	h.ResetState(userID)
	return c.Send("✅ Access granted!\n\n"+textMainMenu, mainMenuMarkup())
}
