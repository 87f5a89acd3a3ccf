package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/service"
)

const (
	checkTimeout     = 5 * time.Second
	textAskPassword  = "Hi! Send the study password to continue:"
	textGenericError = "Something went wrong. Please try again later."
)

// AuthMiddleware lets only users who entered the study password through
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()

			// Ensure user exists
			if err := authService.EnsureUserExists(ctx, userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return reply(c, textGenericError)
			}

			authorized, err := authService.IsAuthorized(ctx, userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return reply(c, textGenericError)
			}

			if !authorized {
				return reply(c, textAskPassword)
			}

			return next(c)
		}
	}
}

// AdminMiddleware lets only admins through
func AdminMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()

			admin, err := authService.IsAdmin(ctx, userID)
			if err != nil {
				logger.Error("Failed to check admin rights in middleware", zap.Error(err))
				return reply(c, textGenericError)
			}

			if !admin {
				logger.Warn("Non-admin tried an admin action", zap.Int64("user_id", userID))
				return reply(c, "Only admins can do that. Use /admin to unlock.")
			}

			return next(c)
		}
	}
}

// reply answers a callback with an alert, or a message with a message
func reply(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
