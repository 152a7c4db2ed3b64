// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that checks if the message sender is the
// configured admin user. Commands from anyone else are silently ignored so
// the bot does not reveal which commands exist.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			if userID != deps.Config.Telegram.AdminUserID {
				deps.Logger.With("middleware", "AdminOnly").WarnContext(ctx,
					"Ignoring admin command from unauthorized user",
					"user_id", userID,
					"chat_id", update.Message.Chat.ID)
				return
			}

			next(ctx, bot, update)
		}
	}
}
