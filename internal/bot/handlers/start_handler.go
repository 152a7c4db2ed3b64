package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", update.Message.From.ID)

	// Group chats that talk to the bot are registered for the daily summary.
	if update.Message.Chat.Type != models.ChatTypePrivate {
		if err := h.deps.Store.RegisterChat(ctx, chatID); err != nil {
			log.ErrorContext(ctx, "Failed to register chat", "error", err, "chat_id", chatID)
		}
	}

	welcome := personalize(h.deps.Config.Messages.Welcome, h.deps.Config.Telegram.BotInfo)
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: welcome})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}

// personalize substitutes the @botname placeholder with the bot's actual
// username when it is known.
func personalize(text string, botInfo *models.User) string {
	if botInfo == nil || botInfo.Username == "" {
		return text
	}
	return strings.ReplaceAll(text, "@botname", "@"+botInfo.Username)
}
