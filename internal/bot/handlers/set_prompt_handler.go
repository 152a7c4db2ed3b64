package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/talkweave/recapbot/internal/summarizer"
)

// NewSetPromptHandler returns a handler for the admin /set_prompt command,
// which stores a custom summary prompt in the settings table.
func NewSetPromptHandler(deps HandlerDeps) bot.HandlerFunc {
	return setPromptHandler{deps}.Handle
}

type setPromptHandler struct {
	deps HandlerDeps
}

func (h setPromptHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_prompt")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /set_prompt command", "chat_id", chatID)

	prompt := promptArg(update.Message.Text)
	if prompt == "" {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.PromptUsage)
		return
	}

	if err := h.deps.Store.SetSetting(ctx, summarizer.PromptSettingKey, prompt); err != nil {
		log.ErrorContext(ctx, "Failed to store prompt", "error", err)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Updated summary prompt", "prompt_chars", len(prompt))
	h.reply(ctx, b, chatID, h.deps.Config.Messages.PromptUpdated)
}

func (h setPromptHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// promptArg strips the command (and optional @botname suffix) from the
// message text and returns the remainder.
func promptArg(text string) string {
	_, rest, found := strings.Cut(text, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}
