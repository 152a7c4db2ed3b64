package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/talkweave/recapbot/internal/summarizer"
	"github.com/talkweave/recapbot/internal/telegram"
)

// NewSummaryHandler returns a handler for the /summary command. It
// summarizes the chat's messages from the configured window and posts the
// result back to the chat.
func NewSummaryHandler(deps HandlerDeps) bot.HandlerFunc {
	return summaryHandler{deps}.Handle
}

type summaryHandler struct {
	deps HandlerDeps
}

func (h summaryHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "summary")

	if update.Message == nil {
		log.WarnContext(ctx, "Summary handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /summary command", "chat_id", chatID)

	since := time.Now().UTC().Add(-h.deps.Config.Summary.Window)
	messages, err := h.deps.Store.GetMessagesSince(ctx, chatID, since)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load messages", "error", err, "chat_id", chatID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.SummaryFailed)
		return
	}

	prompt, err := h.deps.Store.GetSetting(ctx, summarizer.PromptSettingKey)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load prompt setting, using default", "error", err)
		prompt = ""
	}

	summary, err := h.deps.Summarizer.Summarize(ctx, messages, prompt)
	if err != nil {
		if errors.Is(err, summarizer.ErrNotEnoughMessages) {
			h.reply(ctx, b, chatID, h.deps.Config.Messages.NotEnoughMessages)
			return
		}
		log.ErrorContext(ctx, "Failed to generate summary", "error", err, "chat_id", chatID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.SummaryFailed)
		return
	}

	text := h.deps.Config.Messages.SummaryHeader + "\n\n" + summary
	if err := telegram.SendLongMessage(ctx, b, chatID, text); err != nil {
		log.ErrorContext(ctx, "Failed to send summary", "error", err, "chat_id", chatID)
	}
}

func (h summaryHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
