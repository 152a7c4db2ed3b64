package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/talkweave/recapbot/internal/telegram"
)

// NewChatsHandler returns a handler for the admin /chats command, which
// lists all registered chats with their IDs and, when resolvable, titles.
func NewChatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatsHandler{deps}.Handle
}

type chatsHandler struct {
	deps HandlerDeps
}

func (h chatsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chats")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /chats command", "chat_id", chatID)

	chatIDs, err := h.deps.Store.GetRegisteredChats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load registered chats", "error", err)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if len(chatIDs) == 0 {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.NoChats)
		return
	}

	var sb strings.Builder
	sb.WriteString(h.deps.Config.Messages.ChatsHeader)
	for _, id := range chatIDs {
		sb.WriteString(fmt.Sprintf("\n%d", id))
		// Title lookup is best effort; an unreachable chat still gets listed.
		if chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: id}); err == nil && chat.Title != "" {
			sb.WriteString(" - " + chat.Title)
		}
	}

	if err := telegram.SendLongMessage(ctx, b, chatID, sb.String()); err != nil {
		log.ErrorContext(ctx, "Failed to send chat list", "error", err, "chat_id", chatID)
	}
}

func (h chatsHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
