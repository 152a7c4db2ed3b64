package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/talkweave/recapbot/internal/database"
)

// NewDefaultHandler returns the catch-all handler for updates that do not
// match a registered command. It persists group messages for later
// summarization and tracks the bot's own membership changes.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	return defaultHandler{deps}.Handle
}

type defaultHandler struct {
	deps HandlerDeps
}

func (h defaultHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.MyChatMember != nil:
		h.handleMembershipChange(ctx, update.MyChatMember)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

func (h defaultHandler) handleMessage(ctx context.Context, msg *models.Message) {
	log := h.deps.Logger.With("handler", "default")

	if msg.Chat.Type == models.ChatTypePrivate {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	// Chats the bot sees traffic in are registered even if /start was
	// never issued there.
	if err := h.deps.Store.RegisterChat(ctx, msg.Chat.ID); err != nil {
		log.ErrorContext(ctx, "Failed to register chat", "error", err, "chat_id", msg.Chat.ID)
	}

	record := database.Message{
		ChatID:    msg.Chat.ID,
		Username:  senderName(msg.From),
		Text:      text,
		Timestamp: time.Unix(int64(msg.Date), 0).UTC(),
	}
	if err := h.deps.Store.SaveMessage(ctx, &record); err != nil {
		log.ErrorContext(ctx, "Failed to save message", "error", err, "chat_id", msg.Chat.ID)
	}
}

func (h defaultHandler) handleMembershipChange(ctx context.Context, upd *models.ChatMemberUpdated) {
	log := h.deps.Logger.With("handler", "membership")
	chatID := upd.Chat.ID

	wasMember := isMember(upd.OldChatMember.Type)
	nowMember := isMember(upd.NewChatMember.Type)

	switch {
	case !wasMember && nowMember:
		log.InfoContext(ctx, "Bot added to chat", "chat_id", chatID, "chat_title", upd.Chat.Title)
		if err := h.deps.Store.RegisterChat(ctx, chatID); err != nil {
			log.ErrorContext(ctx, "Failed to register chat", "error", err, "chat_id", chatID)
		}
	case wasMember && !nowMember:
		log.InfoContext(ctx, "Bot removed from chat", "chat_id", chatID, "chat_title", upd.Chat.Title)
		if err := h.deps.Store.UnregisterChat(ctx, chatID); err != nil {
			log.ErrorContext(ctx, "Failed to unregister chat", "error", err, "chat_id", chatID)
		}
	}
}

// senderName picks a display name for the transcript: username, then first
// name, then a numeric fallback.
func senderName(from *models.User) string {
	switch {
	case from == nil:
		return "unknown"
	case from.Username != "":
		return from.Username
	case from.FirstName != "":
		return from.FirstName
	default:
		return "User" + strconv.FormatInt(from.ID, 10)
	}
}

func isMember(t models.ChatMemberType) bool {
	switch t {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember, models.ChatMemberTypeRestricted:
		return true
	default:
		return false
	}
}
