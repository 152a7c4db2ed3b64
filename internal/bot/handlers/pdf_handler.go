package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/talkweave/recapbot/internal/pdf"
)

// NewPDFHandler returns a handler for the admin /pdf command, which exports
// a chat's recent messages as a PDF document.
func NewPDFHandler(deps HandlerDeps) bot.HandlerFunc {
	return pdfHandler{deps}.Handle
}

type pdfHandler struct {
	deps HandlerDeps
}

func (h pdfHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "pdf")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /pdf command", "chat_id", chatID)

	targetID, ok := parseChatIDArg(update.Message.Text)
	if !ok {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.PDFUsage)
		return
	}

	since := time.Now().UTC().Add(-h.deps.Config.Summary.Window)
	messages, err := h.deps.Store.GetMessagesSince(ctx, targetID, since)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load messages", "error", err, "target_chat_id", targetID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError)
		return
	}
	if len(messages) == 0 {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.NoMessages)
		return
	}

	title := fmt.Sprintf("Chat %d, last %s", targetID, h.deps.Config.Summary.Window)
	doc, err := pdf.Render(title, messages)
	if err != nil {
		log.ErrorContext(ctx, "Failed to render PDF", "error", err, "target_chat_id", targetID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	filename := fmt.Sprintf("chat_%d_%s.pdf", targetID, time.Now().UTC().Format("2006-01-02"))
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(doc)},
		Caption:  h.deps.Config.Messages.PDFCaption,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send PDF document", "error", err, "chat_id", chatID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Sent PDF export", "target_chat_id", targetID, "messages", len(messages), "bytes", len(doc))
}

func (h pdfHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// parseChatIDArg extracts the chat ID argument from "/pdf <chat_id>".
func parseChatIDArg(text string) (int64, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
