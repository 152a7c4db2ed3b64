package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
)

// MaxMessageLength is Telegram's limit for a single text message.
const MaxMessageLength = 4096

// SplitMessage splits text into chunks of at most MaxMessageLength
// characters. Splits happen at the last newline before the limit when one
// exists, so paragraphs stay intact where possible.
func SplitMessage(text string) []string {
	if len(text) <= MaxMessageLength {
		return []string{text}
	}

	var chunks []string
	for len(text) > MaxMessageLength {
		cut := MaxMessageLength
		if idx := strings.LastIndex(text[:MaxMessageLength], "\n"); idx > 0 {
			cut = idx
		}
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// SendLongMessage sends text to the chat, splitting it into multiple
// messages when it exceeds Telegram's length limit. Chunks are sent in
// order; the first failure aborts the remainder.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	for _, chunk := range SplitMessage(text) {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		}); err != nil {
			return fmt.Errorf("sending message chunk: %w", err)
		}
	}
	return nil
}
