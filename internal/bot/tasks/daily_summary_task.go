package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/talkweave/recapbot/internal/summarizer"
	"github.com/talkweave/recapbot/internal/telegram"
)

// lastSummaryKeyPrefix prefixes the per-chat setting recording when the last
// scheduled summary was posted.
const lastSummaryKeyPrefix = "last_summary_ts_"

// minSummaryInterval guards against double posting when the process restarts
// close to the scheduled time. Slightly under 24h so normal daily runs are
// never skipped.
const minSummaryInterval = 23 * time.Hour

// sendFunc delivers one outbound text to a chat. The broadcast loop depends
// on it instead of the Telegram client directly so the loop can be tested
// without a live connection.
type sendFunc func(ctx context.Context, chatID int64, text string) error

// newDailySummaryTask creates the scheduled task that posts a summary to
// every registered chat. Chats are processed sequentially; a failure in one
// chat does not stop the others.
func newDailySummaryTask(deps TaskDeps) ScheduledTaskFunc {
	return dailySummaryTask(deps, func(ctx context.Context, chatID int64, text string) error {
		return telegram.SendLongMessage(ctx, deps.TG, chatID, text)
	})
}

func dailySummaryTask(deps TaskDeps, send sendFunc) ScheduledTaskFunc {
	log := deps.Logger.With("task", "daily_summary")

	return func(ctx context.Context) error {
		chatIDs, err := deps.Store.GetRegisteredChats(ctx)
		if err != nil {
			return fmt.Errorf("loading registered chats: %w", err)
		}
		if len(chatIDs) == 0 {
			log.InfoContext(ctx, "No registered chats, nothing to summarize")
			return nil
		}

		prompt, err := deps.Store.GetSetting(ctx, summarizer.PromptSettingKey)
		if err != nil {
			log.ErrorContext(ctx, "Failed to load prompt setting, using default", "error", err)
			prompt = ""
		}

		now := time.Now().UTC()
		since := now.Add(-deps.Config.Summary.Window)
		var failures int

		for _, chatID := range chatIDs {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if recentlySummarized(ctx, deps, chatID, now) {
				log.InfoContext(ctx, "Skipping chat, summarized recently", "chat_id", chatID)
				continue
			}

			messages, err := deps.Store.GetMessagesSince(ctx, chatID, since)
			if err != nil {
				log.ErrorContext(ctx, "Failed to load messages", "error", err, "chat_id", chatID)
				failures++
				continue
			}

			summary, err := deps.Summarizer.Summarize(ctx, messages, prompt)
			if err != nil {
				if errors.Is(err, summarizer.ErrNotEnoughMessages) {
					log.InfoContext(ctx, "Skipping chat, not enough messages", "chat_id", chatID, "messages", len(messages))
					continue
				}
				log.ErrorContext(ctx, "Failed to generate summary", "error", err, "chat_id", chatID)
				failures++
				continue
			}

			text := deps.Config.Messages.SummaryHeader + "\n\n" + summary
			if err := send(ctx, chatID, text); err != nil {
				log.ErrorContext(ctx, "Failed to send summary", "error", err, "chat_id", chatID)
				failures++
				continue
			}

			key := lastSummaryKeyPrefix + strconv.FormatInt(chatID, 10)
			if err := deps.Store.SetSetting(ctx, key, now.Format(time.RFC3339)); err != nil {
				log.ErrorContext(ctx, "Failed to record summary timestamp", "error", err, "chat_id", chatID)
			}

			log.InfoContext(ctx, "Posted scheduled summary", "chat_id", chatID, "messages", len(messages))
		}

		if failures > 0 {
			return fmt.Errorf("daily summary failed for %d of %d chats", failures, len(chatIDs))
		}
		return nil
	}
}

// recentlySummarized reports whether a scheduled summary was posted to the
// chat within minSummaryInterval. Unparseable or missing timestamps count as
// not recent.
func recentlySummarized(ctx context.Context, deps TaskDeps, chatID int64, now time.Time) bool {
	key := lastSummaryKeyPrefix + strconv.FormatInt(chatID, 10)
	raw, err := deps.Store.GetSetting(ctx, key)
	if err != nil || raw == "" {
		return false
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return now.Sub(last) < minSummaryInterval
}
