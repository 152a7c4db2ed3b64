// Package tasks implements the bot's scheduled background tasks: the daily
// summary broadcast, message retention pruning, and database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/talkweave/recapbot/internal/config"
	"github.com/talkweave/recapbot/internal/database"
	"github.com/talkweave/recapbot/internal/summarizer"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Summarizer summarizer.Service
	TG         *tgbot.Bot
}
