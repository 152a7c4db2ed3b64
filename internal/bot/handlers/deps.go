package handlers

import (
	"log/slog"

	"github.com/talkweave/recapbot/internal/config"
	"github.com/talkweave/recapbot/internal/database"
	"github.com/talkweave/recapbot/internal/summarizer"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Summarizer summarizer.Service
}
