// Package config provides configuration loading and validation.
// Values come from defaults, an optional config.yaml, and BOT_* environment
// variables; missing required values are a fatal startup error.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the administrator user ID used by
// the privileged-command check.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`

	// BotInfo is resolved at startup via GetMe, not read from configuration.
	BotInfo *models.User `mapstructure:"-"`
}

// AIConfig configures the chat-completion API client.
type AIConfig struct {
	Token          string        `mapstructure:"token"           validate:"required"`
	BaseURL        string        `mapstructure:"base_url"        validate:"required,url"`
	Model          string        `mapstructure:"model"           validate:"required"`
	Temperature    float32       `mapstructure:"temperature"     validate:"min=0,max=2"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"required,min=1s,max=1m"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,min=1s,max=10m"`
}

// DatabaseConfig holds the SQLite location and the optional retention window.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`

	// RetentionDays prunes messages older than this many days; 0 disables
	// pruning entirely.
	RetentionDays int `mapstructure:"retention_days" validate:"min=0"`
}

// SummaryConfig bounds the summarization input.
type SummaryConfig struct {
	// MinMessages is the minimum stored message count below which no
	// completion request is made.
	MinMessages int `mapstructure:"min_messages" validate:"required,gt=0"`

	// TranscriptBudget caps the combined transcript size in characters;
	// older messages are dropped first when the budget is exceeded.
	TranscriptBudget int `mapstructure:"transcript_budget" validate:"required,gt=0"`

	// Window is how far back the summary looks.
	Window time.Duration `mapstructure:"window" validate:"required,min=1h"`
}

// TaskConfig enables one scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules. All schedules are
// interpreted in UTC.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds the user-facing reply texts.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"            validate:"required"`
	SummaryHeader     string `mapstructure:"summary_header"     validate:"required"`
	SummaryFailed     string `mapstructure:"summary_failed"     validate:"required"`
	NotEnoughMessages string `mapstructure:"not_enough_messages" validate:"required"`
	NoMessages        string `mapstructure:"no_messages"        validate:"required"`
	NoChats           string `mapstructure:"no_chats"           validate:"required"`
	ChatsHeader       string `mapstructure:"chats_header"       validate:"required"`
	PromptUpdated     string `mapstructure:"prompt_updated"     validate:"required"`
	PromptUsage       string `mapstructure:"prompt_usage"       validate:"required"`
	PDFUsage          string `mapstructure:"pdf_usage"          validate:"required"`
	PDFCaption        string `mapstructure:"pdf_caption"        validate:"required"`
	GeneralError      string `mapstructure:"general_error"      validate:"required"`
}
