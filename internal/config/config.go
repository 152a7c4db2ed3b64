package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load builds the configuration from defaults, an optional config.yaml in the
// working directory, and BOT_* environment variables (nested keys use
// underscores, e.g. BOT_TELEGRAM_TOKEN). The result is validated before being
// returned.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys known from defaults or a config file, so
	// keys without defaults must be bound explicitly for env-only
	// deployments to reach them.
	for _, key := range []string{"telegram.token", "telegram.admin_user_id", "ai.token"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.model", "openai/gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.connect_timeout", "10s")
	v.SetDefault("ai.request_timeout", "60s")

	v.SetDefault("database.path", "storage.db")
	v.SetDefault("database.retention_days", 0)

	v.SetDefault("summary.min_messages", 5)
	v.SetDefault("summary.transcript_budget", 8000)
	v.SetDefault("summary.window", "24h")

	v.SetDefault("scheduler.tasks.daily_summary.enabled", true)
	v.SetDefault("scheduler.tasks.daily_summary.schedule", "0 21 * * *")
	v.SetDefault("scheduler.tasks.retention.enabled", true)
	v.SetDefault("scheduler.tasks.retention.schedule", "30 3 * * *")
	v.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.db_maintenance.schedule", "0 4 * * 0")

	v.SetDefault("messages.welcome",
		"Hi, I am @botname! I keep track of the conversation and post a summary every evening.\n\n"+
			"Commands:\n"+
			"/summary — summarize the last 24 hours\n"+
			"/pdf <chat_id> — export the last 24 hours as PDF (admin)\n"+
			"/chats — list registered chats (admin)\n"+
			"/set_prompt <text> — override the summary prompt (admin)")
	v.SetDefault("messages.summary_header", "Summary of the last 24 hours:")
	v.SetDefault("messages.summary_failed", "Sorry, I could not produce a summary right now. Please try again later.")
	v.SetDefault("messages.not_enough_messages", "Not enough messages to summarize yet.")
	v.SetDefault("messages.no_messages", "No messages recorded for that period.")
	v.SetDefault("messages.no_chats", "No chats are registered yet.")
	v.SetDefault("messages.chats_header", "Registered chats:")
	v.SetDefault("messages.prompt_updated", "Summary prompt updated.")
	v.SetDefault("messages.prompt_usage", "Usage: /set_prompt <prompt text>")
	v.SetDefault("messages.pdf_usage", "Usage: /pdf <chat_id>")
	v.SetDefault("messages.pdf_caption", "Chat transcript for the last 24 hours.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again.")
}
