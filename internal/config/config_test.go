package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("BOT_TELEGRAM_ADMIN_USER_ID", "42")
	t.Setenv("BOT_AI_TOKEN", "sk-test")
}

func TestLoadFromEnvOnly(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed with env-only configuration: %v", err)
	}

	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("Telegram.Token = %q, want value from environment", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminUserID != 42 {
		t.Errorf("Telegram.AdminUserID = %d, want 42", cfg.Telegram.AdminUserID)
	}
	if cfg.AI.Token != "sk-test" {
		t.Errorf("AI.Token = %q, want value from environment", cfg.AI.Token)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Summary.MinMessages != 5 {
		t.Errorf("Summary.MinMessages = %d, want 5", cfg.Summary.MinMessages)
	}
	if cfg.Summary.Window != 24*time.Hour {
		t.Errorf("Summary.Window = %v, want 24h", cfg.Summary.Window)
	}
	if cfg.AI.ConnectTimeout != 10*time.Second || cfg.AI.RequestTimeout != 60*time.Second {
		t.Errorf("AI timeouts = %v/%v, want 10s/60s", cfg.AI.ConnectTimeout, cfg.AI.RequestTimeout)
	}

	daily, ok := cfg.Scheduler.Tasks["daily_summary"]
	if !ok || !daily.Enabled || daily.Schedule != "0 21 * * *" {
		t.Errorf("daily_summary task = %+v, want enabled at %q", daily, "0 21 * * *")
	}
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_AI_MODEL", "openai/gpt-4o")
	t.Setenv("BOT_DATABASE_RETENTION_DAYS", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Model != "openai/gpt-4o" {
		t.Errorf("AI.Model = %q, want env override", cfg.AI.Model)
	}
	if cfg.Database.RetentionDays != 14 {
		t.Errorf("Database.RetentionDays = %d, want 14", cfg.Database.RetentionDays)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")
	t.Setenv("BOT_TELEGRAM_ADMIN_USER_ID", "")
	t.Setenv("BOT_AI_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without required values, want validation error")
	}
}
