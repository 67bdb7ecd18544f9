package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"TAVILY_API_KEY", "SEARCH_MODE", "OBSERVABILITY_BOT_TOKEN", "OBSERVABILITY_CHAT_ID",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return path
}

const validConfig = `
telegram:
  token: bot-token
openai:
  token: openai-token
tavily:
  token: tavily-token
log:
  telegram:
    token: observability-token
    chat_id: "12345"
`

func TestLoadValid(t *testing.T) {
	clearEnv(t)

	cfg, err := loadFrom(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("loadFrom failed: %v", err)
	}

	if cfg.Telegram.Token != "bot-token" {
		t.Errorf("Telegram.Token = %q", cfg.Telegram.Token)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("OpenAI.Model default = %q, want gpt-4o-mini", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("OpenAI.BaseURL default = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Search.Mode != SearchModeDirect {
		t.Errorf("Search.Mode default = %q, want %q", cfg.Search.Mode, SearchModeDirect)
	}
}

func TestLoadEnumeratesMissingKeys(t *testing.T) {
	clearEnv(t)

	_, err := loadFrom(writeConfig(t, "telegram:\n  token: bot-token\n"))
	if err == nil {
		t.Fatal("expected an error for missing keys")
	}

	var missingKeys *MissingKeysError
	if !errors.As(err, &missingKeys) {
		t.Fatalf("error = %v, want MissingKeysError", err)
	}

	want := map[string]bool{
		"OPENAI_API_KEY":          true,
		"TAVILY_API_KEY":          true,
		"OBSERVABILITY_BOT_TOKEN": true,
	}

	if len(missingKeys.Keys) != len(want) {
		t.Fatalf("missing keys = %v, want %d entries", missingKeys.Keys, len(want))
	}

	for _, key := range missingKeys.Keys {
		if !want[key] {
			t.Errorf("unexpected missing key %q", key)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("TAVILY_API_KEY", "env-tavily")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-bot")
	t.Setenv("OBSERVABILITY_BOT_TOKEN", "env-observability")

	cfg, err := loadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("loadFrom failed: %v", err)
	}

	if cfg.OpenAI.Token != "env-openai" {
		t.Errorf("OpenAI.Token = %q", cfg.OpenAI.Token)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("OpenAI.Model = %q, env must win over default", cfg.OpenAI.Model)
	}
	if cfg.Tavily.Token != "env-tavily" {
		t.Errorf("Tavily.Token = %q", cfg.Tavily.Token)
	}
}

func TestLoadRejectsUnknownSearchMode(t *testing.T) {
	clearEnv(t)

	_, err := loadFrom(writeConfig(t, validConfig+"search:\n  mode: hybrid\n"))
	if err == nil {
		t.Fatal("expected an error for unknown search mode")
	}
}
