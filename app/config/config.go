package config

import (
	"errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	SearchModeDirect = "direct"
	SearchModeTool   = "tool"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Telegram Telegram `yaml:"telegram"`
	OpenAI   OpenAI   `yaml:"openai"`
	Tavily   Tavily   `yaml:"tavily"`
	Search   Search   `yaml:"search"`
}

type Telegram struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" env:"TELEGRAM_BOT_TOKEN" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789" validate:"required"`
}

type OpenAI struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" example:"https://api.openai.com/v1"`
	// OpenAI token
	Token string `yaml:"token" env:"OPENAI_API_KEY" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" env:"OPENAI_MODEL" example:"gpt-4o-mini"`
}

type Tavily struct {
	// Tavily API token
	Token string `yaml:"token" env:"TAVILY_API_KEY" example:"tvly-abc123def456ghi789" validate:"required"`
}

type Search struct {
	// How the search step is invoked: "direct" calls the client,
	// "tool" goes through the langchain tool wrapper
	Mode string `yaml:"mode" env:"SEARCH_MODE" example:"direct" validate:"omitempty,oneof=direct tool"`
}

type Log struct {
	// Telegram logging config, doubles as the observability sink
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token of the logging bot, obtain it via BotFather
	Token string `yaml:"token" env:"OBSERVABILITY_BOT_TOKEN" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789" validate:"required"`
	// Chat ID to send log messages to
	ChatID string `yaml:"chat_id" env:"OBSERVABILITY_CHAT_ID" example:"1001234567890"`
}

// MissingKeysError enumerates required credentials that were provided
// by neither config.yaml nor the environment.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required configuration keys: " + strings.Join(e.Keys, ", ")
}

var fieldEnvNames = map[string]string{
	"Config.Telegram.Token":     "TELEGRAM_BOT_TOKEN",
	"Config.OpenAI.Token":       "OPENAI_API_KEY",
	"Config.Tavily.Token":       "TAVILY_API_KEY",
	"Config.Log.Telegram.Token": "OBSERVABILITY_BOT_TOKEN",
}

func Load() (*Config, error) {
	return loadFrom("config.yaml")
}

func loadFrom(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	_ = godotenv.Load()
	result.applyEnv()

	if result.OpenAI.BaseURL == "" {
		result.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if result.OpenAI.Model == "" {
		result.OpenAI.Model = "gpt-4o-mini"
	}
	if result.Search.Mode == "" {
		result.Search.Mode = SearchModeDirect
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			var missing []string
			for _, fieldErr := range validationErrs {
				if fieldErr.Tag() != "required" {
					continue
				}
				if name, ok := fieldEnvNames[fieldErr.Namespace()]; ok {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				return nil, &MissingKeysError{Keys: missing}
			}
		}

		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.Token},
		{"OPENAI_BASE_URL", &c.OpenAI.BaseURL},
		{"OPENAI_API_KEY", &c.OpenAI.Token},
		{"OPENAI_MODEL", &c.OpenAI.Model},
		{"TAVILY_API_KEY", &c.Tavily.Token},
		{"SEARCH_MODE", &c.Search.Mode},
		{"OBSERVABILITY_BOT_TOKEN", &c.Log.Telegram.Token},
		{"OBSERVABILITY_CHAT_ID", &c.Log.Telegram.ChatID},
	}

	for _, o := range overrides {
		if value := os.Getenv(o.env); value != "" {
			*o.target = value
		}
	}
}
