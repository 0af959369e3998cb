package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Question provider backends selectable via QUESTION_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderNone      = "none"
)

// Config holds server configuration loaded from the environment.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// RedisURL is the campaign store. Empty disables Redis and the
	// server falls back to local snapshot files.
	RedisURL string `envconfig:"REDIS_URL" default:"localhost:6379"`

	// DataDir holds the opponent and map YAML files.
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// SaveDir holds local snapshot files, written when the primary
	// store is unreachable.
	SaveDir string `envconfig:"SAVE_DIR" default:"./saves"`

	// QuestionProvider selects the remote question backend. "none"
	// serves static pools only.
	QuestionProvider string `envconfig:"QUESTION_PROVIDER" default:"none"`
	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	ModelName        string `envconfig:"MODEL_NAME"`

	AutosaveInterval time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"60s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.QuestionProvider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when QUESTION_PROVIDER=%s", ProviderAnthropic)
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when QUESTION_PROVIDER=%s", ProviderOpenAI)
		}
	case ProviderNone:
	default:
		return nil, fmt.Errorf("unknown QUESTION_PROVIDER %q", cfg.QuestionProvider)
	}

	return &cfg, nil
}

// SlogLevel maps the configured level string to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction reports whether the server runs with production
// logging and error reporting behavior.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
