// Package config loads fieldguide settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. FIELDGUIDE_BASE_HOST.
const EnvPrefix = "FIELDGUIDE"

// Config holds the application configuration.
type Config struct {
	BaseHost      string        `mapstructure:"base_host" validate:"required"`
	Scheme        string        `mapstructure:"scheme" validate:"oneof=http https"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent     string        `mapstructure:"user_agent"`
	LogLevel      string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	ImageURL      string        `mapstructure:"image_url" validate:"omitempty,url"`
	MaxImageBytes int64         `mapstructure:"max_image_bytes" validate:"gt=0"`
	Progress      bool          `mapstructure:"progress"`
}

// Load reads envFile, when present, then environment variables over defaults.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("base_host", "api.example.com")
	v.SetDefault("scheme", "https")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("user_agent", "fieldguide/1.0")
	v.SetDefault("log_level", "info")
	v.SetDefault("image_url", "")
	v.SetDefault("max_image_bytes", int64(32<<20))
	v.SetDefault("progress", false)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Level maps LogLevel onto a slog level.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return lvl
}
