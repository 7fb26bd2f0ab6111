package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present, a
// config.yaml in the working directory. Environment variables use the
// STACKLY_ prefix with underscores for nesting (e.g. STACKLY_DATABASE_URL,
// STACKLY_AUTH_JWT_SECRET) and take precedence over file values.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_hours", 24)
	v.SetDefault("assistant.model_name", "gemini-2.0-flash")
	v.SetDefault("assistant.max_retries", 3)
	v.SetDefault("assistant.retry_delay_seconds", 2)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.worker_count", 2)
	v.SetDefault("notify.queue_size", 100)
	v.SetDefault("notify.check_interval_minutes", 60)
	v.SetDefault("storage.avatar_dir", "uploads/avatars")
	v.SetDefault("storage.avatar_base_url", "/static/avatars")

	// Optional config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file values
	v.SetEnvPrefix("STACKLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only sees env vars for keys it knows about, so bind them explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_hours",
		"assistant.gemini_api_key",
		"assistant.model_name",
		"assistant.max_retries",
		"assistant.retry_delay_seconds",
		"notify.enabled",
		"notify.worker_count",
		"notify.queue_size",
		"notify.check_interval_minutes",
		"storage.avatar_dir",
		"storage.avatar_base_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
