// Package config loads and validates the application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Assistant AssistantConfig `mapstructure:"assistant" validate:"required"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// StorageConfig controls where uploaded files are kept.
type StorageConfig struct {
	// AvatarDir is the local directory avatar uploads are written to.
	AvatarDir string `mapstructure:"avatar_dir"`

	// AvatarBaseURL is the URL prefix stored avatars are addressed under.
	AvatarBaseURL string `mapstructure:"avatar_base_url"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeHours is the access token lifetime, in hours.
	TokenLifetimeHours int `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
}

// NotifyConfig controls the challenge reminder pipeline.
type NotifyConfig struct {
	// Enabled turns the reminder scheduler and worker pool on or off.
	Enabled bool `mapstructure:"enabled"`

	WorkerCount int `mapstructure:"worker_count" validate:"gte=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gte=0"`

	// CheckIntervalMinutes is how often the scheduler scans for users with
	// a reminder due.
	CheckIntervalMinutes int `mapstructure:"check_interval_minutes" validate:"gte=0"`
}

// AssistantConfig contains the AI tutoring assistant settings.
type AssistantConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"`

	// MaxRetries is the number of additional attempts after a failed
	// assistant call; only transient failures are retried.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryDelaySeconds is the base delay for exponential backoff between
	// retries.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
