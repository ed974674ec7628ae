package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
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
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all AI provider integration settings, including the
// in-process retry knobs applied around each generation call.
type LLMConfig struct {
	APIKey                string  `mapstructure:"api_key"                 validate:"required"`
	Model                 string  `mapstructure:"model"                   validate:"required"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	MaxRetries            int     `mapstructure:"max_retries"             validate:"gte=0"`
	BackoffBaseSeconds    float64 `mapstructure:"backoff_base_seconds"    validate:"gt=0"`
	JitterRatio           float64 `mapstructure:"jitter_ratio"            validate:"gte=0,lte=1"`
}
