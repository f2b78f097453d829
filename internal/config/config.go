package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBUser     string `env:"DB_USER" envDefault:"taskuser"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"taskpassword"`
	DBName     string `env:"DB_NAME" envDefault:"task_management"`
	DBPath     string `env:"DB_PATH" envDefault:"task_management.db"`

	JWTSecret        string        `env:"JWT_SECRET" envDefault:"default-secret-key-change-me"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	AdminInviteToken string        `env:"ADMIN_INVITE_TOKEN"`
	MaxUploadBytes   int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	ClientURL    string `env:"CLIENT_URL" envDefault:"*"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	ReportLocale string `env:"REPORT_LOCALE" envDefault:"en"`
}

// DefaultJWTSecret is the signing key used when JWT_SECRET is unset.
const DefaultJWTSecret = "default-secret-key-change-me"

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// UploadsEnabled reports whether enough S3 settings are present to store avatars.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// UsesDefaultJWTSecret reports whether tokens are signed with the built-in key.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}
