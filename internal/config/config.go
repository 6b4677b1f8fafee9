package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// StorageConfig holds the uploads object-store configuration.
// BaseURL is the public prefix signed URLs are issued under, SigningSecret
// keys the HMAC on those URLs, and URLTTL bounds how long a signed URL
// stays valid.
type StorageConfig struct {
	UploadsPath   string
	BaseURL       string
	SigningSecret string
	URLTTL        time.Duration
}

// SMTPConfig holds the outbound mail configuration used for password reset.
type SMTPConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	From         string
	ResetURLBase string
}

// AuthConfig holds authentication behavior toggles.
// AllowLegacyPlaintext re-enables the pre-migration login path where the
// stored credential equals the plaintext password. Off by default.
type AuthConfig struct {
	AllowLegacyPlaintext bool
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "plotregistry")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("UPLOADS_PATH", "./uploads")
	v.SetDefault("UPLOADS_BASE_URL", "http://localhost:8080/uploads")
	v.SetDefault("UPLOADS_URL_TTL", "1h")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("RESET_URL_BASE", "http://localhost:3000/reset-password")
	v.SetDefault("AUTH_ALLOW_LEGACY_PLAINTEXT", false)

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Storage: StorageConfig{
			UploadsPath:   v.GetString("UPLOADS_PATH"),
			BaseURL:       v.GetString("UPLOADS_BASE_URL"),
			SigningSecret: v.GetString("UPLOADS_SIGNING_SECRET"),
			URLTTL:        v.GetDuration("UPLOADS_URL_TTL"),
		},
		SMTP: SMTPConfig{
			Host:         v.GetString("SMTP_HOST"),
			Port:         v.GetString("SMTP_PORT"),
			User:         v.GetString("SMTP_USER"),
			Password:     v.GetString("SMTP_PASSWORD"),
			From:         v.GetString("SMTP_FROM"),
			ResetURLBase: v.GetString("RESET_URL_BASE"),
		},
		Auth: AuthConfig{
			AllowLegacyPlaintext: v.GetBool("AUTH_ALLOW_LEGACY_PLAINTEXT"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	// Validate storage config
	if c.Storage.UploadsPath == "" {
		return fmt.Errorf("UPLOADS_PATH is required")
	}
	if c.Storage.SigningSecret == "" {
		return fmt.Errorf("UPLOADS_SIGNING_SECRET is required")
	}
	if c.Storage.URLTTL <= 0 {
		return fmt.Errorf("UPLOADS_URL_TTL must be positive")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
