package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Extraction ExtractionConfig
	Mail       MailConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
	HealthTimeout   time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// ExtractionConfig holds expense-analysis client configuration
type ExtractionConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MailConfig holds notification configuration. Sender and recipient are
// fixed per deployment, not request parameters.
type MailConfig struct {
	Sender    string
	Recipient string
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			Table:           getEnv("RECEIPTS_TABLE", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			HealthTimeout:   getEnvAsDuration("DB_HEALTH_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Extraction: ExtractionConfig{
			BaseURL: getEnv("EXTRACT_BASE_URL", ""),
			APIKey:  getEnv("EXTRACT_API_KEY", ""),
			Timeout: getEnvAsDuration("EXTRACT_TIMEOUT", 45*time.Second),
		},
		Mail: MailConfig{
			Sender:    getEnv("MAIL_SENDER", ""),
			Recipient: getEnv("MAIL_RECIPIENT", ""),
			SMTPHost:  getEnv("SMTP_HOST", "localhost"),
			SMTPPort:  getEnvAsInt("SMTP_PORT", 25),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
		},
	}
}

// Validate checks the configuration every binary needs at startup.
// DSN is checked by the server binary separately since the CLI can run
// against a local SQLite file instead.
func (c *Config) Validate() error {
	if c.Database.Table == "" {
		return NewAppError("CONFIG_ERROR", "RECEIPTS_TABLE is required", ErrInvalidConfig)
	}
	if c.Mail.Sender == "" {
		return NewAppError("CONFIG_ERROR", "MAIL_SENDER is required", ErrInvalidConfig)
	}
	if c.Mail.Recipient == "" {
		return NewAppError("CONFIG_ERROR", "MAIL_RECIPIENT is required", ErrInvalidConfig)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
