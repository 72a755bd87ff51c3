// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest JWT_SECRET Validate accepts.
const MinSecretLength = 32

type Config struct {
	// HTTP Server
	Port           string
	RequestTimeout time.Duration
	CORSOrigin     string

	// Database
	DBPath string

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Groups
	JoinCodeAttempts int
	ChatHistoryLimit int

	// Logging
	LogLevel string
}

// Load reads the configuration from environment variables, applying defaults.
// Call Validate before using the result.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),

		DBPath: getEnv("DB_PATH", "./data/splitledger.db"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   getEnvDuration("TOKEN_TTL", 24*time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		JoinCodeAttempts: getEnvInt("JOIN_CODE_ATTEMPTS", 10),
		ChatHistoryLimit: getEnvInt("CHAT_HISTORY_LIMIT", 100),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	// The signing key must be configured explicitly; there is no built-in default.
	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < MinSecretLength {
		errors = append(errors, fmt.Sprintf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}

	if c.TokenTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}
	if c.RequestTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errors = append(errors, fmt.Sprintf("invalid bcrypt cost %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if c.JoinCodeAttempts < 1 || c.JoinCodeAttempts > 100 {
		errors = append(errors, fmt.Sprintf("invalid join code attempts %d: must be between 1 and 100", c.JoinCodeAttempts))
	}
	if c.ChatHistoryLimit < 1 || c.ChatHistoryLimit > 1000 {
		errors = append(errors, fmt.Sprintf("invalid chat history limit %d: must be between 1 and 1000", c.ChatHistoryLimit))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
