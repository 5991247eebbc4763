// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the store backend client, and observability features.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	domerrors "github.com/mercabot/mercabot-go/internal/errors"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Store Backend Configuration
	BackendBaseURL string        // Base URL of the store REST API (e.g. http://localhost:3000/api)
	BackendTimeout time.Duration // Per-request timeout for backend calls

	// Action Configuration
	ActionTimeout time.Duration // Budget for executing one action end to end

	// Per-sender Rate Limiting
	SenderRateBurst  float64 // Burst capacity per sender (0 disables throttling)
	SenderRateRefill float64 // Tokens refilled per second per sender

	// Sentry Configuration
	SentryDSN         string  // Empty disables Sentry
	SentryEnvironment string  // Deployment environment tag
	SentrySampleRate  float64 // Error sampling rate (0.0-1.0)

	// Better Stack Configuration
	BetterStackToken    string // Empty disables log shipping
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "5055"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		// Store Backend Configuration
		BackendBaseURL: strings.TrimRight(getEnv(EnvBackendBaseURL, "http://localhost:3000/api"), "/"),
		BackendTimeout: getDurationEnv(EnvBackendTimeout, BackendRequest),

		// Action Configuration
		ActionTimeout: getDurationEnv(EnvActionTimeout, ActionProcessing),

		// Per-sender Rate Limiting
		SenderRateBurst:  getFloatEnv(EnvSenderRateBurst, 8),
		SenderRateRefill: getFloatEnv(EnvSenderRateRefill, 1),

		// Sentry Configuration
		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// Better Stack Configuration
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	u, err := url.Parse(c.BackendBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return domerrors.NewValidationError(EnvBackendBaseURL,
			fmt.Sprintf("must be an absolute URL, got %q", c.BackendBaseURL))
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return domerrors.NewValidationError(EnvPort,
			fmt.Sprintf("must be numeric, got %q", c.Port))
	}

	if c.BackendTimeout <= 0 {
		return domerrors.NewValidationError(EnvBackendTimeout,
			fmt.Sprintf("must be positive, got %v", c.BackendTimeout))
	}

	if c.ActionTimeout <= 0 {
		return domerrors.NewValidationError(EnvActionTimeout,
			fmt.Sprintf("must be positive, got %v", c.ActionTimeout))
	}

	if c.SenderRateBurst < 0 {
		return domerrors.NewValidationError(EnvSenderRateBurst,
			fmt.Sprintf("must not be negative, got %v", c.SenderRateBurst))
	}

	if c.SenderRateRefill < 0 {
		return domerrors.NewValidationError(EnvSenderRateRefill,
			fmt.Sprintf("must not be negative, got %v", c.SenderRateRefill))
	}

	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		return domerrors.NewValidationError(EnvSentrySampleRate,
			fmt.Sprintf("must be within [0,1], got %v", c.SentrySampleRate))
	}

	return nil
}

// getEnv retrieves string environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
