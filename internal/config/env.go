// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "MERCABOT_PORT"
	EnvLogLevel        = "MERCABOT_LOG_LEVEL"
	EnvShutdownTimeout = "MERCABOT_SHUTDOWN_TIMEOUT"

	// Store backend
	EnvBackendBaseURL = "MERCABOT_BACKEND_BASE_URL"
	EnvBackendTimeout = "MERCABOT_BACKEND_TIMEOUT"

	// Action execution
	EnvActionTimeout = "MERCABOT_ACTION_TIMEOUT"

	// Per-sender rate limiting
	EnvSenderRateBurst  = "MERCABOT_SENDER_RATE_BURST"
	EnvSenderRateRefill = "MERCABOT_SENDER_RATE_REFILL"

	// Sentry Feature
	EnvSentryDSN         = "MERCABOT_SENTRY_DSN"
	EnvSentryEnvironment = "MERCABOT_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "MERCABOT_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "MERCABOT_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "MERCABOT_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "MERCABOT_METRICS_USERNAME"
	EnvMetricsPassword = "MERCABOT_METRICS_PASSWORD"
)
