package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != "5055" {
		t.Errorf("Port = %q, want 5055", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.BackendBaseURL != "http://localhost:3000/api" {
		t.Errorf("BackendBaseURL = %q, want http://localhost:3000/api", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != BackendRequest {
		t.Errorf("BackendTimeout = %v, want %v", cfg.BackendTimeout, BackendRequest)
	}
	if cfg.ActionTimeout != ActionProcessing {
		t.Errorf("ActionTimeout = %v, want %v", cfg.ActionTimeout, ActionProcessing)
	}
	if cfg.SentrySampleRate != 1.0 {
		t.Errorf("SentrySampleRate = %v, want 1.0", cfg.SentrySampleRate)
	}
	if cfg.SenderRateBurst != 8 {
		t.Errorf("SenderRateBurst = %v, want 8", cfg.SenderRateBurst)
	}
	if cfg.SenderRateRefill != 1 {
		t.Errorf("SenderRateRefill = %v, want 1", cfg.SenderRateRefill)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvBackendBaseURL, "https://api.tienda.pe/api/")
	t.Setenv(EnvBackendTimeout, "3s")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	// Trailing slash is stripped so path joining stays uniform.
	if cfg.BackendBaseURL != "https://api.tienda.pe/api" {
		t.Errorf("BackendBaseURL = %q, want https://api.tienda.pe/api", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("BackendTimeout = %v, want 3s", cfg.BackendTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative backend URL", EnvBackendBaseURL, "localhost:3000/api"},
		{"non-numeric port", EnvPort, "http"},
		{"sample rate above one", EnvSentrySampleRate, "1.5"},
		{"negative sender rate burst", EnvSenderRateBurst, "-1"},
		{"negative sender rate refill", EnvSenderRateRefill, "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Load() accepted invalid %s=%q", tt.key, tt.value)
			}
			// The error must name the variable that actually failed.
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Load() error %q does not mention %s", err, tt.key)
			}
		})
	}
}

func TestInvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv(EnvBackendTimeout, "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.BackendTimeout != BackendRequest {
		t.Errorf("BackendTimeout = %v, want default %v", cfg.BackendTimeout, BackendRequest)
	}
}
