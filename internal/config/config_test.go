package config

import (
	"strings"
	"testing"
	"time"

	"inventory/internal/core"
)

func validConfig() Config {
	return Config{
		Port:                 "8081",
		ShutdownTimeout:      30 * time.Second,
		LogLevel:             "info",
		Locale:               "en-US",
		Currency:             "USD",
		MalformedValuePolicy: "reject",
		MaxUploadBytes:       10 << 20,
		SessionTTL:           30 * time.Minute,
		MaxSessions:          1000,
		RateLimitPerMinute:   30,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid european setup",
			mutate:  func(c *Config) { c.Locale = "it-IT"; c.Currency = "EUR"; c.CurrencySymbolAfter = true; c.MalformedValuePolicy = "ZERO" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid currency",
			mutate:      func(c *Config) { c.Currency = "DOLLARS" },
			wantErr:     true,
			errorString: "invalid currency 'DOLLARS'",
		},
		{
			name:        "invalid policy",
			mutate:      func(c *Config) { c.MalformedValuePolicy = "ignore" },
			wantErr:     true,
			errorString: "invalid malformed value policy 'ignore'",
		},
		{
			name:        "upload limit too small",
			mutate:      func(c *Config) { c.MaxUploadBytes = 10 },
			wantErr:     true,
			errorString: "invalid max upload size 10",
		},
		{
			name:        "session ttl too short",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid session TTL 1s",
		},
		{
			name:        "no sessions allowed",
			mutate:      func(c *Config) { c.MaxSessions = 0 },
			wantErr:     true,
			errorString: "invalid max sessions 0",
		},
		{
			name:        "rate limit zero",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateAccumulates(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.MaxSessions = -1
	cfg.Locale = "!!"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Errorf("expected 3 accumulated problems, got %d: %v", got, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOCALE", "CURRENCY", "MALFORMED_VALUE_POLICY", "MAX_UPLOAD_BYTES", "SESSION_TTL", "CURRENCY_SYMBOL_AFTER", "TRUSTED_PROXIES"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8081" || cfg.Locale != "en-US" || cfg.Currency != "USD" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.Policy() != core.PolicyReject {
		t.Errorf("Policy = %v", cfg.Policy())
	}
	if cfg.TrustedProxies != nil {
		t.Errorf("TrustedProxies = %v", cfg.TrustedProxies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CURRENCY_SYMBOL_AFTER", "true")
	t.Setenv("MALFORMED_VALUE_POLICY", "fail")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("MAX_SESSIONS", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2,")

	cfg := Load()
	if cfg.Port != "9000" || !cfg.CurrencySymbolAfter {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Policy() != core.PolicyFail {
		t.Errorf("Policy = %v", cfg.Policy())
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.MaxSessions != 1000 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.MaxSessions)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "10.0.0.2" {
		t.Errorf("TrustedProxies = %v", cfg.TrustedProxies)
	}
}
