package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"inventory/internal/core"
	"inventory/internal/log"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	TrustedProxies  []string

	// Logging
	LogLevel string

	// Reporting
	Locale              string
	Currency            string
	CurrencySymbolAfter bool

	// Loading
	MalformedValuePolicy string
	MaxUploadBytes       int64

	// Sessions
	SessionTTL  time.Duration
	MaxSessions int

	// Rate limiting of uploads, per client IP
	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		Locale:              getEnv("LOCALE", "en-US"),
		Currency:            getEnv("CURRENCY", "USD"),
		CurrencySymbolAfter: getEnvBool("CURRENCY_SYMBOL_AFTER", false),

		MalformedValuePolicy: getEnv("MALFORMED_VALUE_POLICY", string(core.PolicyReject)),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions: getEnvInt("MAX_SESSIONS", 1000),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
}

// Policy returns the parsed malformed value policy. Call Validate first.
func (c *Config) Policy() core.MalformedPolicy {
	p, err := core.ParsePolicy(c.MalformedValuePolicy)
	if err != nil {
		return core.PolicyReject
	}
	return p
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be an ISO 4217 code", c.Currency))
	}

	if _, err := core.ParsePolicy(c.MalformedValuePolicy); err != nil {
		errors = append(errors, fmt.Sprintf("invalid malformed value policy '%s': must be one of reject, zero, fail", c.MalformedValuePolicy))
	}

	if c.MaxUploadBytes < 1024 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d: must be at least 1024 bytes", c.MaxUploadBytes))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}

	if c.MaxSessions < 1 {
		errors = append(errors, fmt.Sprintf("invalid max sessions %d: must be at least 1", c.MaxSessions))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 per minute", c.RateLimitPerMinute))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
