package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	if c.Quota.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_DAILY_LIMIT must be positive, got %d", c.Quota.DailyLimit))
	}
	if c.Providers.DispatchTimeout <= 0 {
		errs = append(errs, "PROVIDERS_DISPATCH_TIMEOUT must be positive")
	}

	// Provider keys: warn only, a keyless provider degrades itself at request time
	configured := 0
	for _, p := range []ProviderConfig{
		c.Providers.ChatGPT, c.Providers.Claude, c.Providers.Gemini,
		c.Providers.Grok, c.Providers.Perplexity, c.Providers.Mistral,
	} {
		if p.APIKey != "" {
			configured++
		}
	}
	if configured == 0 {
		slog.Warn("no provider API keys configured — every chat response entry will report a missing credential")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
