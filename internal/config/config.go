package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Quota     QuotaConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32

	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ProviderConfig holds one upstream AI service's settings. An empty APIKey
// does not fail config loading; the adapter reports the missing credential
// per request so the other providers keep working.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type ProvidersConfig struct {
	ChatGPT    ProviderConfig
	Claude     ProviderConfig
	Gemini     ProviderConfig
	Grok       ProviderConfig
	Perplexity ProviderConfig
	Mistral    ProviderConfig

	// DispatchTimeout bounds one whole fan-out; a provider still running
	// when it fires is recorded as timed out.
	DispatchTimeout time.Duration
}

type QuotaConfig struct {
	DailyLimit int
}

// RateLimitConfig guards the chat endpoint per client IP. It is separate from
// the daily quota: the quota protects a user's allowance, this protects the
// upstream provider budget from a single noisy client.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int
	WindowSec   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),

			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		Providers: ProvidersConfig{
			ChatGPT: ProviderConfig{
				APIKey:  k.String("openai.api.key"),
				BaseURL: k.String("openai.base.url"),
				Model:   k.String("openai.model"),
			},
			Claude: ProviderConfig{
				// The Anthropic key historically lived under two env names;
				// either works, ANTHROPIC_API_KEY wins.
				APIKey:  strings.TrimSpace(firstNonEmpty(k.String("anthropic.api.key"), k.String("claude.api.key"))),
				BaseURL: k.String("anthropic.base.url"),
				Model:   k.String("anthropic.model"),
			},
			Gemini: ProviderConfig{
				APIKey:  k.String("google.ai.api.key"),
				BaseURL: k.String("google.ai.base.url"),
				Model:   k.String("google.ai.model"),
			},
			Grok: ProviderConfig{
				APIKey:  k.String("xai.api.key"),
				BaseURL: k.String("xai.base.url"),
				Model:   k.String("xai.model"),
			},
			Perplexity: ProviderConfig{
				APIKey:  k.String("perplexity.api.key"),
				BaseURL: k.String("perplexity.base.url"),
				Model:   k.String("perplexity.model"),
			},
			Mistral: ProviderConfig{
				APIKey:  k.String("mistral.api.key"),
				BaseURL: k.String("mistral.base.url"),
				Model:   k.String("mistral.model"),
			},
		},
		Quota: QuotaConfig{
			DailyLimit: k.Int("quota.daily.limit"),
		},
		RateLimit: RateLimitConfig{
			Enabled:     k.Bool("ratelimit.enabled"),
			MaxRequests: k.Int("ratelimit.max.requests"),
			WindowSec:   k.Int("ratelimit.window.sec"),
		},
		CORS: CORSConfig{
			AllowedOrigins: k.Strings("cors.allowed.origins"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "babil"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "babil"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 20
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 30
	}
	if cfg.RateLimit.WindowSec == 0 {
		cfg.RateLimit.WindowSec = 60
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// The browser client is served from arbitrary origins.
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	applyProviderDefaults(&cfg.Providers)

	// Parse durations
	dispatchStr := k.String("providers.dispatch.timeout")
	if dispatchStr == "" {
		dispatchStr = "45s"
	}
	cfg.Providers.DispatchTimeout, err = time.ParseDuration(dispatchStr)
	if err != nil {
		return nil, fmt.Errorf("parsing dispatch timeout: %w", err)
	}

	providerTimeoutStr := k.String("providers.request.timeout")
	if providerTimeoutStr == "" {
		providerTimeoutStr = "30s"
	}
	perProvider, err := time.ParseDuration(providerTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing provider request timeout: %w", err)
	}
	for _, p := range []*ProviderConfig{
		&cfg.Providers.ChatGPT, &cfg.Providers.Claude, &cfg.Providers.Gemini,
		&cfg.Providers.Grok, &cfg.Providers.Perplexity, &cfg.Providers.Mistral,
	} {
		if p.Timeout == 0 {
			p.Timeout = perProvider
		}
	}

	return cfg, nil
}

func applyProviderDefaults(p *ProvidersConfig) {
	if p.ChatGPT.BaseURL == "" {
		p.ChatGPT.BaseURL = "https://api.openai.com/v1"
	}
	if p.ChatGPT.Model == "" {
		p.ChatGPT.Model = "gpt-4o-mini"
	}
	if p.Claude.BaseURL == "" {
		p.Claude.BaseURL = "https://api.anthropic.com/v1"
	}
	if p.Claude.Model == "" {
		p.Claude.Model = "claude-sonnet-4-20250514"
	}
	if p.Gemini.BaseURL == "" {
		p.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if p.Gemini.Model == "" {
		p.Gemini.Model = "gemini-1.5-flash"
	}
	if p.Grok.BaseURL == "" {
		p.Grok.BaseURL = "https://api.x.ai/v1"
	}
	if p.Grok.Model == "" {
		p.Grok.Model = "grok-4-0709"
	}
	if p.Perplexity.BaseURL == "" {
		p.Perplexity.BaseURL = "https://api.perplexity.ai"
	}
	if p.Perplexity.Model == "" {
		p.Perplexity.Model = "sonar"
	}
	if p.Mistral.BaseURL == "" {
		p.Mistral.BaseURL = "https://api.mistral.ai/v1"
	}
	if p.Mistral.Model == "" {
		p.Mistral.Model = "mistral-small-latest"
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
