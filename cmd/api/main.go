package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anindya384/Babil-ai-mobile/internal/api"
	"github.com/anindya384/Babil-ai-mobile/internal/chat"
	"github.com/anindya384/Babil-ai-mobile/internal/config"
	"github.com/anindya384/Babil-ai-mobile/internal/database"
	"github.com/anindya384/Babil-ai-mobile/internal/middleware"
	"github.com/anindya384/Babil-ai-mobile/internal/provider"
	"github.com/anindya384/Babil-ai-mobile/internal/quota"
	iredis "github.com/anindya384/Babil-ai-mobile/internal/redis"
	"github.com/anindya384/Babil-ai-mobile/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Providers share one HTTP client; deadlines come from the dispatcher
	// and per-provider timeouts, not the client itself.
	httpClient := &http.Client{}
	adapters := provider.BuildRegistry(cfg.Providers, httpClient)
	slog.Info("provider registry built", "providers", provider.Names(adapters))

	dispatcher := chat.NewDispatcher(adapters, cfg.Providers.DispatchTimeout)
	chatHandler := chat.NewHandler(dispatcher)

	quotaStore := quota.NewPostgresStore(pool)
	quotaSvc := quota.NewService(quotaStore, cfg.Quota.DailyLimit)
	quotaHandler := quota.NewHandler(quotaSvc)

	routerCfg := api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		RedisHealthy: func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx).Err() == nil
		},
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec)
		routerCfg.ChatRateLimiter = limiter.Middleware
	}

	router := api.NewRouter(pool, routerCfg, api.HandlerSet{
		Chat:  chatHandler.Chat,
		Quota: quotaHandler.Quota,
	})

	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
