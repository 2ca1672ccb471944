package main

import (
	"context"
	"fmt"
	"os"

	"tradequest-server/internal/coach"
	"tradequest-server/internal/deriv"
	"tradequest-server/internal/deriv/derivobs"
	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/kv"
	"tradequest-server/internal/llm"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/onboarding"
	"tradequest-server/internal/quest"
	"tradequest-server/internal/server"
	"tradequest-server/internal/session"
	"tradequest-server/internal/sessionlog"
	"tradequest-server/internal/store"
	"tradequest-server/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads the environment and brings up logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// compressOldLogs gzips old session log files if retention is configured.
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("SESSION_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := sessionlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old session logs", "error", err)
		}
	}
}

// loadConfig reads config.yaml, falling back to defaults when the file is
// absent so the server runs out of the box.
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, "config.yaml not found, using defaults")
			return store.DefaultConfig(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeStore selects the storage backend for profiles and tokens.
func initializeStore(ctx context.Context, cfg *store.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case "REDIS":
		logger.Info(ctx, "Using Redis storage", "addr", cfg.Storage.RedisAddr)
		return kv.NewRedisStore(ctx, cfg.Storage.RedisAddr)
	case "MEMORY":
		logger.Warn(ctx, "Using in-memory storage - profiles and tokens are lost on restart")
		return kv.NewMemoryStore(), nil
	default:
		logger.Info(ctx, "Using file storage", "path", cfg.Storage.Path)
		return kv.NewFileStore(cfg.Storage.Path)
	}
}

// initializeTradeSource builds the Deriv client with observability.
func initializeTradeSource(ctx context.Context, cfg *store.Config) interfaces.TradeSource {
	client := deriv.NewClient(deriv.Params{
		Endpoint: cfg.Deriv.Endpoint,
		AppID:    cfg.Deriv.AppID,
	})
	logger.Info(ctx, "Deriv client ready",
		"endpoint", cfg.Deriv.Endpoint,
		"history_limit", cfg.Deriv.HistoryLimit,
	)
	return derivobs.Wrap(client)
}

// initializeCompleter selects the LLM provider with observability. The
// server stays fully functional without one; LLM features degrade to
// their fallbacks.
func initializeCompleter(ctx context.Context, cfg *store.Config) interfaces.Completer {
	completer := llm.NewFromEnv(cfg)
	if completer.Provider() == "none" {
		logger.Warn(ctx, "No LLM provider configured - coach, quest and onboarding run in fallback mode")
	} else {
		logger.Info(ctx, "LLM provider ready", "provider", completer.Provider())
	}
	return completer
}

// buildServer wires the domain services into the HTTP server.
func buildServer(cfg *store.Config, source interfaces.TradeSource, completer interfaces.Completer, kvStore kv.Store) *server.Server {
	return server.New(
		session.New(source, cfg.Deriv.HistoryLimit),
		coach.New(completer, cfg),
		quest.NewGenerator(completer),
		onboarding.NewProcessor(completer, kvStore),
		kvStore,
		cfg,
	)
}
