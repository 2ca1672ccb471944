package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradequest-server/internal/logger"
	"tradequest-server/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	kvStore, err := initializeStore(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize storage", err)
		os.Exit(1)
	}

	source := initializeTradeSource(ctx, cfg)
	completer := initializeCompleter(ctx, cfg)
	srv := buildServer(cfg, source, completer, kvStore)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "Server started", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
			sigc <- syscall.SIGTERM
		}
	}()

	<-sigc
	logger.Info(ctx, "Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "HTTP shutdown failed", err)
	}
	if closer, ok := kvStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn(ctx, "Storage close failed", "error", err)
		}
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Tracer shutdown failed", "error", err)
	}
}
