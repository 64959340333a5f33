package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sqlbridge/sqlbridge/internal/bridge"
	"github.com/sqlbridge/sqlbridge/internal/config"
	"github.com/sqlbridge/sqlbridge/internal/mcpserver"
	"github.com/sqlbridge/sqlbridge/internal/mysql"
	"github.com/sqlbridge/sqlbridge/internal/nl2sql"
	"github.com/sqlbridge/sqlbridge/internal/observability"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("sqlbridge-mcp")
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Stdout carries the MCP protocol; logs must go to stderr.
	logger := observability.NewLogger(cfg, os.Stderr)

	db, err := mysql.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to open database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	translator, err := nl2sql.NewOllamaTranslator(nl2sql.OllamaConfig{
		BaseURL: cfg.Ollama.URL,
		Model:   cfg.Ollama.Model,
	})
	if err != nil {
		logger.Error("failed to initialize translator", slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := bridge.New(bridge.Config{
		DB:         db,
		Translator: translator,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to build bridge service", slog.Any("error", err))
		os.Exit(1)
	}

	server, err := mcpserver.New(mcpserver.Config{
		Logger:  logger,
		Bridge:  svc,
		Name:    cfg.Service.Name,
		Version: version,
	})
	if err != nil {
		logger.Error("failed to build mcp server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
