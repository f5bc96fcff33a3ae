// Package main implements the entry point for the Scry study server, which
// generates study plans, quizzes and flashcards and summarizes papers with
// a language model.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: failed to read .env: %v", err)
	}

	ctx := context.Background()
	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		app.logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration, sets up logging and tracing, and
// builds the application.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server, shared.TraceAttrs)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"data_dir", cfg.Storage.DataDir)
	if cfg.LLM.GeminiAPIKey != "" {
		l.Debug("LLM configuration", "server_api_key_present", true)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, l)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}
	app.shutdownTracing = shutdownTracing
	return app, nil
}
