package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/samiserrag/denver-songwriters-collective-sub010/docs"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/app"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/config"
)

// @title Denver Songwriters Collective API
// @version 1.0
// @description RSVP and waitlist backend for the collective's open mics, song circles and showcases.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
