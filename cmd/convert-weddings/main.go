package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kasaapp/kasa/internal/batch"
	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/db"
	"github.com/kasaapp/kasa/pkg/logging"
)

// convert-weddings converts members whose wedding date has passed into
// their own families.
func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	database, err := db.Connect(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	converter := batch.NewWeddingConverter(database)
	result, err := converter.Run(context.Background(), time.Now())
	if err != nil {
		slog.Error("wedding conversion failed", "error", err)
		os.Exit(1)
	}

	slog.Info("wedding conversion complete",
		"eligible", result.Eligible,
		"converted", result.Converted,
		"failed", result.Failed,
	)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
