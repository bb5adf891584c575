package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kasaapp/kasa/internal/batch"
	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/db"
	"github.com/kasaapp/kasa/pkg/logging"
)

// generate-statements produces one statement per family for a month.
// Usage: generate-statements [year] [month]; defaults to the current
// month.
func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())

	var err error
	if len(os.Args) > 1 {
		year, err = strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid year %q\n", os.Args[1])
			os.Exit(1)
		}
	}
	if len(os.Args) > 2 {
		month, err = strconv.Atoi(os.Args[2])
		if err != nil || month < 1 || month > 12 {
			fmt.Fprintf(os.Stderr, "invalid month %q\n", os.Args[2])
			os.Exit(1)
		}
	}

	cfg := config.Load()
	database, err := db.Connect(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	generator := batch.NewStatementGenerator(database, calc.NewEngine(database))
	result, err := generator.Run(context.Background(), year, month)
	if err != nil {
		slog.Error("statement generation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("statement generation complete",
		"year", result.Year,
		"month", result.Month,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"failed", len(result.Errors),
	)
	for _, failure := range result.Errors {
		slog.Warn("statement failed", "familyId", failure.FamilyID, "family", failure.FamilyName, "error", failure.Error)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
