package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/db"
	"github.com/kasaapp/kasa/pkg/logging"
)

// recalc-year recomputes one year's financial summary from the raw
// records. Usage: recalc-year <year> [extraDonation] [extraExpense]
func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: recalc-year <year> [extraDonation] [extraExpense]")
		os.Exit(1)
	}

	year, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid year %q\n", os.Args[1])
		os.Exit(1)
	}

	extraDonation := decimal.Zero
	extraExpense := decimal.Zero
	if len(os.Args) > 2 {
		extraDonation, err = decimal.NewFromString(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid extra donation %q\n", os.Args[2])
			os.Exit(1)
		}
	}
	if len(os.Args) > 3 {
		extraExpense, err = decimal.NewFromString(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid extra expense %q\n", os.Args[3])
			os.Exit(1)
		}
	}

	cfg := config.Load()
	database, err := db.Connect(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	engine := calc.NewEngine(database)
	row, err := engine.CalculateAndSaveYear(context.Background(), year, extraDonation, extraExpense)
	if err != nil {
		slog.Error("recalculation failed", "year", year, "error", err)
		os.Exit(1)
	}

	slog.Info("recalculation complete",
		"year", row.Year,
		"planIncome", row.PlanIncome.String(),
		"totalPayments", row.TotalPayments.String(),
		"calculatedIncome", row.CalculatedIncome.String(),
		"calculatedExpenses", row.CalculatedExpenses.String(),
		"balance", row.Balance.String(),
	)
}
