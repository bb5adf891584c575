package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
)

// StatementGenerator produces one statement per family per calendar
// month. A family that already has a statement for the month is skipped;
// idempotence is by existence, not content.
type StatementGenerator struct {
	db     *gorm.DB
	engine *calc.Engine
	log    *slog.Logger
}

// NewStatementGenerator creates a generator on the given database handle.
func NewStatementGenerator(db *gorm.DB, engine *calc.Engine) *StatementGenerator {
	return &StatementGenerator{
		db:     db,
		engine: engine,
		log:    slog.Default().With("component", "statement-generator"),
	}
}

// StatementError records one family's failure during a run.
type StatementError struct {
	FamilyID   uint   `json:"familyId"`
	FamilyName string `json:"familyName"`
	Error      string `json:"error"`
}

// StatementRunResult summarizes one generator run.
type StatementRunResult struct {
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	Generated int              `json:"generated"`
	Skipped   int              `json:"skipped"`
	Errors    []StatementError `json:"errors,omitempty"`
}

// MonthRange returns the first instant of a month and the last second of
// its final day.
func MonthRange(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	return from, to
}

// Run generates statements for every family for the given month. Failures
// are collected per family and the loop continues.
func (g *StatementGenerator) Run(ctx context.Context, year, month int) (StatementRunResult, error) {
	result := StatementRunResult{Year: year, Month: month}

	fromDate, toDate := MonthRange(year, month)
	nextMonth := fromDate.AddDate(0, 1, 0)

	g.log.Info("generating monthly statements",
		"year", year, "month", month,
		"from", fromDate.Format("2006-01-02"), "to", toDate.Format("2006-01-02"))

	var families []models.Family
	if err := g.db.WithContext(ctx).Find(&families).Error; err != nil {
		return result, fmt.Errorf("loading families: %w", err)
	}

	for _, family := range families {
		stmt, err := g.generate(ctx, family, fromDate, toDate, nextMonth)
		if err != nil {
			g.log.Error("failed to generate statement",
				"family_id", family.ID, "family", family.Name, "error", err)
			result.Errors = append(result.Errors, StatementError{
				FamilyID:   family.ID,
				FamilyName: family.Name,
				Error:      err.Error(),
			})
			continue
		}
		if stmt == nil {
			result.Skipped++
			g.log.Debug("statement already exists", "family", family.Name)
			continue
		}
		result.Generated++
		g.log.Info("generated statement", "family", family.Name, "number", stmt.StatementNumber)
	}

	g.log.Info("statement run complete",
		"generated", result.Generated, "skipped", result.Skipped, "failed", len(result.Errors))
	return result, nil
}

// generate builds one family's statement, or returns nil when one already
// exists for the month.
func (g *StatementGenerator) generate(ctx context.Context, family models.Family, fromDate, toDate, nextMonth time.Time) (*models.Statement, error) {
	var existing int64
	err := g.db.WithContext(ctx).Model(&models.Statement{}).
		Where("family_id = ? AND from_date >= ? AND from_date < ?", family.ID, fromDate, nextMonth).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("checking existing statement: %w", err)
	}
	if existing > 0 {
		return nil, nil
	}

	// Opening balance is the running balance just before the period.
	opening, err := g.engine.FamilyBalance(ctx, family.ID, fromDate.Add(-time.Second))
	if err != nil {
		return nil, fmt.Errorf("opening balance: %w", err)
	}

	income, err := g.sumPayments(ctx, family.ID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	withdrawals, err := g.sumWithdrawals(ctx, family.ID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	expenses, err := g.sumLifecycleEvents(ctx, family.ID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	// Lifecycle payouts show under expenses but never move the balance.
	closing := opening.Balance.Add(income).Sub(withdrawals)

	var count int64
	err = g.db.WithContext(ctx).Model(&models.Statement{}).
		Where("family_id = ?", family.ID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("counting statements: %w", err)
	}

	stmt := models.Statement{
		FamilyID:        family.ID,
		StatementNumber: fmt.Sprintf("STMT-%06d-%d", family.ID, count+1),
		Date:            time.Now(),
		FromDate:        fromDate,
		ToDate:          toDate,
		OpeningBalance:  opening.Balance,
		Income:          income,
		Withdrawals:     withdrawals,
		Expenses:        expenses,
		ClosingBalance:  closing,
	}
	if err := g.db.WithContext(ctx).Create(&stmt).Error; err != nil {
		return nil, fmt.Errorf("creating statement: %w", err)
	}
	return &stmt, nil
}

func (g *StatementGenerator) sumPayments(ctx context.Context, familyID uint, from, to time.Time) (decimal.Decimal, error) {
	var payments []models.Payment
	err := g.db.WithContext(ctx).
		Where("family_id = ? AND payment_date >= ? AND payment_date <= ?", familyID, from, to).
		Find(&payments).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading payments: %w", err)
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (g *StatementGenerator) sumWithdrawals(ctx context.Context, familyID uint, from, to time.Time) (decimal.Decimal, error) {
	var withdrawals []models.Withdrawal
	err := g.db.WithContext(ctx).
		Where("family_id = ? AND withdrawal_date >= ? AND withdrawal_date <= ?", familyID, from, to).
		Find(&withdrawals).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading withdrawals: %w", err)
	}
	total := decimal.Zero
	for _, w := range withdrawals {
		total = total.Add(w.Amount)
	}
	return total, nil
}

func (g *StatementGenerator) sumLifecycleEvents(ctx context.Context, familyID uint, from, to time.Time) (decimal.Decimal, error) {
	var events []models.LifecycleEventPayment
	err := g.db.WithContext(ctx).
		Where("family_id = ? AND event_date >= ? AND event_date <= ?", familyID, from, to).
		Find(&events).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading lifecycle events: %w", err)
	}
	total := decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.Amount)
	}
	return total, nil
}
