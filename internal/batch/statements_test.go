package batch

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
)

func wantDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got.String(), want)
	}
}

func newGenerator(t *testing.T) (*StatementGenerator, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewStatementGenerator(db, calc.NewEngine(db)), db
}

func TestStatementGeneration(t *testing.T) {
	gen, db := newGenerator(t)
	ctx := context.Background()

	plan := models.PaymentPlan{Name: "Plan 2", PlanNumber: 2, YearlyPrice: decimal.NewFromInt(1500)}
	db.Create(&plan)
	family := models.Family{Name: "Braun Family", PaymentPlanID: &plan.ID}
	db.Create(&family)

	// Activity before the period feeds the opening balance.
	db.Create(&models.Payment{
		FamilyID: family.ID, Amount: decimal.NewFromInt(2000),
		PaymentDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), Year: 2026,
	})
	// Activity inside March 2026.
	db.Create(&models.Payment{
		FamilyID: family.ID, Amount: decimal.NewFromInt(300),
		PaymentDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Year: 2026,
	})
	db.Create(&models.Withdrawal{
		FamilyID: family.ID, Amount: decimal.NewFromInt(50),
		WithdrawalDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	db.Create(&models.LifecycleEventPayment{
		FamilyID: family.ID, EventType: models.EventBirthGirl,
		Amount:    decimal.NewFromInt(400),
		EventDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), Year: 2026,
	})

	result, err := gen.Run(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Generated != 1 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v, want 1 generated", result)
	}

	var stmt models.Statement
	if err := db.Where("family_id = ?", family.ID).First(&stmt).Error; err != nil {
		t.Fatalf("statement not found: %v", err)
	}

	// Opening: 2000 payments - 1500 plan cost = 500.
	wantDecimal(t, "OpeningBalance", stmt.OpeningBalance, 500)
	wantDecimal(t, "Income", stmt.Income, 300)
	wantDecimal(t, "Withdrawals", stmt.Withdrawals, 50)
	// Lifecycle payout shows as an expense line only.
	wantDecimal(t, "Expenses", stmt.Expenses, 400)
	// Closing excludes the 400 payout: 500 + 300 - 50.
	wantDecimal(t, "ClosingBalance", stmt.ClosingBalance, 750)

	if stmt.StatementNumber == "" {
		t.Error("statement number is empty")
	}
}

func TestStatementGenerationIdempotentPerMonth(t *testing.T) {
	gen, db := newGenerator(t)
	ctx := context.Background()

	family := models.Family{Name: "Low Family"}
	db.Create(&family)

	first, err := gen.Run(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Generated != 1 {
		t.Fatalf("first run generated = %d, want 1", first.Generated)
	}

	second, err := gen.Run(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Generated != 0 || second.Skipped != 1 {
		t.Errorf("second run = %+v, want 0 generated 1 skipped", second)
	}

	var count int64
	db.Model(&models.Statement{}).Where("family_id = ?", family.ID).Count(&count)
	if count != 1 {
		t.Errorf("statements = %d, want 1", count)
	}

	// A different month still generates.
	third, err := gen.Run(ctx, 2026, 4)
	if err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if third.Generated != 1 {
		t.Errorf("third run generated = %d, want 1", third.Generated)
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2026, 2)
	if from != time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("from = %v", from)
	}
	if to != time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC) {
		t.Errorf("to = %v", to)
	}
}
