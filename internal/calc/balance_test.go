package calc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasaapp/kasa/internal/models"
)

func TestFamilyBalanceExcludesLifecycleEvents(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	plan := createPlan(t, db, 2, 1500)
	family := createFamily(t, db, &plan.ID)

	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	db.Create(&models.Payment{FamilyID: family.ID, Amount: decimal.NewFromInt(1000), PaymentDate: jan, Year: 2026})
	db.Create(&models.Withdrawal{FamilyID: family.ID, Amount: decimal.NewFromInt(200), WithdrawalDate: jan})
	db.Create(&models.LifecycleEventPayment{
		FamilyID: family.ID, EventType: models.EventChasena,
		Amount: decimal.NewFromInt(5000), EventDate: jan, Year: 2026,
	})

	balance, err := engine.FamilyBalance(ctx, family.ID, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FamilyBalance failed: %v", err)
	}

	wantDecimal(t, "TotalPayments", balance.TotalPayments, 1000)
	wantDecimal(t, "TotalWithdrawals", balance.TotalWithdrawals, 200)
	wantDecimal(t, "TotalLifecyclePayments", balance.TotalLifecyclePayments, 5000)
	if !balance.PlanCost.Resolved {
		t.Error("PlanCost.Resolved = false, want true")
	}
	wantDecimal(t, "PlanCost", balance.PlanCost.Amount, 1500)
	// payments - withdrawals - plan cost; the 5000 payout never enters.
	wantDecimal(t, "Balance", balance.Balance, -700)
}

func TestFamilyBalanceMissingPlanFailsOpen(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	family := createFamily(t, db, nil)
	db.Create(&models.Payment{
		FamilyID: family.ID, Amount: decimal.NewFromInt(400),
		PaymentDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Year: 2026,
	})

	balance, err := engine.FamilyBalance(ctx, family.ID, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FamilyBalance failed: %v", err)
	}

	if balance.PlanCost.Resolved {
		t.Error("PlanCost.Resolved = true, want false for defaulted cost")
	}
	wantDecimal(t, "PlanCost", balance.PlanCost.Amount, 0)
	wantDecimal(t, "Balance", balance.Balance, 400)
}

func TestFamilyBalanceDanglingPlanReference(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	missing := uint(999)
	family := createFamily(t, db, &missing)

	balance, err := engine.FamilyBalance(ctx, family.ID, time.Now())
	if err != nil {
		t.Fatalf("FamilyBalance failed: %v", err)
	}
	if balance.PlanCost.Resolved {
		t.Error("PlanCost.Resolved = true for dangling reference, want false")
	}
}

func TestFamilyBalanceAsOfDateFiltering(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	family := createFamily(t, db, nil)
	db.Create(&models.Payment{
		FamilyID: family.ID, Amount: decimal.NewFromInt(100),
		PaymentDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Year: 2026,
	})
	db.Create(&models.Payment{
		FamilyID: family.ID, Amount: decimal.NewFromInt(100),
		PaymentDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Year: 2026,
	})

	balance, err := engine.FamilyBalance(ctx, family.ID, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FamilyBalance failed: %v", err)
	}
	wantDecimal(t, "TotalPayments", balance.TotalPayments, 100)
}

func TestFamilyBalanceNotFound(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	_, err := engine.FamilyBalance(context.Background(), 12345, time.Now())
	if !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("err = %v, want ErrFamilyNotFound", err)
	}
}

func TestMemberBalanceLegacyPlanFallback(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	family := createFamily(t, db, nil)
	member := createMember(t, db, family.ID, models.FamilyMember{
		Gender:              models.GenderMale,
		PaymentPlan:         3,
		PaymentPlanAssigned: true,
	})

	memberID := member.ID
	db.Create(&models.Payment{
		FamilyID: family.ID, MemberID: &memberID,
		Amount:      decimal.NewFromInt(2000),
		PaymentDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Year:        2026,
	})
	db.Create(&models.LifecycleEventPayment{
		FamilyID: family.ID, MemberID: &memberID,
		EventType: models.EventBarMitzvah,
		Amount:    decimal.NewFromInt(750),
		EventDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Year:      2026,
	})

	balance, err := engine.MemberBalance(ctx, member.ID, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MemberBalance failed: %v", err)
	}

	if !balance.PlanCost.Resolved {
		t.Error("PlanCost.Resolved = false, want true for legacy fallback")
	}
	wantDecimal(t, "PlanCost", balance.PlanCost.Amount, 1800)
	wantDecimal(t, "TotalPayments", balance.TotalPayments, 2000)
	wantDecimal(t, "TotalLifecyclePayments", balance.TotalLifecyclePayments, 750)
	// payments - plan cost; members have no withdrawals and lifecycle
	// payouts never enter.
	wantDecimal(t, "Balance", balance.Balance, 200)
}

func TestMemberBalanceNoPlan(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	family := createFamily(t, db, nil)
	member := createMember(t, db, family.ID, models.FamilyMember{})

	balance, err := engine.MemberBalance(context.Background(), member.ID, time.Now())
	if err != nil {
		t.Fatalf("MemberBalance failed: %v", err)
	}
	if balance.PlanCost.Resolved {
		t.Error("PlanCost.Resolved = true, want false")
	}
	wantDecimal(t, "Balance", balance.Balance, 0)
}
