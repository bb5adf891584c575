package calc

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&models.PaymentPlan{},
		&models.Family{},
		&models.FamilyMember{},
		&models.Payment{},
		&models.Withdrawal{},
		&models.LifecycleEventPayment{},
		&models.YearlyCalculation{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return db
}

func createPlan(t *testing.T, db *gorm.DB, number int, price int64) models.PaymentPlan {
	t.Helper()
	plan := models.PaymentPlan{
		Name:        "Plan",
		PlanNumber:  number,
		YearlyPrice: decimal.NewFromInt(price),
	}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("Failed to create plan: %v", err)
	}
	return plan
}

func createFamily(t *testing.T, db *gorm.DB, planID *uint) models.Family {
	t.Helper()
	family := models.Family{Name: "Test Family", PaymentPlanID: planID}
	if err := db.Create(&family).Error; err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	return family
}

func createMember(t *testing.T, db *gorm.DB, familyID uint, m models.FamilyMember) models.FamilyMember {
	t.Helper()
	m.FamilyID = familyID
	if m.FirstName == "" {
		m.FirstName = "Member"
	}
	if m.LastName == "" {
		m.LastName = "Test"
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}
	return m
}

func wantDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got.String(), want)
	}
}

func TestYearlyIncome(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	plan2 := createPlan(t, db, 2, 1500)
	family := createFamily(t, db, &plan2.ID)
	createMember(t, db, family.ID, models.FamilyMember{})

	payment := models.Payment{
		FamilyID:    family.ID,
		Amount:      decimal.NewFromInt(200),
		PaymentDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Year:        2026,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("Failed to create payment: %v", err)
	}

	summary, err := engine.YearlyIncome(ctx, 2026, decimal.Zero)
	if err != nil {
		t.Fatalf("YearlyIncome failed: %v", err)
	}

	if summary.Counts.Plan2 != 1 {
		t.Errorf("Plan2 count = %d, want 1", summary.Counts.Plan2)
	}
	wantDecimal(t, "IncomePlan2", summary.IncomePlan2, 1500)
	wantDecimal(t, "TotalPayments", summary.TotalPayments, 200)
	wantDecimal(t, "TotalIncome", summary.TotalIncome, 1700)
	wantDecimal(t, "CalculatedIncome", summary.CalculatedIncome, 1700)
}

func TestYearlyIncomePaymentDateFallback(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	// No year column set; the calendar date range must still match.
	payment := models.Payment{
		FamilyID:    1,
		Amount:      decimal.NewFromInt(75),
		PaymentDate: time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("Failed to create payment: %v", err)
	}

	summary, err := engine.YearlyIncome(ctx, 2026, decimal.Zero)
	if err != nil {
		t.Fatalf("YearlyIncome failed: %v", err)
	}
	wantDecimal(t, "TotalPayments", summary.TotalPayments, 75)
}

func TestCountMembersSkipsFamilyWithoutPlan(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	// Family has no plan reference; its members must be skipped, not fail
	// the whole computation.
	family := createFamily(t, db, nil)
	createMember(t, db, family.ID, models.FamilyMember{})
	createMember(t, db, family.ID, models.FamilyMember{})

	counts, err := engine.CountMembersByPlan(ctx, 2026)
	if err != nil {
		t.Fatalf("CountMembersByPlan failed: %v", err)
	}
	if counts.Total() != 0 {
		t.Errorf("Total() = %d, want 0", counts.Total())
	}
}

func TestCountMembersBucherOverride(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	plan1 := createPlan(t, db, 1, 1200)
	family := createFamily(t, db, &plan1.ID)

	// A regular member follows the family plan; the bucher is counted
	// under plan 3 regardless.
	createMember(t, db, family.ID, models.FamilyMember{Gender: models.GenderFemale})
	createMember(t, db, family.ID, models.FamilyMember{
		Gender:              models.GenderMale,
		PaymentPlan:         3,
		PaymentPlanAssigned: true,
	})

	counts, err := engine.CountMembersByPlan(ctx, 2026)
	if err != nil {
		t.Fatalf("CountMembersByPlan failed: %v", err)
	}
	if counts.Plan1 != 1 {
		t.Errorf("Plan1 = %d, want 1", counts.Plan1)
	}
	if counts.Plan3 != 1 {
		t.Errorf("Plan3 = %d, want 1", counts.Plan3)
	}
}

func TestYearlyExpenses(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	events := []models.LifecycleEventPayment{
		{FamilyID: 1, EventType: models.EventChasena, Amount: decimal.NewFromInt(1000), Year: 2026, EventDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{FamilyID: 1, EventType: models.EventBarMitzvah, Amount: decimal.NewFromInt(500), Year: 2026, EventDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{FamilyID: 1, EventType: models.EventBirthBoy, Amount: decimal.NewFromInt(250), Year: 2026, EventDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
		// Different year, must not count.
		{FamilyID: 1, EventType: models.EventChasena, Amount: decimal.NewFromInt(9999), Year: 2025, EventDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			t.Fatalf("Failed to create event: %v", err)
		}
	}

	summary, err := engine.YearlyExpenses(ctx, 2026, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("YearlyExpenses failed: %v", err)
	}

	if summary.ChasenaCount != 1 || summary.BarMitzvahCount != 1 || summary.BirthBoyCount != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	wantDecimal(t, "TotalExpenses", summary.TotalExpenses, 1750)
	wantDecimal(t, "CalculatedExpenses", summary.CalculatedExpenses, 1850)
}

func TestCalculateAndSaveYearUpserts(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	plan2 := createPlan(t, db, 2, 1500)
	family := createFamily(t, db, &plan2.ID)
	createMember(t, db, family.ID, models.FamilyMember{})

	first, err := engine.CalculateAndSaveYear(ctx, 2026, decimal.NewFromInt(100), decimal.Zero)
	if err != nil {
		t.Fatalf("first CalculateAndSaveYear failed: %v", err)
	}
	wantDecimal(t, "first ExtraDonation", first.ExtraDonation, 100)

	second, err := engine.CalculateAndSaveYear(ctx, 2026, decimal.NewFromInt(300), decimal.Zero)
	if err != nil {
		t.Fatalf("second CalculateAndSaveYear failed: %v", err)
	}
	wantDecimal(t, "second ExtraDonation", second.ExtraDonation, 300)

	var count int64
	db.Model(&models.YearlyCalculation{}).Where("year = ?", 2026).Count(&count)
	if count != 1 {
		t.Errorf("yearly calculation rows = %d, want 1", count)
	}

	var saved models.YearlyCalculation
	if err := db.Where("year = ?", 2026).First(&saved).Error; err != nil {
		t.Fatalf("loading saved row: %v", err)
	}
	wantDecimal(t, "saved ExtraDonation", saved.ExtraDonation, 300)
	wantDecimal(t, "saved CalculatedIncome", saved.CalculatedIncome, 1800)
}

func TestRefreshYearForEventPreservesExtras(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	ctx := context.Background()

	if _, err := engine.CalculateAndSaveYear(ctx, 2026, decimal.NewFromInt(50), decimal.NewFromInt(20)); err != nil {
		t.Fatalf("CalculateAndSaveYear failed: %v", err)
	}

	event := models.LifecycleEventPayment{
		FamilyID:  1,
		EventType: models.EventBirthGirl,
		Amount:    decimal.NewFromInt(300),
		Year:      2026,
		EventDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	if err := engine.RefreshYearForEvent(ctx, 2026); err != nil {
		t.Fatalf("RefreshYearForEvent failed: %v", err)
	}

	var saved models.YearlyCalculation
	if err := db.Where("year = ?", 2026).First(&saved).Error; err != nil {
		t.Fatalf("loading saved row: %v", err)
	}
	wantDecimal(t, "ExtraDonation", saved.ExtraDonation, 50)
	wantDecimal(t, "ExtraExpense", saved.ExtraExpense, 20)
	wantDecimal(t, "BirthGirlAmount", saved.BirthGirlAmount, 300)
	wantDecimal(t, "CalculatedExpenses", saved.CalculatedExpenses, 320)
}
