package batch

import (
	"context"
	"testing"
	"time"

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
		&models.Statement{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return db
}

func TestWeddingConversion(t *testing.T) {
	db := newTestDB(t)
	converter := NewWeddingConverter(db)
	ctx := context.Background()

	original := models.Family{
		Name:              "Gross Family",
		Address:           "12 Main St",
		City:              "Monsey",
		Phone:             "555-0100",
		HusbandHebrewName: "Moshe",
	}
	if err := db.Create(&original).Error; err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	wedding := time.Now().AddDate(-6, 0, -30) // married 6 years ago
	member := models.FamilyMember{
		FamilyID:        original.ID,
		FirstName:       "Yanky",
		LastName:        "Gross",
		HebrewFirstName: "Yaakov",
		Gender:          models.GenderMale,
		WeddingDate:     &wedding,
		SpouseFirstName: "Rivky",
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}

	result, err := converter.Run(ctx, time.Now())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Converted != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 1 converted 0 failed", result)
	}

	// The member must be gone, even past the soft-delete veil.
	var memberCount int64
	db.Unscoped().Model(&models.FamilyMember{}).Where("id = ?", member.ID).Count(&memberCount)
	if memberCount != 0 {
		t.Error("converted member still exists")
	}

	var newFamily models.Family
	if err := db.Where("name = ?", "Yanky Gross Family").First(&newFamily).Error; err != nil {
		t.Fatalf("new family not found: %v", err)
	}

	// 6 years married puts the new family on plan 2; contact details are
	// inherited from the original family.
	if newFamily.CurrentPlan != 2 {
		t.Errorf("CurrentPlan = %d, want 2", newFamily.CurrentPlan)
	}
	if newFamily.Address != "12 Main St" || newFamily.City != "Monsey" || newFamily.Phone != "555-0100" {
		t.Errorf("inherited contact fields wrong: %+v", newFamily)
	}
	if newFamily.HusbandFirstName != "Yanky" || newFamily.WifeFirstName != "Rivky" {
		t.Errorf("husband/wife fields wrong: %+v", newFamily)
	}
	if newFamily.HusbandFatherHebrewName != "Moshe" {
		t.Errorf("HusbandFatherHebrewName = %q, want Moshe", newFamily.HusbandFatherHebrewName)
	}

	// Spouse stub lives in the new family.
	var spouse models.FamilyMember
	if err := db.Where("family_id = ? AND first_name = ?", newFamily.ID, "Rivky").First(&spouse).Error; err != nil {
		t.Fatalf("spouse stub not found: %v", err)
	}
	if spouse.Gender != models.GenderFemale {
		t.Errorf("spouse gender = %q, want female", spouse.Gender)
	}
}

func TestWeddingConversionIdempotent(t *testing.T) {
	db := newTestDB(t)
	converter := NewWeddingConverter(db)
	ctx := context.Background()

	original := models.Family{Name: "Katz Family"}
	db.Create(&original)

	wedding := time.Now().AddDate(0, 0, -1)
	member := models.FamilyMember{
		FamilyID:    original.ID,
		FirstName:   "Shmuel",
		LastName:    "Katz",
		Gender:      models.GenderMale,
		WeddingDate: &wedding,
	}
	db.Create(&member)

	first, err := converter.Run(ctx, time.Now())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Converted != 1 {
		t.Fatalf("first run converted = %d, want 1", first.Converted)
	}

	second, err := converter.Run(ctx, time.Now())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Eligible != 0 || second.Converted != 0 {
		t.Errorf("second run = %+v, want no-op", second)
	}

	var familyCount int64
	db.Model(&models.Family{}).Where("name LIKE ?", "Shmuel Katz%").Count(&familyCount)
	if familyCount != 1 {
		t.Errorf("families created = %d, want 1", familyCount)
	}
}

func TestWeddingConversionSkipsFutureWeddings(t *testing.T) {
	db := newTestDB(t)
	converter := NewWeddingConverter(db)

	original := models.Family{Name: "Stern Family"}
	db.Create(&original)

	wedding := time.Now().AddDate(0, 1, 0)
	member := models.FamilyMember{
		FamilyID:    original.ID,
		FirstName:   "Duvid",
		LastName:    "Stern",
		Gender:      models.GenderMale,
		WeddingDate: &wedding,
	}
	db.Create(&member)

	result, err := converter.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Eligible != 0 {
		t.Errorf("eligible = %d, want 0", result.Eligible)
	}
}

func TestWeddingConversionContinuesOnFailure(t *testing.T) {
	db := newTestDB(t)
	converter := NewWeddingConverter(db)
	ctx := context.Background()

	// First member points at a family that does not exist; the second is
	// fine. The batch must convert the second regardless.
	wedding := time.Now().AddDate(-1, 0, 0)
	orphan := models.FamilyMember{
		FamilyID:    9999,
		FirstName:   "Orphan",
		LastName:    "Record",
		Gender:      models.GenderMale,
		WeddingDate: &wedding,
	}
	db.Create(&orphan)

	family := models.Family{Name: "Weiss Family"}
	db.Create(&family)
	ok := models.FamilyMember{
		FamilyID:    family.ID,
		FirstName:   "Chaim",
		LastName:    "Weiss",
		Gender:      models.GenderMale,
		WeddingDate: &wedding,
	}
	db.Create(&ok)

	result, err := converter.Run(ctx, time.Now())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Converted != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 converted 1 failed", result)
	}
}
