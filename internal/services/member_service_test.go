package services

import (
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
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return db
}

func TestCreateMemberDerivesBarMitzvahDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	birth := time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC)
	member, err := svc.CreateMember(models.FamilyMember{
		FamilyID:  1,
		FirstName: "Moshe",
		Gender:    models.GenderMale,
		BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	if member.BarMitzvahDate == nil {
		t.Fatal("expected bar mitzvah date to be derived for a male member")
	}
	// Thirteen Hebrew years later lands 12-13 Gregorian years out
	years := member.BarMitzvahDate.Year() - birth.Year()
	if years < 12 || years > 13 {
		t.Errorf("bar mitzvah date %v is %d years after birth, want 12-13", member.BarMitzvahDate, years)
	}
}

func TestCreateMemberKeepsExplicitBarMitzvahDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	birth := time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC)
	explicit := time.Date(2028, time.April, 1, 0, 0, 0, 0, time.UTC)
	member, err := svc.CreateMember(models.FamilyMember{
		FamilyID:       1,
		FirstName:      "Moshe",
		Gender:         models.GenderMale,
		BirthDate:      &birth,
		BarMitzvahDate: &explicit,
	})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if !member.BarMitzvahDate.Equal(explicit) {
		t.Errorf("bar mitzvah date = %v, want explicit %v", member.BarMitzvahDate, explicit)
	}
}

func TestCreateMemberFemaleGetsNoBarMitzvahDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	birth := time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC)
	member, err := svc.CreateMember(models.FamilyMember{
		FamilyID:  1,
		FirstName: "Rivka",
		Gender:    models.GenderFemale,
		BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if member.BarMitzvahDate != nil {
		t.Errorf("expected no bar mitzvah date for a female member, got %v", member.BarMitzvahDate)
	}
}

func TestAssignBucherPlans(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	oldEnough := time.Date(2010, time.January, 15, 0, 0, 0, 0, time.UTC)
	tooYoung := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)

	members := []models.FamilyMember{
		{FamilyID: 1, FirstName: "Yanky", Gender: models.GenderMale, BirthDate: &oldEnough},
		{FamilyID: 1, FirstName: "Shloime", Gender: models.GenderMale, BirthDate: &tooYoung},
		{FamilyID: 1, FirstName: "Rivka", Gender: models.GenderFemale, BirthDate: &oldEnough},
		{FamilyID: 1, FirstName: "Already", Gender: models.GenderMale, BirthDate: &oldEnough, PaymentPlan: 3, PaymentPlanAssigned: true},
	}
	for i := range members {
		if err := db.Create(&members[i]).Error; err != nil {
			t.Fatalf("create member: %v", err)
		}
	}

	assigned, err := svc.AssignBucherPlans(now)
	if err != nil {
		t.Fatalf("AssignBucherPlans: %v", err)
	}
	if assigned != 1 {
		t.Fatalf("assigned = %d, want 1", assigned)
	}

	var updated models.FamilyMember
	if err := db.First(&updated, members[0].ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if updated.PaymentPlan != 3 || !updated.PaymentPlanAssigned {
		t.Errorf("member not flagged: plan=%d assigned=%v", updated.PaymentPlan, updated.PaymentPlanAssigned)
	}

	// A second run finds nothing new
	assigned, err = svc.AssignBucherPlans(now)
	if err != nil {
		t.Fatalf("AssignBucherPlans second run: %v", err)
	}
	if assigned != 0 {
		t.Errorf("second run assigned = %d, want 0", assigned)
	}
}

func TestPlanOwnershipChecks(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	svc := NewPlanService(db)

	plan, err := svc.CreatePlan(models.PaymentPlan{
		UserID:     1,
		PlanNumber: 2,
		Name:       "Standard",
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	if _, err := svc.UpdatePlan(plan.ID, 2, plan); err != gorm.ErrRecordNotFound {
		t.Errorf("UpdatePlan by wrong user: err = %v, want ErrRecordNotFound", err)
	}
	if err := svc.DeletePlan(plan.ID, 2); err != gorm.ErrRecordNotFound {
		t.Errorf("DeletePlan by wrong user: err = %v, want ErrRecordNotFound", err)
	}
	if err := svc.DeletePlan(plan.ID, 1); err != nil {
		t.Errorf("DeletePlan by owner: %v", err)
	}
}

func TestRecycleBinRestoreAndPurge(t *testing.T) {
	db := newTestDB(t)
	familySvc := NewFamilyService(db)
	recycleSvc := NewRecycleService(db)

	family, err := familySvc.CreateFamily(models.Family{Name: "Friedman"})
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}
	if err := familySvc.DeleteFamily(family.ID); err != nil {
		t.Fatalf("DeleteFamily: %v", err)
	}

	items, err := recycleSvc.ListDeleted()
	if err != nil {
		t.Fatalf("ListDeleted: %v", err)
	}
	if len(items) != 1 || items[0].EntityType != EntityFamily || items[0].ID != family.ID {
		t.Fatalf("recycle bin = %+v, want one deleted family", items)
	}

	if err := recycleSvc.Restore(EntityFamily, family.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := familySvc.GetFamilyByID(family.ID); err != nil {
		t.Fatalf("restored family not visible: %v", err)
	}

	if err := familySvc.DeleteFamily(family.ID); err != nil {
		t.Fatalf("DeleteFamily again: %v", err)
	}
	if err := recycleSvc.Purge(EntityFamily, family.ID); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	var count int64
	db.Unscoped().Model(&models.Family{}).Where("id = ?", family.ID).Count(&count)
	if count != 0 {
		t.Errorf("purged family still present")
	}

	if err := recycleSvc.Restore("unknown", 1); err != ErrUnknownEntity {
		t.Errorf("Restore unknown entity: err = %v, want ErrUnknownEntity", err)
	}
}
