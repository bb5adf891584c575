package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/hebrew"
	"github.com/kasaapp/kasa/internal/models"
)

// MemberService defines the interface for family member operations
type MemberService interface {
	GetMembersByFamilyID(familyID uint) ([]models.FamilyMember, error)
	GetMemberByID(id uint) (models.FamilyMember, error)
	CreateMember(member models.FamilyMember) (models.FamilyMember, error)
	UpdateMember(id uint, member models.FamilyMember) (models.FamilyMember, error)
	DeleteMember(id uint) error
	AssignBucherPlans(now time.Time) (int, error)
}

// memberService implements the MemberService interface
type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new member service
func NewMemberService(db *gorm.DB) MemberService {
	return &memberService{
		db: db,
	}
}

// GetMembersByFamilyID returns all members of a family
func (s *memberService) GetMembersByFamilyID(familyID uint) ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	result := s.db.Where("family_id = ?", familyID).Order("birth_date").Find(&members)
	return members, result.Error
}

// GetMemberByID returns a member by ID
func (s *memberService) GetMemberByID(id uint) (models.FamilyMember, error) {
	var member models.FamilyMember
	result := s.db.First(&member, id)
	return member, result.Error
}

// CreateMember creates a new family member. The bar mitzvah date is
// derived from the birth date when not supplied.
func (s *memberService) CreateMember(member models.FamilyMember) (models.FamilyMember, error) {
	if member.BarMitzvahDate == nil && member.Gender == models.GenderMale && member.BirthDate != nil {
		bm := hebrew.BarMitzvahDate(*member.BirthDate)
		member.BarMitzvahDate = &bm
	}
	result := s.db.Create(&member)
	return member, result.Error
}

// UpdateMember updates a family member
func (s *memberService) UpdateMember(id uint, member models.FamilyMember) (models.FamilyMember, error) {
	var existing models.FamilyMember
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.FamilyMember{}, err
	}

	// Update allowed fields
	existing.FirstName = member.FirstName
	existing.HebrewFirstName = member.HebrewFirstName
	existing.LastName = member.LastName
	existing.HebrewLastName = member.HebrewLastName
	existing.BirthDate = member.BirthDate
	existing.HebrewBirthDate = member.HebrewBirthDate
	existing.Gender = member.Gender
	existing.BarMitzvahDate = member.BarMitzvahDate
	existing.BatMitzvahDate = member.BatMitzvahDate
	existing.WeddingDate = member.WeddingDate
	existing.SpouseName = member.SpouseName
	existing.SpouseFirstName = member.SpouseFirstName
	existing.SpouseHebrewName = member.SpouseHebrewName
	existing.SpouseFatherHebrewName = member.SpouseFatherHebrewName
	existing.SpouseCellPhone = member.SpouseCellPhone
	existing.Phone = member.Phone
	existing.Email = member.Email
	existing.Address = member.Address
	existing.City = member.City
	existing.State = member.State
	existing.Zip = member.Zip
	existing.PaymentPlan = member.PaymentPlan
	existing.PaymentPlanID = member.PaymentPlanID
	existing.PaymentPlanAssigned = member.PaymentPlanAssigned
	existing.Notes = member.Notes

	result := s.db.Save(&existing)
	return existing, result.Error
}

// DeleteMember soft-deletes a member into the recycle bin
func (s *memberService) DeleteMember(id uint) error {
	var member models.FamilyMember
	if err := s.db.First(&member, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&member).Error
}

// AssignBucherPlans flags male members who have reached bar mitzvah age
// on the Hebrew calendar for individual plan-3 billing. Returns how many
// members were newly flagged.
func (s *memberService) AssignBucherPlans(now time.Time) (int, error) {
	var members []models.FamilyMember
	err := s.db.
		Where("gender = ? AND payment_plan_assigned = ? AND birth_date IS NOT NULL", models.GenderMale, false).
		Find(&members).Error
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, member := range members {
		if member.BirthDate == nil || !hebrew.HasReachedBarMitzvah(*member.BirthDate, now) {
			continue
		}
		err := s.db.Model(&models.FamilyMember{}).
			Where("id = ?", member.ID).
			Updates(map[string]interface{}{
				"payment_plan":          3,
				"payment_plan_assigned": true,
			}).Error
		if err != nil {
			return assigned, err
		}
		assigned++
	}
	return assigned, nil
}
