package services

import (
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// FamilyService defines the interface for family operations
type FamilyService interface {
	GetFamilies() ([]models.Family, error)
	GetFamilyByID(id uint) (models.Family, error)
	CreateFamily(family models.Family) (models.Family, error)
	UpdateFamily(id uint, family models.Family) (models.Family, error)
	DeleteFamily(id uint) error
}

// familyService implements the FamilyService interface
type familyService struct {
	db *gorm.DB
}

// NewFamilyService creates a new family service
func NewFamilyService(db *gorm.DB) FamilyService {
	return &familyService{
		db: db,
	}
}

// GetFamilies returns all families with their plan preloaded
func (s *familyService) GetFamilies() ([]models.Family, error) {
	var families []models.Family
	result := s.db.Preload("PaymentPlan").Order("name").Find(&families)
	return families, result.Error
}

// GetFamilyByID returns a family by ID
func (s *familyService) GetFamilyByID(id uint) (models.Family, error) {
	var family models.Family
	result := s.db.Preload("PaymentPlan").First(&family, id)
	return family, result.Error
}

// CreateFamily creates a new family
func (s *familyService) CreateFamily(family models.Family) (models.Family, error) {
	result := s.db.Create(&family)
	return family, result.Error
}

// UpdateFamily updates a family
func (s *familyService) UpdateFamily(id uint, family models.Family) (models.Family, error) {
	var existing models.Family
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Family{}, err
	}

	// Update allowed fields
	existing.Name = family.Name
	existing.HebrewName = family.HebrewName
	existing.WeddingDate = family.WeddingDate
	existing.HusbandFirstName = family.HusbandFirstName
	existing.HusbandHebrewName = family.HusbandHebrewName
	existing.HusbandFatherHebrewName = family.HusbandFatherHebrewName
	existing.HusbandCellPhone = family.HusbandCellPhone
	existing.WifeFirstName = family.WifeFirstName
	existing.WifeHebrewName = family.WifeHebrewName
	existing.WifeFatherHebrewName = family.WifeFatherHebrewName
	existing.WifeCellPhone = family.WifeCellPhone
	existing.Address = family.Address
	existing.Street = family.Street
	existing.Phone = family.Phone
	existing.Email = family.Email
	existing.City = family.City
	existing.State = family.State
	existing.Zip = family.Zip
	existing.CurrentPlan = family.CurrentPlan
	existing.PaymentPlanID = family.PaymentPlanID

	result := s.db.Save(&existing)
	return existing, result.Error
}

// DeleteFamily soft-deletes a family into the recycle bin
func (s *familyService) DeleteFamily(id uint) error {
	var family models.Family
	if err := s.db.First(&family, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&family).Error
}
