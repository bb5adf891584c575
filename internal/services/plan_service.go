package services

import (
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// PlanService defines the interface for payment plan operations. Plans
// are scoped to their owning user.
type PlanService interface {
	GetPlansByUserID(userID uint) ([]models.PaymentPlan, error)
	GetPlanByID(id uint) (models.PaymentPlan, error)
	CreatePlan(plan models.PaymentPlan) (models.PaymentPlan, error)
	UpdatePlan(id uint, userID uint, plan models.PaymentPlan) (models.PaymentPlan, error)
	DeletePlan(id uint, userID uint) error
}

// planService implements the PlanService interface
type planService struct {
	db *gorm.DB
}

// NewPlanService creates a new plan service
func NewPlanService(db *gorm.DB) PlanService {
	return &planService{
		db: db,
	}
}

// GetPlansByUserID returns a user's plans ordered by plan number
func (s *planService) GetPlansByUserID(userID uint) ([]models.PaymentPlan, error) {
	var plans []models.PaymentPlan
	result := s.db.Where("user_id = ?", userID).Order("plan_number").Find(&plans)
	return plans, result.Error
}

// GetPlanByID returns a plan by ID
func (s *planService) GetPlanByID(id uint) (models.PaymentPlan, error) {
	var plan models.PaymentPlan
	result := s.db.First(&plan, id)
	return plan, result.Error
}

// CreatePlan creates a new payment plan
func (s *planService) CreatePlan(plan models.PaymentPlan) (models.PaymentPlan, error) {
	result := s.db.Create(&plan)
	return plan, result.Error
}

// UpdatePlan updates a payment plan after verifying ownership
func (s *planService) UpdatePlan(id uint, userID uint, plan models.PaymentPlan) (models.PaymentPlan, error) {
	var existing models.PaymentPlan
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.PaymentPlan{}, err
	}

	// Verify ownership
	if existing.UserID != userID {
		return models.PaymentPlan{}, gorm.ErrRecordNotFound
	}

	existing.Name = plan.Name
	existing.PlanNumber = plan.PlanNumber
	existing.YearlyPrice = plan.YearlyPrice
	existing.Description = plan.Description

	result := s.db.Save(&existing)
	return existing, result.Error
}

// DeletePlan deletes a payment plan after verifying ownership
func (s *planService) DeletePlan(id uint, userID uint) error {
	var plan models.PaymentPlan
	if err := s.db.First(&plan, id).Error; err != nil {
		return err
	}

	// Verify ownership
	if plan.UserID != userID {
		return gorm.ErrRecordNotFound
	}

	return s.db.Delete(&models.PaymentPlan{}, id).Error
}
