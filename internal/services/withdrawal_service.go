package services

import (
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// WithdrawalService defines the interface for withdrawal operations
type WithdrawalService interface {
	GetWithdrawalsByFamilyID(familyID uint) ([]models.Withdrawal, error)
	GetWithdrawalByID(id uint) (models.Withdrawal, error)
	CreateWithdrawal(withdrawal models.Withdrawal) (models.Withdrawal, error)
	DeleteWithdrawal(id uint) error
}

// withdrawalService implements the WithdrawalService interface
type withdrawalService struct {
	db *gorm.DB
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(db *gorm.DB) WithdrawalService {
	return &withdrawalService{
		db: db,
	}
}

// GetWithdrawalsByFamilyID returns a family's withdrawals, newest first
func (s *withdrawalService) GetWithdrawalsByFamilyID(familyID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	result := s.db.Where("family_id = ?", familyID).Order("withdrawal_date desc").Find(&withdrawals)
	return withdrawals, result.Error
}

// GetWithdrawalByID returns a withdrawal by ID
func (s *withdrawalService) GetWithdrawalByID(id uint) (models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	result := s.db.First(&withdrawal, id)
	return withdrawal, result.Error
}

// CreateWithdrawal creates a new withdrawal
func (s *withdrawalService) CreateWithdrawal(withdrawal models.Withdrawal) (models.Withdrawal, error) {
	result := s.db.Create(&withdrawal)
	return withdrawal, result.Error
}

// DeleteWithdrawal permanently removes a withdrawal
func (s *withdrawalService) DeleteWithdrawal(id uint) error {
	return s.db.Delete(&models.Withdrawal{}, id).Error
}
