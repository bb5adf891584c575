package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
)

// PaymentService defines the interface for payment operations
type PaymentService interface {
	GetPayments() ([]models.Payment, error)
	GetPaymentsByFamilyID(familyID uint) ([]models.Payment, error)
	GetPaymentByID(id uint) (models.Payment, error)
	CreatePayment(payment models.Payment) (models.Payment, error)
	UpdatePayment(id uint, payment models.Payment) (models.Payment, error)
	DeletePayment(id uint) error
}

// paymentService implements the PaymentService interface
type paymentService struct {
	db     *gorm.DB
	engine *calc.Engine
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, engine *calc.Engine) PaymentService {
	return &paymentService{
		db:     db,
		engine: engine,
	}
}

// GetPayments returns all payments, newest first
func (s *paymentService) GetPayments() ([]models.Payment, error) {
	var payments []models.Payment
	result := s.db.Order("payment_date desc").Find(&payments)
	return payments, result.Error
}

// GetPaymentsByFamilyID returns a family's payments, newest first
func (s *paymentService) GetPaymentsByFamilyID(familyID uint) ([]models.Payment, error) {
	var payments []models.Payment
	result := s.db.Where("family_id = ?", familyID).Order("payment_date desc").Find(&payments)
	return payments, result.Error
}

// GetPaymentByID returns a payment by ID
func (s *paymentService) GetPaymentByID(id uint) (models.Payment, error) {
	var payment models.Payment
	result := s.db.First(&payment, id)
	return payment, result.Error
}

// CreatePayment creates a new payment and refreshes the affected year's
// calculation. The year column defaults to the payment date's year.
func (s *paymentService) CreatePayment(payment models.Payment) (models.Payment, error) {
	if payment.Year == 0 {
		payment.Year = payment.PaymentDate.Year()
	}
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = models.PaymentMethodCash
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return models.Payment{}, err
	}

	s.refreshYear(payment.Year)
	return payment, nil
}

// UpdatePayment updates a payment
func (s *paymentService) UpdatePayment(id uint, payment models.Payment) (models.Payment, error) {
	var existing models.Payment
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Payment{}, err
	}

	oldYear := existing.Year

	existing.Amount = payment.Amount
	existing.PaymentDate = payment.PaymentDate
	existing.Year = payment.Year
	if existing.Year == 0 {
		existing.Year = payment.PaymentDate.Year()
	}
	existing.Type = payment.Type
	existing.PaymentMethod = payment.PaymentMethod
	existing.MemberID = payment.MemberID
	existing.Notes = payment.Notes

	if err := s.db.Save(&existing).Error; err != nil {
		return models.Payment{}, err
	}

	s.refreshYear(existing.Year)
	if oldYear != existing.Year {
		s.refreshYear(oldYear)
	}
	return existing, nil
}

// DeletePayment soft-deletes a payment into the recycle bin
func (s *paymentService) DeletePayment(id uint) error {
	var payment models.Payment
	if err := s.db.First(&payment, id).Error; err != nil {
		return err
	}
	if err := s.db.Delete(&payment).Error; err != nil {
		return err
	}
	s.refreshYear(payment.Year)
	return nil
}

// refreshYear is a background bookkeeping update; a failure is logged and
// never surfaced to the caller.
func (s *paymentService) refreshYear(year int) {
	if err := s.engine.RefreshYearForEvent(context.Background(), year); err != nil {
		slog.Warn("failed to refresh yearly calculation", "year", year, "error", err)
	}
}
