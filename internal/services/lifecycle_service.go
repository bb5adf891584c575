package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
)

// LifecycleService defines the interface for lifecycle event types and
// event payouts
type LifecycleService interface {
	GetEventTypes() ([]models.LifecycleEvent, error)
	CreateEventType(event models.LifecycleEvent) (models.LifecycleEvent, error)
	UpdateEventType(id uint, event models.LifecycleEvent) (models.LifecycleEvent, error)

	GetEventPayments() ([]models.LifecycleEventPayment, error)
	GetEventPaymentsByFamilyID(familyID uint) ([]models.LifecycleEventPayment, error)
	CreateEventPayment(payment models.LifecycleEventPayment) (models.LifecycleEventPayment, error)
	DeleteEventPayment(id uint) error
}

// lifecycleService implements the LifecycleService interface
type lifecycleService struct {
	db     *gorm.DB
	engine *calc.Engine
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(db *gorm.DB, engine *calc.Engine) LifecycleService {
	return &lifecycleService{
		db:     db,
		engine: engine,
	}
}

// GetEventTypes returns the event type catalog
func (s *lifecycleService) GetEventTypes() ([]models.LifecycleEvent, error) {
	var events []models.LifecycleEvent
	result := s.db.Order("type").Find(&events)
	return events, result.Error
}

// CreateEventType adds an event type to the catalog
func (s *lifecycleService) CreateEventType(event models.LifecycleEvent) (models.LifecycleEvent, error) {
	result := s.db.Create(&event)
	return event, result.Error
}

// UpdateEventType updates an event type's name and default amount
func (s *lifecycleService) UpdateEventType(id uint, event models.LifecycleEvent) (models.LifecycleEvent, error) {
	var existing models.LifecycleEvent
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.LifecycleEvent{}, err
	}

	existing.Name = event.Name
	existing.Amount = event.Amount

	result := s.db.Save(&existing)
	return existing, result.Error
}

// GetEventPayments returns all event payouts, newest first
func (s *lifecycleService) GetEventPayments() ([]models.LifecycleEventPayment, error) {
	var payments []models.LifecycleEventPayment
	result := s.db.Order("event_date desc").Find(&payments)
	return payments, result.Error
}

// GetEventPaymentsByFamilyID returns a family's event payouts
func (s *lifecycleService) GetEventPaymentsByFamilyID(familyID uint) ([]models.LifecycleEventPayment, error) {
	var payments []models.LifecycleEventPayment
	result := s.db.Where("family_id = ?", familyID).Order("event_date desc").Find(&payments)
	return payments, result.Error
}

// CreateEventPayment records an event payout and refreshes the affected
// year's calculation
func (s *lifecycleService) CreateEventPayment(payment models.LifecycleEventPayment) (models.LifecycleEventPayment, error) {
	if payment.Year == 0 {
		payment.Year = payment.EventDate.Year()
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return models.LifecycleEventPayment{}, err
	}

	s.refreshYear(payment.Year)
	return payment, nil
}

// DeleteEventPayment permanently removes an event payout
func (s *lifecycleService) DeleteEventPayment(id uint) error {
	var payment models.LifecycleEventPayment
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
func (s *lifecycleService) refreshYear(year int) {
	if err := s.engine.RefreshYearForEvent(context.Background(), year); err != nil {
		slog.Warn("failed to refresh yearly calculation", "year", year, "error", err)
	}
}
