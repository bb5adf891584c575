package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// ErrUnknownEntity is returned for recycle bin requests naming an entity
// type without soft deletes.
var ErrUnknownEntity = errors.New("unknown entity type")

// Recycle bin entity types
const (
	EntityFamily  = "family"
	EntityMember  = "member"
	EntityPayment = "payment"
)

// RecycleBinItem is one soft-deleted record awaiting restore or purge.
type RecycleBinItem struct {
	EntityType string      `json:"entityType"`
	ID         uint        `json:"id"`
	DeletedAt  interface{} `json:"deletedAt"`
	Record     interface{} `json:"record"`
}

// RecycleService defines the interface for the recycle bin. Soft-deleted
// families, members, and payments live here until restored or purged.
type RecycleService interface {
	ListDeleted() ([]RecycleBinItem, error)
	Restore(entityType string, id uint) error
	Purge(entityType string, id uint) error
}

// recycleService implements the RecycleService interface
type recycleService struct {
	db *gorm.DB
}

// NewRecycleService creates a new recycle service
func NewRecycleService(db *gorm.DB) RecycleService {
	return &recycleService{
		db: db,
	}
}

// ListDeleted returns every soft-deleted record across the binned tables
func (s *recycleService) ListDeleted() ([]RecycleBinItem, error) {
	items := []RecycleBinItem{}

	var families []models.Family
	if err := s.db.Unscoped().Where("deleted_at IS NOT NULL").Find(&families).Error; err != nil {
		return nil, err
	}
	for _, f := range families {
		items = append(items, RecycleBinItem{EntityType: EntityFamily, ID: f.ID, DeletedAt: f.DeletedAt, Record: f})
	}

	var members []models.FamilyMember
	if err := s.db.Unscoped().Where("deleted_at IS NOT NULL").Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		items = append(items, RecycleBinItem{EntityType: EntityMember, ID: m.ID, DeletedAt: m.DeletedAt, Record: m})
	}

	var payments []models.Payment
	if err := s.db.Unscoped().Where("deleted_at IS NOT NULL").Find(&payments).Error; err != nil {
		return nil, err
	}
	for _, p := range payments {
		items = append(items, RecycleBinItem{EntityType: EntityPayment, ID: p.ID, DeletedAt: p.DeletedAt, Record: p})
	}

	return items, nil
}

// Restore clears the deletion mark on a soft-deleted record
func (s *recycleService) Restore(entityType string, id uint) error {
	model, err := modelFor(entityType)
	if err != nil {
		return err
	}
	return s.db.Unscoped().Model(model).Where("id = ?", id).Update("deleted_at", nil).Error
}

// Purge permanently removes a soft-deleted record
func (s *recycleService) Purge(entityType string, id uint) error {
	model, err := modelFor(entityType)
	if err != nil {
		return err
	}
	return s.db.Unscoped().Where("id = ?", id).Delete(model).Error
}

func modelFor(entityType string) (interface{}, error) {
	switch entityType {
	case EntityFamily:
		return &models.Family{}, nil
	case EntityMember:
		return &models.FamilyMember{}, nil
	case EntityPayment:
		return &models.Payment{}, nil
	default:
		return nil, ErrUnknownEntity
	}
}
