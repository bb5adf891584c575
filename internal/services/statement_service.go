package services

import (
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// StatementService defines the interface for statement operations
type StatementService interface {
	GetStatements() ([]models.Statement, error)
	GetStatementsByFamilyID(familyID uint) ([]models.Statement, error)
	GetStatementByID(id uint) (models.Statement, error)
	DeleteStatement(id uint) error
}

// statementService implements the StatementService interface
type statementService struct {
	db *gorm.DB
}

// NewStatementService creates a new statement service
func NewStatementService(db *gorm.DB) StatementService {
	return &statementService{
		db: db,
	}
}

// GetStatements returns all statements, newest period first
func (s *statementService) GetStatements() ([]models.Statement, error) {
	var statements []models.Statement
	result := s.db.Order("from_date desc").Find(&statements)
	return statements, result.Error
}

// GetStatementsByFamilyID returns a family's statements
func (s *statementService) GetStatementsByFamilyID(familyID uint) ([]models.Statement, error) {
	var statements []models.Statement
	result := s.db.Where("family_id = ?", familyID).Order("from_date desc").Find(&statements)
	return statements, result.Error
}

// GetStatementByID returns a statement by ID
func (s *statementService) GetStatementByID(id uint) (models.Statement, error) {
	var statement models.Statement
	result := s.db.First(&statement, id)
	return statement, result.Error
}

// DeleteStatement permanently removes a statement
func (s *statementService) DeleteStatement(id uint) error {
	return s.db.Delete(&models.Statement{}, id).Error
}
