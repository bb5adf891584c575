package models

import (
	"time"
)

// AuditLog records every mutating API request: who did what to which
// entity, and how the server answered.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  string    `json:"requestId" gorm:"column:request_id"`
	Username   string    `json:"username" gorm:"index"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"statusCode" gorm:"column:status_code"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
