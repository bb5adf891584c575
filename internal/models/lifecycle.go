package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle event types
const (
	EventChasena    = "chasena"
	EventBarMitzvah = "bar_mitzvah"
	EventBirthBoy   = "birth_boy"
	EventBirthGirl  = "birth_girl"
)

// LifecycleEvent is a catalog entry: an event type with its default payout
// amount.
type LifecycleEvent struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Type      string          `json:"type" gorm:"uniqueIndex"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (LifecycleEvent) TableName() string {
	return "lifecycle_events"
}

// LifecycleEventPayment records a payout for a life milestone. These count
// toward yearly expenses but are deliberately excluded from every balance
// formula; they are informational on family and member balances.
type LifecycleEventPayment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FamilyID  uint            `json:"familyId" gorm:"column:family_id;index"`
	MemberID  *uint           `json:"memberId,omitempty" gorm:"column:member_id"`
	EventType string          `json:"eventType" gorm:"column:event_type"`
	EventDate time.Time       `json:"eventDate" gorm:"column:event_date"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric"`
	Year      int             `json:"year" gorm:"index"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (LifecycleEventPayment) TableName() string {
	return "lifecycle_event_payments"
}
