package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan is a named pricing tier. Plans 1-4 correspond to the four
// age/tenure brackets; each owning user keeps their own set of plans.
type PaymentPlan struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `json:"name"`
	PlanNumber  int             `json:"planNumber" gorm:"column:plan_number;uniqueIndex:idx_plan_number_user"`
	YearlyPrice decimal.Decimal `json:"yearlyPrice" gorm:"column:yearly_price;type:numeric"`
	Description string          `json:"description,omitempty"`
	UserID      uint            `json:"userId" gorm:"column:user_id;uniqueIndex:idx_plan_number_user"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (PaymentPlan) TableName() string {
	return "payment_plans"
}

// PaymentPlanRequest is used for creating and updating payment plans
type PaymentPlanRequest struct {
	Name        string          `json:"name"`
	PlanNumber  int             `json:"planNumber"`
	YearlyPrice decimal.Decimal `json:"yearlyPrice"`
	Description string          `json:"description"`
}
