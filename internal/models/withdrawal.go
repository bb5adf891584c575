package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal is money paid out to a family. Withdrawals exist at the
// family level only; members never have them.
type Withdrawal struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	FamilyID       uint            `json:"familyId" gorm:"column:family_id;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric"`
	WithdrawalDate time.Time       `json:"withdrawalDate" gorm:"column:withdrawal_date"`
	Reason         string          `json:"reason,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
