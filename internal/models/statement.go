package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a family's monthly account statement. Expenses carries the
// lifecycle event total for the period; it is shown on the statement but
// never subtracted from the closing balance.
type Statement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	FamilyID        uint            `json:"familyId" gorm:"column:family_id;index"`
	MemberID        *uint           `json:"memberId,omitempty" gorm:"column:member_id"`
	StatementNumber string          `json:"statementNumber" gorm:"column:statement_number"`
	Date            time.Time       `json:"date"`
	FromDate        time.Time       `json:"fromDate" gorm:"column:from_date"`
	ToDate          time.Time       `json:"toDate" gorm:"column:to_date"`
	OpeningBalance  decimal.Decimal `json:"openingBalance" gorm:"column:opening_balance;type:numeric"`
	Income          decimal.Decimal `json:"income" gorm:"type:numeric"`
	Withdrawals     decimal.Decimal `json:"withdrawals" gorm:"type:numeric"`
	Expenses        decimal.Decimal `json:"expenses" gorm:"type:numeric"`
	ClosingBalance  decimal.Decimal `json:"closingBalance" gorm:"column:closing_balance;type:numeric"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Statement) TableName() string {
	return "statements"
}
