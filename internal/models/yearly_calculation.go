package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// YearlyCalculation is the persisted cache of one year's aggregated
// financial summary, upserted on every recalculation. It is never the
// source of truth; the underlying collections are re-scanned each time.
type YearlyCalculation struct {
	ID   uint `gorm:"primaryKey" json:"id"`
	Year int  `json:"year" gorm:"uniqueIndex"`

	// Member counts per plan tier
	Plan1 int `json:"plan1" gorm:"column:plan1"`
	Plan2 int `json:"plan2" gorm:"column:plan2"`
	Plan3 int `json:"plan3" gorm:"column:plan3"`
	Plan4 int `json:"plan4" gorm:"column:plan4"`

	Plan1Name string `json:"plan1Name,omitempty" gorm:"column:plan1_name"`
	Plan2Name string `json:"plan2Name,omitempty" gorm:"column:plan2_name"`
	Plan3Name string `json:"plan3Name,omitempty" gorm:"column:plan3_name"`
	Plan4Name string `json:"plan4Name,omitempty" gorm:"column:plan4_name"`

	IncomePlan1 decimal.Decimal `json:"incomePlan1" gorm:"column:income_plan1;type:numeric"`
	IncomePlan2 decimal.Decimal `json:"incomePlan2" gorm:"column:income_plan2;type:numeric"`
	IncomePlan3 decimal.Decimal `json:"incomePlan3" gorm:"column:income_plan3;type:numeric"`
	IncomePlan4 decimal.Decimal `json:"incomePlan4" gorm:"column:income_plan4;type:numeric"`

	// PlanIncome is income from plan membership only; TotalPayments is
	// the sum of payment records for the year.
	PlanIncome       decimal.Decimal `json:"planIncome" gorm:"column:plan_income;type:numeric"`
	TotalPayments    decimal.Decimal `json:"totalPayments" gorm:"column:total_payments;type:numeric"`
	TotalIncome      decimal.Decimal `json:"totalIncome" gorm:"column:total_income;type:numeric"`
	ExtraDonation    decimal.Decimal `json:"extraDonation" gorm:"column:extra_donation;type:numeric"`
	CalculatedIncome decimal.Decimal `json:"calculatedIncome" gorm:"column:calculated_income;type:numeric"`

	// Lifecycle event counts and amounts
	ChasenaCount    int `json:"chasenaCount" gorm:"column:chasena_count"`
	BarMitzvahCount int `json:"barMitzvahCount" gorm:"column:bar_mitzvah_count"`
	BirthBoyCount   int `json:"birthBoyCount" gorm:"column:birth_boy_count"`
	BirthGirlCount  int `json:"birthGirlCount" gorm:"column:birth_girl_count"`

	ChasenaAmount    decimal.Decimal `json:"chasenaAmount" gorm:"column:chasena_amount;type:numeric"`
	BarMitzvahAmount decimal.Decimal `json:"barMitzvahAmount" gorm:"column:bar_mitzvah_amount;type:numeric"`
	BirthBoyAmount   decimal.Decimal `json:"birthBoyAmount" gorm:"column:birth_boy_amount;type:numeric"`
	BirthGirlAmount  decimal.Decimal `json:"birthGirlAmount" gorm:"column:birth_girl_amount;type:numeric"`

	TotalExpenses      decimal.Decimal `json:"totalExpenses" gorm:"column:total_expenses;type:numeric"`
	ExtraExpense       decimal.Decimal `json:"extraExpense" gorm:"column:extra_expense;type:numeric"`
	CalculatedExpenses decimal.Decimal `json:"calculatedExpenses" gorm:"column:calculated_expenses;type:numeric"`

	Balance decimal.Decimal `json:"balance" gorm:"type:numeric"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (YearlyCalculation) TableName() string {
	return "yearly_calculations"
}
