package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Family is the billable unit. Members belong to a family; the family's
// payment plan drives per-member tier counting unless a member carries an
// individual override.
type Family struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `json:"name"`
	HebrewName string     `json:"hebrewName,omitempty" gorm:"column:hebrew_name"`
	WeddingDate *time.Time `json:"weddingDate,omitempty" gorm:"column:wedding_date"`

	HusbandFirstName        string `json:"husbandFirstName,omitempty" gorm:"column:husband_first_name"`
	HusbandHebrewName       string `json:"husbandHebrewName,omitempty" gorm:"column:husband_hebrew_name"`
	HusbandFatherHebrewName string `json:"husbandFatherHebrewName,omitempty" gorm:"column:husband_father_hebrew_name"`
	HusbandCellPhone        string `json:"husbandCellPhone,omitempty" gorm:"column:husband_cell_phone"`
	WifeFirstName           string `json:"wifeFirstName,omitempty" gorm:"column:wife_first_name"`
	WifeHebrewName          string `json:"wifeHebrewName,omitempty" gorm:"column:wife_hebrew_name"`
	WifeFatherHebrewName    string `json:"wifeFatherHebrewName,omitempty" gorm:"column:wife_father_hebrew_name"`
	WifeCellPhone           string `json:"wifeCellPhone,omitempty" gorm:"column:wife_cell_phone"`

	Address string `json:"address,omitempty"`
	Street  string `json:"street,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	// CurrentPlan is the legacy plan number, kept for records created
	// before the ID-based plan system.
	CurrentPlan   int   `json:"currentPlan" gorm:"column:current_plan;default:1"`
	PaymentPlanID *uint `json:"paymentPlanId,omitempty" gorm:"column:payment_plan_id"`
	PaymentPlan   *PaymentPlan `json:"paymentPlan,omitempty" gorm:"foreignKey:PaymentPlanID"`

	CurrentPayment decimal.Decimal `json:"currentPayment" gorm:"column:current_payment;type:numeric"`
	// OpenBalance is deprecated. It is reported on balances for display
	// but never enters the balance formula.
	OpenBalance decimal.Decimal `json:"openBalance" gorm:"column:open_balance;type:numeric"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Family) TableName() string {
	return "families"
}
