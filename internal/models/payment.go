package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods
const (
	PaymentMethodCash       = "cash"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodCheck      = "check"
	PaymentMethodQuickPay   = "quick_pay"
)

// Payment is money received from a family, optionally attributed to a
// specific member. Year is the primary aggregation key; the payment date
// range is the fallback.
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	FamilyID    uint            `json:"familyId" gorm:"column:family_id;index"`
	MemberID    *uint           `json:"memberId,omitempty" gorm:"column:member_id;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric"`
	PaymentDate time.Time       `json:"paymentDate" gorm:"column:payment_date"`
	Year        int             `json:"year" gorm:"index"`
	Type        string          `json:"type,omitempty"` // membership | donation | other
	PaymentMethod string        `json:"paymentMethod" gorm:"column:payment_method;default:cash"`

	// Card details, populated for credit card payments
	CardLast4   string `json:"cardLast4,omitempty" gorm:"column:card_last4"`
	CardType    string `json:"cardType,omitempty" gorm:"column:card_type"`
	NameOnCard  string `json:"nameOnCard,omitempty" gorm:"column:name_on_card"`

	// Check details
	CheckNumber string `json:"checkNumber,omitempty" gorm:"column:check_number"`
	BankName    string `json:"bankName,omitempty" gorm:"column:bank_name"`

	StripePaymentIntentID string `json:"stripePaymentIntentId,omitempty" gorm:"column:stripe_payment_intent_id"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Payment) TableName() string {
	return "payments"
}
