package models

import (
	"time"

	"gorm.io/gorm"
)

// Member genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// FamilyMember belongs to exactly one family. A member normally inherits
// the family's payment plan; a male member who reached bar mitzvah age on
// the Hebrew calendar is billed individually (PaymentPlanAssigned + plan 3).
type FamilyMember struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	FamilyID        uint       `json:"familyId" gorm:"column:family_id;index"`
	Family          *Family    `json:"family,omitempty" gorm:"foreignKey:FamilyID"`
	FirstName       string     `json:"firstName"`
	HebrewFirstName string     `json:"hebrewFirstName,omitempty" gorm:"column:hebrew_first_name"`
	LastName        string     `json:"lastName"`
	HebrewLastName  string     `json:"hebrewLastName,omitempty" gorm:"column:hebrew_last_name"`
	BirthDate       *time.Time `json:"birthDate,omitempty" gorm:"column:birth_date"`
	HebrewBirthDate string     `json:"hebrewBirthDate,omitempty" gorm:"column:hebrew_birth_date"`
	Gender          string     `json:"gender,omitempty"`
	BarMitzvahDate  *time.Time `json:"barMitzvahDate,omitempty" gorm:"column:bar_mitzvah_date"`
	BatMitzvahDate  *time.Time `json:"batMitzvahDate,omitempty" gorm:"column:bat_mitzvah_date"`
	WeddingDate     *time.Time `json:"weddingDate,omitempty" gorm:"column:wedding_date"`

	// Spouse details collected ahead of the wedding so the conversion job
	// can seed the new family.
	SpouseName             string `json:"spouseName,omitempty" gorm:"column:spouse_name"`
	SpouseFirstName        string `json:"spouseFirstName,omitempty" gorm:"column:spouse_first_name"`
	SpouseHebrewName       string `json:"spouseHebrewName,omitempty" gorm:"column:spouse_hebrew_name"`
	SpouseFatherHebrewName string `json:"spouseFatherHebrewName,omitempty" gorm:"column:spouse_father_hebrew_name"`
	SpouseCellPhone        string `json:"spouseCellPhone,omitempty" gorm:"column:spouse_cell_phone"`

	// Contact details for the family created on conversion. Empty fields
	// fall back to the original family's values.
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	// PaymentPlan is the legacy plan number, still consulted by the
	// individual-billing override and the legacy price fallback.
	PaymentPlan         int   `json:"paymentPlan,omitempty" gorm:"column:payment_plan"`
	PaymentPlanID       *uint `json:"paymentPlanId,omitempty" gorm:"column:payment_plan_id"`
	PaymentPlanAssigned bool  `json:"paymentPlanAssigned" gorm:"column:payment_plan_assigned;default:false"`

	// ConvertedToFamily marks the member as consumed by wedding
	// conversion so a second pass never picks it up again.
	ConvertedToFamily bool `json:"convertedToFamily" gorm:"column:converted_to_family;default:false"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}
