package calc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasaapp/kasa/internal/models"
)

// Tier is one of the four payment-plan levels.
type Tier int

const (
	Tier1 Tier = 1 // ages 0-4
	Tier2 Tier = 2 // ages 5-8
	Tier3 Tier = 3 // ages 9-16
	Tier4 Tier = 4 // ages 17+
)

// LegacyTierPrices are the plan prices used before plans became database
// records. Member balance falls back to these when a member carries only
// an assigned plan number.
var LegacyTierPrices = map[Tier]decimal.Decimal{
	Tier1: decimal.NewFromInt(1200),
	Tier2: decimal.NewFromInt(1500),
	Tier3: decimal.NewFromInt(1800),
	Tier4: decimal.NewFromInt(2500),
}

// TierForAge maps an age in whole years to a plan tier. The same
// boundaries apply to years-married when classifying a converted family.
func TierForAge(age int) Tier {
	switch {
	case age >= 0 && age <= 4:
		return Tier1
	case age >= 5 && age <= 8:
		return Tier2
	case age >= 9 && age <= 16:
		return Tier3
	default:
		return Tier4
	}
}

// Age returns whole years between birth and ref, counting a year only
// once the anniversary day has passed.
func Age(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	monthDiff := int(ref.Month()) - int(birth.Month())
	if monthDiff < 0 || (monthDiff == 0 && ref.Day() < birth.Day()) {
		years--
	}
	return years
}

// AgeInYear returns the member's age on December 31st of the given year.
func AgeInYear(birth time.Time, year int) int {
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, birth.Location())
	return Age(birth, yearEnd)
}

// OverrideRule is a named exception to family-based tier assignment.
// Overrides are business rules, not general algorithms; keeping them in a
// table keeps each one auditable and testable in isolation.
type OverrideRule struct {
	Name    string
	Applies func(m models.FamilyMember) bool
	Tier    Tier
}

// MemberOverrides are checked in order before falling back to the
// family's plan.
var MemberOverrides = []OverrideRule{
	{
		// A male member who reached 13 on the Hebrew calendar is billed
		// individually under plan 3 (the "bucher" plan) no matter what
		// plan his family is on.
		Name: "bucher",
		Applies: func(m models.FamilyMember) bool {
			return m.Gender == models.GenderMale && m.PaymentPlanAssigned && m.PaymentPlan == 3
		},
		Tier: Tier3,
	},
}

// ResolveMemberTier returns the tier a member is counted under and the
// name of the override rule that applied, or "" when the family tier was
// used.
func ResolveMemberTier(m models.FamilyMember, familyTier Tier) (Tier, string) {
	for _, rule := range MemberOverrides {
		if rule.Applies(m) {
			return rule.Tier, rule.Name
		}
	}
	return familyTier, ""
}

// TierCounts holds the number of members counted under each tier.
type TierCounts struct {
	Plan1 int `json:"plan1"`
	Plan2 int `json:"plan2"`
	Plan3 int `json:"plan3"`
	Plan4 int `json:"plan4"`
}

// Add increments the counter for the given tier.
func (c *TierCounts) Add(t Tier) {
	switch t {
	case Tier1:
		c.Plan1++
	case Tier2:
		c.Plan2++
	case Tier3:
		c.Plan3++
	case Tier4:
		c.Plan4++
	}
}

// Total returns the number of counted members.
func (c TierCounts) Total() int {
	return c.Plan1 + c.Plan2 + c.Plan3 + c.Plan4
}
