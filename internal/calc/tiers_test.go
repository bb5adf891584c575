package calc

import (
	"testing"
	"time"

	"github.com/kasaapp/kasa/internal/models"
)

func TestTierForAge(t *testing.T) {
	tests := []struct {
		age  int
		want Tier
	}{
		{0, Tier1},
		{4, Tier1},
		{5, Tier2},
		{8, Tier2},
		{9, Tier3},
		{16, Tier3},
		{17, Tier4},
		{45, Tier4},
	}
	for _, tt := range tests {
		if got := TierForAge(tt.age); got != tt.want {
			t.Errorf("TierForAge(%d) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestAge(t *testing.T) {
	birth := time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ref  time.Time
		want int
	}{
		{"day before birthday", time.Date(2023, time.June, 14, 0, 0, 0, 0, time.UTC), 12},
		{"on birthday", time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC), 13},
		{"earlier month", time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), 12},
		{"later month", time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC), 13},
	}
	for _, tt := range tests {
		if got := Age(birth, tt.ref); got != tt.want {
			t.Errorf("%s: Age = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAgeInYear(t *testing.T) {
	// Age is taken against December 31st of the target year.
	birth := time.Date(2020, time.November, 3, 0, 0, 0, 0, time.UTC)
	if got := AgeInYear(birth, 2024); got != 4 {
		t.Errorf("AgeInYear(2024) = %d, want 4", got)
	}
	if got := AgeInYear(birth, 2025); got != 5 {
		t.Errorf("AgeInYear(2025) = %d, want 5", got)
	}
}

func TestResolveMemberTierBucherOverride(t *testing.T) {
	bucher := models.FamilyMember{
		Gender:              models.GenderMale,
		PaymentPlan:         3,
		PaymentPlanAssigned: true,
	}

	tier, rule := ResolveMemberTier(bucher, Tier1)
	if tier != Tier3 {
		t.Errorf("tier = %d, want %d", tier, Tier3)
	}
	if rule != "bucher" {
		t.Errorf("rule = %q, want %q", rule, "bucher")
	}
}

func TestResolveMemberTierFamilyDefault(t *testing.T) {
	tests := []struct {
		name   string
		member models.FamilyMember
	}{
		{"plain member", models.FamilyMember{Gender: models.GenderMale}},
		{"female with plan 3", models.FamilyMember{
			Gender: models.GenderFemale, PaymentPlan: 3, PaymentPlanAssigned: true,
		}},
		{"male plan 3 not assigned", models.FamilyMember{
			Gender: models.GenderMale, PaymentPlan: 3,
		}},
		{"male assigned other plan", models.FamilyMember{
			Gender: models.GenderMale, PaymentPlan: 2, PaymentPlanAssigned: true,
		}},
	}
	for _, tt := range tests {
		tier, rule := ResolveMemberTier(tt.member, Tier4)
		if tier != Tier4 || rule != "" {
			t.Errorf("%s: got tier %d rule %q, want family tier %d", tt.name, tier, rule, Tier4)
		}
	}
}

func TestTierCountsAdd(t *testing.T) {
	var counts TierCounts
	counts.Add(Tier1)
	counts.Add(Tier3)
	counts.Add(Tier3)

	if counts.Plan1 != 1 || counts.Plan2 != 0 || counts.Plan3 != 2 || counts.Plan4 != 0 {
		t.Errorf("unexpected counts: %+v", counts)
	}
	if counts.Total() != 3 {
		t.Errorf("Total() = %d, want 3", counts.Total())
	}
}
