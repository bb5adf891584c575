package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
)

// WeddingConverter promotes members to standalone families on or after
// their wedding date. Intended to run once a day from cron or the task
// scheduler; idempotent per member via the ConvertedToFamily flag.
type WeddingConverter struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewWeddingConverter creates a converter on the given database handle.
func NewWeddingConverter(db *gorm.DB) *WeddingConverter {
	return &WeddingConverter{
		db:  db,
		log: slog.Default().With("component", "wedding-converter"),
	}
}

// ConversionResult summarizes one converter run.
type ConversionResult struct {
	Eligible  int      `json:"eligible"`
	Converted int      `json:"converted"`
	Failed    int      `json:"failed"`
	Families  []string `json:"families"`
}

// Run finds every member whose wedding date is today or earlier and not
// yet converted, and promotes each one. A failure on one member is logged
// and the loop continues; one bad record never aborts the batch.
func (c *WeddingConverter) Run(ctx context.Context, now time.Time) (ConversionResult, error) {
	var result ConversionResult

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var members []models.FamilyMember
	err := c.db.WithContext(ctx).
		Where("wedding_date IS NOT NULL AND wedding_date <= ? AND converted_to_family = ?", startOfToday, false).
		Find(&members).Error
	if err != nil {
		return result, fmt.Errorf("finding members to convert: %w", err)
	}

	result.Eligible = len(members)
	c.log.Info("wedding conversion pass", "date", startOfToday.Format("2006-01-02"), "eligible", len(members))

	for _, member := range members {
		family, err := c.convert(ctx, member, now)
		if err != nil {
			c.log.Error("failed to convert member",
				"member_id", member.ID, "name", member.FirstName+" "+member.LastName, "error", err)
			result.Failed++
			continue
		}
		result.Converted++
		result.Families = append(result.Families, family.Name)
		c.log.Info("converted member to new family",
			"member_id", member.ID, "family", family.Name)
	}

	return result, nil
}

// convert promotes a single member: synthesizes the new family from the
// member's own data plus fields inherited from the original family, seeds
// a spouse stub when one is known, then flags and deletes the member. The
// member becomes the family head, not a child of the new family.
func (c *WeddingConverter) convert(ctx context.Context, member models.FamilyMember, now time.Time) (models.Family, error) {
	var original models.Family
	if err := c.db.WithContext(ctx).First(&original, member.FamilyID).Error; err != nil {
		return models.Family{}, fmt.Errorf("original family %d not found: %w", member.FamilyID, err)
	}

	if member.WeddingDate == nil {
		return models.Family{}, fmt.Errorf("member %d has no wedding date", member.ID)
	}
	weddingDate := *member.WeddingDate

	// Tier comes from years married, on the same boundaries as ages.
	yearsMarried := calc.Age(weddingDate, now)
	tier := calc.TierForAge(yearsMarried)

	newFamily := models.Family{
		Name:        familyName(member),
		WeddingDate: &weddingDate,
		Address:     fallback(member.Address, original.Address),
		Street:      fallback(member.Address, fallback(original.Street, original.Address)),
		Phone:       fallback(member.Phone, original.Phone),
		Email:       fallback(member.Email, original.Email),
		City:        fallback(member.City, original.City),
		State:       fallback(member.State, original.State),
		Zip:         fallback(member.Zip, original.Zip),

		CurrentPlan:    int(tier),
		CurrentPayment: decimal.Zero,
		OpenBalance:    decimal.Zero,
	}

	spouseFirst, spouseLast := spouseNames(member)

	// The member's father's Hebrew name comes from the parent they follow
	// in the original family record.
	fatherHebrewName := original.HusbandHebrewName
	if member.Gender != models.GenderMale {
		fatherHebrewName = original.WifeHebrewName
	}

	if member.Gender == models.GenderMale {
		newFamily.HusbandFirstName = member.FirstName
		newFamily.HusbandHebrewName = member.HebrewFirstName
		newFamily.HusbandFatherHebrewName = fatherHebrewName
		newFamily.WifeFirstName = spouseFirst
		newFamily.WifeHebrewName = member.SpouseHebrewName
		newFamily.WifeFatherHebrewName = member.SpouseFatherHebrewName
		newFamily.WifeCellPhone = member.SpouseCellPhone
	} else {
		newFamily.HusbandFirstName = spouseFirst
		newFamily.HusbandHebrewName = member.SpouseHebrewName
		newFamily.HusbandFatherHebrewName = member.SpouseFatherHebrewName
		newFamily.HusbandCellPhone = member.SpouseCellPhone
		newFamily.WifeFirstName = member.FirstName
		newFamily.WifeHebrewName = member.HebrewFirstName
		newFamily.WifeFatherHebrewName = fatherHebrewName
	}

	// Attach the plan record matching the computed tier when one exists;
	// the legacy plan number above still stands on its own.
	var plan models.PaymentPlan
	if err := c.db.WithContext(ctx).Where("plan_number = ?", int(tier)).First(&plan).Error; err == nil {
		newFamily.PaymentPlanID = &plan.ID
	}

	if err := c.db.WithContext(ctx).Create(&newFamily).Error; err != nil {
		return models.Family{}, fmt.Errorf("creating family: %w", err)
	}

	if spouseFirst != "" || member.SpouseName != "" {
		spouse := models.FamilyMember{
			FamilyID:        newFamily.ID,
			FirstName:       spouseFirst,
			LastName:        spouseLast,
			HebrewFirstName: member.SpouseHebrewName,
			// Approximate; corrected later when the real date is known.
			BirthDate: &weddingDate,
			Gender:    oppositeGender(member.Gender),
		}
		if err := c.db.WithContext(ctx).Create(&spouse).Error; err != nil {
			return models.Family{}, fmt.Errorf("creating spouse member: %w", err)
		}
	}

	// Flag before delete so a crash mid-pass cannot reprocess the member.
	err := c.db.WithContext(ctx).Model(&models.FamilyMember{}).
		Where("id = ?", member.ID).
		Update("converted_to_family", true).Error
	if err != nil {
		return models.Family{}, fmt.Errorf("flagging member as converted: %w", err)
	}
	if err := c.db.WithContext(ctx).Unscoped().Delete(&models.FamilyMember{}, member.ID).Error; err != nil {
		return models.Family{}, fmt.Errorf("deleting converted member: %w", err)
	}

	return newFamily, nil
}

func familyName(m models.FamilyMember) string {
	if m.SpouseName != "" {
		return fmt.Sprintf("%s %s & %s", m.FirstName, m.LastName, m.SpouseName)
	}
	return fmt.Sprintf("%s %s Family", m.FirstName, m.LastName)
}

// spouseNames resolves the spouse's first and last name, preferring the
// structured fields and falling back to splitting the legacy SpouseName.
func spouseNames(m models.FamilyMember) (string, string) {
	first := m.SpouseFirstName
	last := m.LastName

	if first == "" && m.SpouseName != "" {
		parts := strings.Fields(strings.TrimSpace(m.SpouseName))
		if len(parts) > 0 {
			first = parts[0]
		}
		if len(parts) > 1 {
			last = strings.Join(parts[1:], " ")
		}
	}
	return first, last
}

func oppositeGender(gender string) string {
	if gender == models.GenderMale {
		return models.GenderFemale
	}
	return models.GenderMale
}

func fallback(value, alt string) string {
	if value != "" {
		return value
	}
	return alt
}
