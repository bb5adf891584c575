package calc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasaapp/kasa/internal/models"
)

// Engine computes yearly financial summaries and per-entity balances by
// scanning the underlying tables. Results are approximate snapshots; no
// transactional consistency is provided between the reads, and concurrent
// recalculations of the same year resolve by last writer wins.
type Engine struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewEngine creates a calculation engine on the given database handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db:  db,
		log: slog.Default().With("component", "calc"),
	}
}

// IncomeSummary is the income half of a yearly calculation.
type IncomeSummary struct {
	Counts TierCounts `json:"counts"`

	Plan1Name string `json:"plan1Name"`
	Plan2Name string `json:"plan2Name"`
	Plan3Name string `json:"plan3Name"`
	Plan4Name string `json:"plan4Name"`

	IncomePlan1 decimal.Decimal `json:"incomePlan1"`
	IncomePlan2 decimal.Decimal `json:"incomePlan2"`
	IncomePlan3 decimal.Decimal `json:"incomePlan3"`
	IncomePlan4 decimal.Decimal `json:"incomePlan4"`

	PlanIncome       decimal.Decimal `json:"planIncome"`
	TotalPayments    decimal.Decimal `json:"totalPayments"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	ExtraDonation    decimal.Decimal `json:"extraDonation"`
	CalculatedIncome decimal.Decimal `json:"calculatedIncome"`
}

// ExpenseSummary is the expense half of a yearly calculation: lifecycle
// event payouts broken down by type, plus the manual adjustment.
type ExpenseSummary struct {
	ChasenaCount    int `json:"chasenaCount"`
	BarMitzvahCount int `json:"barMitzvahCount"`
	BirthBoyCount   int `json:"birthBoyCount"`
	BirthGirlCount  int `json:"birthGirlCount"`

	ChasenaAmount    decimal.Decimal `json:"chasenaAmount"`
	BarMitzvahAmount decimal.Decimal `json:"barMitzvahAmount"`
	BirthBoyAmount   decimal.Decimal `json:"birthBoyAmount"`
	BirthGirlAmount  decimal.Decimal `json:"birthGirlAmount"`

	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	ExtraExpense       decimal.Decimal `json:"extraExpense"`
	CalculatedExpenses decimal.Decimal `json:"calculatedExpenses"`
}

// YearSummary combines income and expenses with the derived balance.
type YearSummary struct {
	Year int `json:"year"`
	IncomeSummary
	ExpenseSummary
	Balance decimal.Decimal `json:"balance"`
}

// yearRange returns the calendar bounds of a year, used as the fallback
// match for payments without a year column.
func yearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}

// CountMembersByPlan counts every member under its resolved plan tier.
// Plans are family-based except for the member overrides in the rules
// table. Families without a resolvable plan are skipped with a warning so
// one partially-migrated record cannot sink the whole computation.
func (e *Engine) CountMembersByPlan(ctx context.Context, year int) (TierCounts, error) {
	var counts TierCounts

	var families []models.Family
	if err := e.db.WithContext(ctx).Find(&families).Error; err != nil {
		return counts, fmt.Errorf("loading families: %w", err)
	}

	for _, family := range families {
		var familyTier Tier
		if family.PaymentPlanID != nil {
			var plan models.PaymentPlan
			err := e.db.WithContext(ctx).First(&plan, *family.PaymentPlanID).Error
			if err == nil && plan.PlanNumber >= 1 && plan.PlanNumber <= 4 {
				familyTier = Tier(plan.PlanNumber)
			}
		}
		if familyTier == 0 {
			e.log.Warn("family has no valid payment plan, skipping its members",
				"family_id", family.ID, "year", year)
			continue
		}

		var members []models.FamilyMember
		if err := e.db.WithContext(ctx).Where("family_id = ?", family.ID).Find(&members).Error; err != nil {
			return counts, fmt.Errorf("loading members of family %d: %w", family.ID, err)
		}

		for _, member := range members {
			tier, rule := ResolveMemberTier(member, familyTier)
			if rule != "" {
				e.log.Debug("member tier override applied",
					"member_id", member.ID, "rule", rule, "tier", int(tier))
			}
			counts.Add(tier)
		}
	}

	return counts, nil
}

// planPrices returns the yearly price and display name per tier from the
// plan table. Missing plans price at zero under the default name.
func (e *Engine) planPrices(ctx context.Context) (map[Tier]decimal.Decimal, map[Tier]string, error) {
	var plans []models.PaymentPlan
	if err := e.db.WithContext(ctx).Order("plan_number").Find(&plans).Error; err != nil {
		return nil, nil, fmt.Errorf("loading payment plans: %w", err)
	}

	prices := make(map[Tier]decimal.Decimal)
	names := map[Tier]string{
		Tier1: "Plan 1",
		Tier2: "Plan 2",
		Tier3: "Plan 3",
		Tier4: "Plan 4",
	}
	for _, plan := range plans {
		if plan.PlanNumber < 1 || plan.PlanNumber > 4 {
			continue
		}
		tier := Tier(plan.PlanNumber)
		prices[tier] = plan.YearlyPrice
		if plan.Name != "" {
			names[tier] = plan.Name
		}
	}
	return prices, names, nil
}

// YearlyIncome computes plan income (count x yearly price per tier) plus
// the sum of payment records for the year. A payment belongs to the year
// when its year column matches, or, failing that, when its payment date
// falls inside the calendar year.
func (e *Engine) YearlyIncome(ctx context.Context, year int, extraDonation decimal.Decimal) (IncomeSummary, error) {
	var summary IncomeSummary
	summary.ExtraDonation = extraDonation

	counts, err := e.CountMembersByPlan(ctx, year)
	if err != nil {
		return summary, err
	}
	summary.Counts = counts

	prices, names, err := e.planPrices(ctx)
	if err != nil {
		return summary, err
	}
	summary.Plan1Name = names[Tier1]
	summary.Plan2Name = names[Tier2]
	summary.Plan3Name = names[Tier3]
	summary.Plan4Name = names[Tier4]

	summary.IncomePlan1 = prices[Tier1].Mul(decimal.NewFromInt(int64(counts.Plan1)))
	summary.IncomePlan2 = prices[Tier2].Mul(decimal.NewFromInt(int64(counts.Plan2)))
	summary.IncomePlan3 = prices[Tier3].Mul(decimal.NewFromInt(int64(counts.Plan3)))
	summary.IncomePlan4 = prices[Tier4].Mul(decimal.NewFromInt(int64(counts.Plan4)))

	start, end := yearRange(year)
	var payments []models.Payment
	err = e.db.WithContext(ctx).
		Where("year = ? OR (payment_date >= ? AND payment_date <= ?)", year, start, end).
		Find(&payments).Error
	if err != nil {
		return summary, fmt.Errorf("loading payments for %d: %w", year, err)
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	summary.TotalPayments = total
	e.log.Info("summed payments for year",
		"year", year, "payments", len(payments), "total", total.String())

	summary.PlanIncome = summary.IncomePlan1.
		Add(summary.IncomePlan2).
		Add(summary.IncomePlan3).
		Add(summary.IncomePlan4)
	summary.TotalIncome = summary.PlanIncome.Add(summary.TotalPayments)
	summary.CalculatedIncome = summary.TotalIncome.Add(extraDonation)

	return summary, nil
}

// YearlyExpenses sums lifecycle event payouts for the year by event type.
// Events are matched by their year column only.
func (e *Engine) YearlyExpenses(ctx context.Context, year int, extraExpense decimal.Decimal) (ExpenseSummary, error) {
	var summary ExpenseSummary
	summary.ExtraExpense = extraExpense

	var events []models.LifecycleEventPayment
	if err := e.db.WithContext(ctx).Where("year = ?", year).Find(&events).Error; err != nil {
		return summary, fmt.Errorf("loading lifecycle events for %d: %w", year, err)
	}
	e.log.Info("found lifecycle events for year", "year", year, "events", len(events))

	for _, event := range events {
		switch event.EventType {
		case models.EventChasena:
			summary.ChasenaCount++
			summary.ChasenaAmount = summary.ChasenaAmount.Add(event.Amount)
		case models.EventBarMitzvah:
			summary.BarMitzvahCount++
			summary.BarMitzvahAmount = summary.BarMitzvahAmount.Add(event.Amount)
		case models.EventBirthBoy:
			summary.BirthBoyCount++
			summary.BirthBoyAmount = summary.BirthBoyAmount.Add(event.Amount)
		case models.EventBirthGirl:
			summary.BirthGirlCount++
			summary.BirthGirlAmount = summary.BirthGirlAmount.Add(event.Amount)
		}
	}

	summary.TotalExpenses = summary.ChasenaAmount.
		Add(summary.BarMitzvahAmount).
		Add(summary.BirthBoyAmount).
		Add(summary.BirthGirlAmount)
	summary.CalculatedExpenses = summary.TotalExpenses.Add(extraExpense)

	return summary, nil
}

// YearlyBalance computes the full yearly summary: income, expenses, and
// their difference.
func (e *Engine) YearlyBalance(ctx context.Context, year int, extraDonation, extraExpense decimal.Decimal) (YearSummary, error) {
	summary := YearSummary{Year: year}

	income, err := e.YearlyIncome(ctx, year, extraDonation)
	if err != nil {
		return summary, err
	}
	expenses, err := e.YearlyExpenses(ctx, year, extraExpense)
	if err != nil {
		return summary, err
	}

	summary.IncomeSummary = income
	summary.ExpenseSummary = expenses
	summary.Balance = income.CalculatedIncome.Sub(expenses.CalculatedExpenses)
	return summary, nil
}

// CalculateAndSaveYear recomputes a year and upserts the result keyed by
// year, overwriting any previous row.
func (e *Engine) CalculateAndSaveYear(ctx context.Context, year int, extraDonation, extraExpense decimal.Decimal) (models.YearlyCalculation, error) {
	summary, err := e.YearlyBalance(ctx, year, extraDonation, extraExpense)
	if err != nil {
		return models.YearlyCalculation{}, err
	}

	row := summaryToRow(summary)
	err = e.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return models.YearlyCalculation{}, fmt.Errorf("saving yearly calculation for %d: %w", year, err)
	}

	// Re-read so the caller sees the row that actually won the upsert.
	var saved models.YearlyCalculation
	if err := e.db.WithContext(ctx).Where("year = ?", year).First(&saved).Error; err != nil {
		return models.YearlyCalculation{}, err
	}
	return saved, nil
}

// RefreshYearForEvent recalculates a year after a lifecycle event or
// payment change, preserving any manual adjustments stored on the
// existing row.
func (e *Engine) RefreshYearForEvent(ctx context.Context, year int) error {
	extraDonation := decimal.Zero
	extraExpense := decimal.Zero

	var existing models.YearlyCalculation
	err := e.db.WithContext(ctx).Where("year = ?", year).First(&existing).Error
	if err == nil {
		extraDonation = existing.ExtraDonation
		extraExpense = existing.ExtraExpense
	}

	_, err = e.CalculateAndSaveYear(ctx, year, extraDonation, extraExpense)
	if err != nil {
		return fmt.Errorf("refreshing year %d: %w", year, err)
	}
	e.log.Info("updated yearly calculation", "year", year)
	return nil
}

func summaryToRow(s YearSummary) models.YearlyCalculation {
	return models.YearlyCalculation{
		Year: s.Year,

		Plan1: s.Counts.Plan1,
		Plan2: s.Counts.Plan2,
		Plan3: s.Counts.Plan3,
		Plan4: s.Counts.Plan4,

		Plan1Name: s.Plan1Name,
		Plan2Name: s.Plan2Name,
		Plan3Name: s.Plan3Name,
		Plan4Name: s.Plan4Name,

		IncomePlan1: s.IncomePlan1,
		IncomePlan2: s.IncomePlan2,
		IncomePlan3: s.IncomePlan3,
		IncomePlan4: s.IncomePlan4,

		PlanIncome:       s.PlanIncome,
		TotalPayments:    s.TotalPayments,
		TotalIncome:      s.TotalIncome,
		ExtraDonation:    s.ExtraDonation,
		CalculatedIncome: s.CalculatedIncome,

		ChasenaCount:    s.ChasenaCount,
		BarMitzvahCount: s.BarMitzvahCount,
		BirthBoyCount:   s.BirthBoyCount,
		BirthGirlCount:  s.BirthGirlCount,

		ChasenaAmount:    s.ChasenaAmount,
		BarMitzvahAmount: s.BarMitzvahAmount,
		BirthBoyAmount:   s.BirthBoyAmount,
		BirthGirlAmount:  s.BirthGirlAmount,

		TotalExpenses:      s.TotalExpenses,
		ExtraExpense:       s.ExtraExpense,
		CalculatedExpenses: s.CalculatedExpenses,

		Balance: s.Balance,
	}
}
