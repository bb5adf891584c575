package calc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// ErrFamilyNotFound is returned when a balance is requested for a family
// that does not exist.
var ErrFamilyNotFound = errors.New("family not found")

// ErrMemberNotFound is returned when a balance is requested for a member
// that does not exist.
var ErrMemberNotFound = errors.New("member not found")

// PlanCost is an entity's resolved annual plan cost. Resolved is false
// when no plan could be found and the cost defaulted to zero; billing
// fails open so balances still render, but callers and tests can tell the
// two zero cases apart.
type PlanCost struct {
	Amount   decimal.Decimal `json:"amount"`
	Resolved bool            `json:"resolved"`
}

// FamilyBalance is a family's financial position as of a date. Balance is
// payments minus withdrawals minus plan cost; lifecycle payouts are
// reported alongside but never subtracted.
type FamilyBalance struct {
	OpeningBalance         decimal.Decimal `json:"openingBalance"` // deprecated, display only
	PlanCost               PlanCost        `json:"planCost"`
	TotalPayments          decimal.Decimal `json:"totalPayments"`
	TotalWithdrawals       decimal.Decimal `json:"totalWithdrawals"`
	TotalLifecyclePayments decimal.Decimal `json:"totalLifecyclePayments"`
	Balance                decimal.Decimal `json:"balance"`
}

// MemberBalance is a member's position as of a date: payments minus plan
// cost. Members have no withdrawals.
type MemberBalance struct {
	PlanCost               PlanCost        `json:"planCost"`
	TotalPayments          decimal.Decimal `json:"totalPayments"`
	TotalLifecyclePayments decimal.Decimal `json:"totalLifecyclePayments"`
	Balance                decimal.Decimal `json:"balance"`
}

// resolveFamilyPlanCost looks up the family's plan price. Any failure
// resolves to an unresolved zero cost with a warning.
func (e *Engine) resolveFamilyPlanCost(ctx context.Context, family models.Family) PlanCost {
	if family.PaymentPlanID == nil {
		e.log.Warn("family has no payment plan id, defaulting plan cost to 0",
			"family_id", family.ID)
		return PlanCost{Amount: decimal.Zero, Resolved: false}
	}

	var plan models.PaymentPlan
	if err := e.db.WithContext(ctx).First(&plan, *family.PaymentPlanID).Error; err != nil {
		e.log.Warn("payment plan not found, defaulting plan cost to 0",
			"family_id", family.ID, "plan_id", *family.PaymentPlanID, "error", err)
		return PlanCost{Amount: decimal.Zero, Resolved: false}
	}

	return PlanCost{Amount: plan.YearlyPrice, Resolved: true}
}

// resolveMemberPlanCost looks up the member's individual plan price,
// falling back to the legacy price table when only an assigned plan
// number exists.
func (e *Engine) resolveMemberPlanCost(ctx context.Context, member models.FamilyMember) PlanCost {
	if member.PaymentPlanID != nil {
		var plan models.PaymentPlan
		if err := e.db.WithContext(ctx).First(&plan, *member.PaymentPlanID).Error; err != nil {
			e.log.Warn("member payment plan not found, defaulting plan cost to 0",
				"member_id", member.ID, "plan_id", *member.PaymentPlanID, "error", err)
			return PlanCost{Amount: decimal.Zero, Resolved: false}
		}
		return PlanCost{Amount: plan.YearlyPrice, Resolved: true}
	}

	if member.PaymentPlan != 0 && member.PaymentPlanAssigned {
		if price, ok := LegacyTierPrices[Tier(member.PaymentPlan)]; ok {
			return PlanCost{Amount: price, Resolved: true}
		}
	}

	return PlanCost{Amount: decimal.Zero, Resolved: false}
}

// FamilyBalance computes a family's balance as of the given date.
func (e *Engine) FamilyBalance(ctx context.Context, familyID uint, asOf time.Time) (FamilyBalance, error) {
	var result FamilyBalance

	var family models.Family
	if err := e.db.WithContext(ctx).First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrFamilyNotFound
		}
		return result, fmt.Errorf("loading family %d: %w", familyID, err)
	}

	result.OpeningBalance = family.OpenBalance
	result.PlanCost = e.resolveFamilyPlanCost(ctx, family)

	var payments []models.Payment
	err := e.db.WithContext(ctx).
		Where("family_id = ? AND payment_date <= ?", familyID, asOf).
		Find(&payments).Error
	if err != nil {
		return result, fmt.Errorf("loading payments: %w", err)
	}
	for _, p := range payments {
		result.TotalPayments = result.TotalPayments.Add(p.Amount)
	}

	var withdrawals []models.Withdrawal
	err = e.db.WithContext(ctx).
		Where("family_id = ? AND withdrawal_date <= ?", familyID, asOf).
		Find(&withdrawals).Error
	if err != nil {
		return result, fmt.Errorf("loading withdrawals: %w", err)
	}
	for _, w := range withdrawals {
		result.TotalWithdrawals = result.TotalWithdrawals.Add(w.Amount)
	}

	var events []models.LifecycleEventPayment
	err = e.db.WithContext(ctx).
		Where("family_id = ? AND event_date <= ?", familyID, asOf).
		Find(&events).Error
	if err != nil {
		return result, fmt.Errorf("loading lifecycle events: %w", err)
	}
	for _, ev := range events {
		result.TotalLifecyclePayments = result.TotalLifecyclePayments.Add(ev.Amount)
	}

	// Lifecycle payouts stay out of the balance; the plan cost is owed
	// annually and the deprecated opening balance is display only.
	result.Balance = result.TotalPayments.
		Sub(result.TotalWithdrawals).
		Sub(result.PlanCost.Amount)

	return result, nil
}

// MemberBalance computes a member's balance as of the given date.
func (e *Engine) MemberBalance(ctx context.Context, memberID uint, asOf time.Time) (MemberBalance, error) {
	var result MemberBalance

	var member models.FamilyMember
	if err := e.db.WithContext(ctx).First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrMemberNotFound
		}
		return result, fmt.Errorf("loading member %d: %w", memberID, err)
	}

	result.PlanCost = e.resolveMemberPlanCost(ctx, member)

	var payments []models.Payment
	err := e.db.WithContext(ctx).
		Where("member_id = ? AND payment_date <= ?", memberID, asOf).
		Find(&payments).Error
	if err != nil {
		return result, fmt.Errorf("loading payments: %w", err)
	}
	for _, p := range payments {
		result.TotalPayments = result.TotalPayments.Add(p.Amount)
	}

	var events []models.LifecycleEventPayment
	err = e.db.WithContext(ctx).
		Where("member_id = ? AND event_date <= ?", memberID, asOf).
		Find(&events).Error
	if err != nil {
		return result, fmt.Errorf("loading lifecycle events: %w", err)
	}
	for _, ev := range events {
		result.TotalLifecyclePayments = result.TotalLifecyclePayments.Add(ev.Amount)
	}

	result.Balance = result.TotalPayments.Sub(result.PlanCost.Amount)

	return result, nil
}
