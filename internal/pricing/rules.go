package pricing

import (
	"sort"
	"time"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserContext describes the buyer a rule chain is evaluated against.
// PurchaseDate overrides the wall clock for validity and day-of-week
// checks; nil means "now".
type UserContext struct {
	UserID         uuid.UUID
	UserAge        *int
	TicketQuantity int
	PurchaseDate   *time.Time
}

// AppliedRule records a single rule's effect on the running price.
type AppliedRule struct {
	RuleID   uuid.UUID
	Name     string
	Discount decimal.Decimal
}

// RuleOutcome is the result of running a rule chain: the final price (never
// negative), the rules that produced a positive discount in application
// order, and their sum.
type RuleOutcome struct {
	FinalPrice    decimal.Decimal
	AppliedRules  []AppliedRule
	TotalDiscount decimal.Decimal
}

var (
	hundred  = decimal.NewFromInt(100)
	bogoHalf = decimal.RequireFromString("0.5")
)

// ApplyRules evaluates rules against the user context, each operating on
// the output of the previous one. Rules are ordered by priority descending;
// the incoming slice order is the tie-break, so the sort is stable.
func ApplyRules(rules []domain.PricingRule, price decimal.Decimal, user UserContext) RuleOutcome {
	ordered := make([]domain.PricingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	now := time.Now()
	if user.PurchaseDate != nil {
		now = *user.PurchaseDate
	}

	finalPrice := price
	appliedRules := make([]AppliedRule, 0)
	totalDiscount := decimal.Zero

	for _, rule := range ordered {
		if !matches(rule.Conditions, user, now) {
			continue
		}

		before := finalPrice
		finalPrice = applyRule(rule, finalPrice, user)
		discount := before.Sub(finalPrice)

		if discount.IsPositive() {
			appliedRules = append(appliedRules, AppliedRule{
				RuleID:   rule.ID,
				Name:     rule.Name,
				Discount: discount,
			})
			totalDiscount = totalDiscount.Add(discount)
		}
	}

	if finalPrice.IsNegative() {
		finalPrice = decimal.Zero
	}

	return RuleOutcome{
		FinalPrice:    finalPrice,
		AppliedRules:  appliedRules,
		TotalDiscount: totalDiscount,
	}
}

// matches reports whether every present condition holds. An absent
// condition key does not restrict the rule on that axis.
func matches(c domain.RuleConditions, user UserContext, now time.Time) bool {
	if c.UserAge != nil {
		if user.UserAge == nil {
			return false
		}
		if c.UserAge.Min != nil && *user.UserAge < *c.UserAge.Min {
			return false
		}
		if c.UserAge.Max != nil && *user.UserAge > *c.UserAge.Max {
			return false
		}
	}

	if c.MinQuantity != nil && user.TicketQuantity < *c.MinQuantity {
		return false
	}

	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}

	if len(c.Days) > 0 {
		day := int(now.Weekday())
		found := false
		for _, d := range c.Days {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func applyRule(rule domain.PricingRule, price decimal.Decimal, user UserContext) decimal.Decimal {
	switch rule.Type {
	case domain.RulePercentage:
		return price.Mul(hundred.Sub(rule.Value)).Div(hundred)

	case domain.RuleFixedAmount:
		discounted := price.Sub(rule.Value)
		if discounted.IsNegative() {
			return decimal.Zero
		}
		return discounted

	case domain.RuleFixedPrice:
		return rule.Value

	case domain.RuleBOGO:
		if user.TicketQuantity >= 2 {
			return price.Mul(bogoHalf)
		}
		return price

	default:
		return price
	}
}
