// Package pricing computes ticket prices: an occupancy-driven strategy
// adjustment followed by a chain of conditional discount rules.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/Cihanyuksel/ticketing-api/internal/occupancy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Breakdown is the full result of pricing one price line for one buyer.
type Breakdown struct {
	BasePrice       decimal.Decimal
	StrategyPrice   decimal.Decimal
	FinalPrice      decimal.Decimal
	Currency        string
	AppliedStrategy domain.StrategyType
	AppliedRules    []AppliedRule
	TotalDiscount   decimal.Decimal
}

// SessionPrice is one strategy-adjusted price line, for display listings.
// No user context, so no rules are applied.
type SessionPrice struct {
	PriceID         uuid.UUID
	Name            string
	SectionID       *uuid.UUID
	BasePrice       decimal.Decimal
	CalculatedPrice decimal.Decimal
	Currency        string
}

// SessionPrices carries all price lines of a session after strategy pricing.
type SessionPrices struct {
	SessionID uuid.UUID
	Strategy  domain.StrategyType
	Prices    []SessionPrice
}

// Calculator orchestrates strategy selection and rule evaluation for a
// session's price lines.
type Calculator struct {
	sessions  domain.SessionRepository
	occupancy occupancy.Source
	registry  *Registry
	now       func() time.Time
}

func NewCalculator(sessions domain.SessionRepository, source occupancy.Source, registry *Registry) *Calculator {
	return &Calculator{
		sessions:  sessions,
		occupancy: source,
		registry:  registry,
		now:       time.Now,
	}
}

// FinalPrice prices a single price line for a buyer: strategy first, then
// the session's active rules in priority order.
func (c *Calculator) FinalPrice(
	ctx context.Context,
	sessionID, priceID uuid.UUID,
	user UserContext) (*Breakdown, error) {

	session, err := c.sessions.GetByIdWithPrices(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var base *domain.TicketPrice
	for i := range session.Prices {
		if session.Prices[i].ID == priceID {
			base = &session.Prices[i]
			break
		}
	}

	if base == nil {
		return nil, fmt.Errorf("price line %s: %w", priceID, domain.ErrRecordNotFound)
	}

	pricingCtx, err := c.buildContext(ctx, session)
	if err != nil {
		return nil, err
	}
	pricingCtx.SectionID = base.SectionID

	strategy, err := c.registry.Get(session.PricingStrategy)
	if err != nil {
		return nil, err
	}

	strategyPrice := strategy.Calculate(base.Amount, pricingCtx)

	rules, err := c.sessions.GetActiveRules(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	outcome := ApplyRules(rules, strategyPrice, user)

	return &Breakdown{
		BasePrice:       base.Amount,
		StrategyPrice:   strategyPrice.Round(2),
		FinalPrice:      outcome.FinalPrice.Round(2),
		Currency:        base.Currency,
		AppliedStrategy: session.PricingStrategy,
		AppliedRules:    outcome.AppliedRules,
		TotalDiscount:   outcome.TotalDiscount.Round(2),
	}, nil
}

// AllSessionPrices applies only the strategy to every price line of the
// session, for display and listing purposes.
func (c *Calculator) AllSessionPrices(ctx context.Context, sessionID uuid.UUID) (*SessionPrices, error) {
	session, err := c.sessions.GetByIdWithPrices(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pricingCtx, err := c.buildContext(ctx, session)
	if err != nil {
		return nil, err
	}

	strategy, err := c.registry.Get(session.PricingStrategy)
	if err != nil {
		return nil, err
	}

	prices := make([]SessionPrice, 0, len(session.Prices))
	for _, line := range session.Prices {
		lineCtx := pricingCtx
		lineCtx.SectionID = line.SectionID

		prices = append(prices, SessionPrice{
			PriceID:         line.ID,
			Name:            line.Name,
			SectionID:       line.SectionID,
			BasePrice:       line.Amount,
			CalculatedPrice: strategy.Calculate(line.Amount, lineCtx).Round(2),
			Currency:        line.Currency,
		})
	}

	return &SessionPrices{
		SessionID: sessionID,
		Strategy:  session.PricingStrategy,
		Prices:    prices,
	}, nil
}

// buildContext snapshots occupancy for the session. TimeUntilEvent may be
// negative for past events; that is not rejected here.
func (c *Calculator) buildContext(ctx context.Context, session *domain.EventSession) (Context, error) {
	sold, err := c.occupancy.SeatsSold(ctx, session.ID)
	if err != nil {
		return Context{}, err
	}

	return Context{
		SessionID:      session.ID,
		TotalSeats:     session.VenueCapacity,
		SoldSeats:      sold,
		TimeUntilEvent: session.StartTime.Sub(c.now()),
	}, nil
}
