package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StrategyType string

const (
	StrategyStandard StrategyType = "STANDARD"
	StrategySurge    StrategyType = "SURGE"
)

// EventSession is a scheduled occurrence of an event at a venue, the unit
// pricing and booking are scoped to.
type EventSession struct {
	ID              uuid.UUID
	EventID         uuid.UUID
	VenueID         uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	IsActive        bool
	PricingStrategy StrategyType

	// VenueCapacity is the owning venue's total seat count, loaded
	// alongside the session for occupancy calculations.
	VenueCapacity int

	Prices []TicketPrice
}

// TicketPrice is a named base price line scoped to a session, one per seat
// category or section.
type TicketPrice struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	SectionID *uuid.UUID
	Name      string
	Amount    decimal.Decimal
	Currency  string
}

type RuleType string

const (
	RulePercentage  RuleType = "PERCENTAGE"
	RuleFixedAmount RuleType = "FIXED_AMOUNT"
	RuleFixedPrice  RuleType = "FIXED_PRICE"
	RuleBOGO        RuleType = "BOGO"
)

// AgeRange bounds a rule to buyers within [Min, Max]. A nil bound leaves
// that side open.
type AgeRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// RuleConditions is the conditions map stored as jsonb. An absent key means
// the rule is not restricted by that axis.
type RuleConditions struct {
	UserAge     *AgeRange  `json:"userAge,omitempty"`
	MinQuantity *int       `json:"minQuantity,omitempty"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	Days        []int      `json:"days,omitempty"`
}

// PricingRule is a conditional discount or override scoped to a session,
// evaluated after strategy pricing in priority order (higher first).
type PricingRule struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	Name        string
	Description string
	Type        RuleType
	Value       decimal.Decimal
	Conditions  RuleConditions
	Priority    int
	IsActive    bool
	CreatedAt   time.Time
}

type SessionRepository interface {
	// GetByIdWithPrices loads a session together with its price lines and
	// the owning venue's capacity.
	GetByIdWithPrices(ctx context.Context, id uuid.UUID) (*EventSession, error)

	// GetActiveRules returns the session's active rules ordered by priority
	// descending with a stable tie-break.
	GetActiveRules(ctx context.Context, sessionID uuid.UUID) ([]PricingRule, error)
}
