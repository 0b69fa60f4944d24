package pricing

import (
	"fmt"
	"time"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Context carries the occupancy snapshot a strategy prices against.
type Context struct {
	SessionID      uuid.UUID
	TotalSeats     int
	SoldSeats      int
	TimeUntilEvent time.Duration
	SectionID      *uuid.UUID
}

// Strategy maps a base price and an occupancy context to an adjusted price.
// Implementations must be pure: same inputs, same output.
type Strategy interface {
	Calculate(basePrice decimal.Decimal, ctx Context) decimal.Decimal
}

// StandardStrategy charges the base price unchanged.
type StandardStrategy struct{}

func (StandardStrategy) Calculate(basePrice decimal.Decimal, _ Context) decimal.Decimal {
	return basePrice
}

const (
	surgeHighThreshold = 80
	surgeMidThreshold  = 50
)

var (
	surgeHighMultiplier = decimal.RequireFromString("1.20")
	surgeMidMultiplier  = decimal.RequireFromString("1.10")
)

// SurgeStrategy marks prices up as the session fills: 10% from 50% sold,
// 20% from 80% sold.
type SurgeStrategy struct{}

func (SurgeStrategy) Calculate(basePrice decimal.Decimal, ctx Context) decimal.Decimal {
	if ctx.TotalSeats <= 0 {
		return basePrice
	}

	soldPercentage := float64(ctx.SoldSeats) / float64(ctx.TotalSeats) * 100

	switch {
	case soldPercentage >= surgeHighThreshold:
		return basePrice.Mul(surgeHighMultiplier)
	case soldPercentage >= surgeMidThreshold:
		return basePrice.Mul(surgeMidMultiplier)
	default:
		return basePrice
	}
}

// Registry holds the strategies a session's pricingStrategy value can
// select. It is built once at startup and passed by reference; requesting
// an unregistered strategy is a configuration error, not a user error.
type Registry struct {
	strategies map[domain.StrategyType]Strategy
}

func NewRegistry() *Registry {
	return &Registry{
		strategies: map[domain.StrategyType]Strategy{
			domain.StrategyStandard: StandardStrategy{},
			domain.StrategySurge:    SurgeStrategy{},
		},
	}
}

// Register adds or replaces a strategy. It is the extension point for new
// strategy types and is not safe for concurrent use with Get.
func (r *Registry) Register(t domain.StrategyType, s Strategy) {
	r.strategies[t] = s
}

func (r *Registry) Get(t domain.StrategyType) (Strategy, error) {
	s, ok := r.strategies[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStrategy, t)
	}

	return s, nil
}
