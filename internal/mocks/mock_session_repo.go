package mocks

import (
	"context"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSessionRepo struct {
	mock.Mock
	domain.SessionRepository
}

func (m *MockSessionRepo) GetByIdWithPrices(ctx context.Context, id uuid.UUID) (*domain.EventSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventSession), args.Error(1)
}

func (m *MockSessionRepo) GetActiveRules(ctx context.Context, sessionID uuid.UUID) ([]domain.PricingRule, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingRule), args.Error(1)
}
