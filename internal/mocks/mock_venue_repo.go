package mocks

import (
	"context"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockVenueRepo struct {
	mock.Mock
	domain.VenueRepository
}

func (m *MockVenueRepo) Create(ctx context.Context, venue *domain.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockVenueRepo) GetByIdWithLayout(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueRepo) CreateSeatsBulk(ctx context.Context, venueID, sectionID, rowID uuid.UUID, count int) ([]domain.Seat, error) {
	args := m.Called(ctx, venueID, sectionID, rowID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}
