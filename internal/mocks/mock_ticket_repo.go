package mocks

import (
	"context"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepo struct {
	mock.Mock
	domain.TicketRepository
}

func (m *MockTicketRepo) FindSold(ctx context.Context, sessionID, seatID uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, sessionID, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepo) Issue(ctx context.Context, bookingID uuid.UUID) (*domain.Ticket, *domain.Booking, error) {
	args := m.Called(ctx, bookingID)

	var ticket *domain.Ticket
	if args.Get(0) != nil {
		ticket = args.Get(0).(*domain.Ticket)
	}

	var booking *domain.Booking
	if args.Get(1) != nil {
		booking = args.Get(1).(*domain.Booking)
	}

	return ticket, booking, args.Error(2)
}

func (m *MockTicketRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepo) GetByReferenceCode(ctx context.Context, code string) (*domain.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}
