package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketPaid      TicketStatus = "PAID"
	TicketUsed      TicketStatus = "USED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Ticket is the issued artifact, one-to-one with a CONFIRMED booking.
// At most one non-cancelled ticket may exist per (session, seat) pair,
// enforced by a partial unique index.
type Ticket struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	SessionID     uuid.UUID
	SeatID        uuid.UUID
	UserID        uuid.UUID
	Price         decimal.Decimal
	Currency      string
	Status        TicketStatus
	ReferenceCode string
	PurchasedAt   time.Time
	CreatedAt     time.Time
}

type TicketRepository interface {
	// FindSold returns the non-cancelled ticket for the pair, or
	// ErrRecordNotFound when the seat has not been sold.
	FindSold(ctx context.Context, sessionID, seatID uuid.UUID) (*Ticket, error)

	// Issue converts a PENDING booking into a PAID ticket and marks the
	// booking CONFIRMED inside a single transaction. It returns the issued
	// ticket together with the confirmed booking.
	Issue(ctx context.Context, bookingID uuid.UUID) (*Ticket, *Booking, error)

	GetById(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByReferenceCode(ctx context.Context, code string) (*Ticket, error)
}
