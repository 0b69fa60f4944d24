package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingTimeout   BookingStatus = "TIMEOUT"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a reservation attempt for a single seat in a session. A PENDING
// booking whose ExpiresAt has passed is treated as inactive by queries; its
// stored status only moves to TIMEOUT lazily, when the seat is booked again.
type Booking struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SessionID   uuid.UUID
	SeatID      *uuid.UUID
	Status      BookingStatus
	TotalAmount decimal.Decimal
	ExpiresAt   time.Time

	// LockToken is the value stored under the seat's lock key when this
	// booking acquired it. Releasing the lock requires presenting it.
	LockToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id uuid.UUID) (*Booking, error)
	Update(ctx context.Context, booking *Booking) error

	// FindActive returns the PENDING, unexpired booking for the pair, or
	// ErrRecordNotFound when none exists.
	FindActive(ctx context.Context, sessionID, seatID uuid.UUID) (*Booking, error)

	// RetireExpired flips expired PENDING bookings for the pair to TIMEOUT
	// and reports how many rows it touched.
	RetireExpired(ctx context.Context, sessionID, seatID uuid.UUID) (int64, error)
}
