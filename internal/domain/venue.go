package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	ID            uuid.UUID
	Name          string
	City          string
	District      string
	Address       string
	TotalCapacity int
	Sections      []Section
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Section struct {
	ID      uuid.UUID
	VenueID uuid.UUID
	Name    string
	Rows    []Row
}

type Row struct {
	ID        uuid.UUID
	SectionID uuid.UUID
	Name      string
	Seats     []Seat
}

// Seat belongs to one row. Seats are immutable once created except rename;
// they are never locked in storage, locking is purely external.
type Seat struct {
	ID     uuid.UUID
	RowID  uuid.UUID
	Number int
}

type VenueRepository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByIdWithLayout(ctx context.Context, id uuid.UUID) (*Venue, error)

	// CreateSeatsBulk inserts count seats into the row and recomputes the
	// venue's total capacity within a single transaction.
	CreateSeatsBulk(ctx context.Context, venueID, sectionID, rowID uuid.UUID, count int) ([]Seat, error)
}
