package repository

import (
	"context"
	"errors"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (user_id, session_id, seat_id, status, total_amount, expires_at, lock_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		booking.UserID,
		booking.SessionID,
		booking.SeatID,
		booking.Status,
		booking.TotalAmount,
		booking.ExpiresAt,
		booking.LockToken,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, session_id, seat_id, status, total_amount, expires_at, lock_token, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SessionID,
		&booking.SeatID,
		&booking.Status,
		&booking.TotalAmount,
		&booking.ExpiresAt,
		&booking.LockToken,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, total_amount = $2, expires_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		booking.Status,
		booking.TotalAmount,
		booking.ExpiresAt,
		booking.ID,
	).Scan(&booking.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	return nil
}

// RetireExpired moves lapsed holds to their terminal TIMEOUT status. It runs
// when a seat is booked again, so the occupancy counter can be settled for
// holds that were never explicitly cancelled.
func (p *PostgresBookingRepository) RetireExpired(ctx context.Context, sessionID, seatID uuid.UUID) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'TIMEOUT', updated_at = NOW()
		WHERE session_id = $1 AND seat_id = $2 AND status = 'PENDING' AND expires_at <= NOW()
	`

	tag, err := p.db.Exec(ctx, query, sessionID, seatID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// FindActive treats expired PENDING rows as inactive; the filter retires
// them long before RetireExpired rewrites their stored status.
func (p *PostgresBookingRepository) FindActive(ctx context.Context, sessionID, seatID uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, session_id, seat_id, status, total_amount, expires_at, lock_token, created_at, updated_at
		FROM bookings
		WHERE session_id = $1 AND seat_id = $2 AND status = 'PENDING' AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, sessionID, seatID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SessionID,
		&booking.SeatID,
		&booking.Status,
		&booking.TotalAmount,
		&booking.ExpiresAt,
		&booking.LockToken,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}
