package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	referenceCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceCodeLength   = 8

	// referenceCodeAttempts bounds the retry loop when a generated code
	// collides with an existing one.
	referenceCodeAttempts = 3
)

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

func (p *PostgresTicketRepository) FindSold(ctx context.Context, sessionID, seatID uuid.UUID) (*domain.Ticket, error) {
	query := `
		SELECT id, booking_id, session_id, seat_id, user_id, price, currency, status, reference_code, purchased_at, created_at
		FROM tickets
		WHERE session_id = $1 AND seat_id = $2 AND status <> 'CANCELLED'
	`

	return p.scanTicket(p.db.QueryRow(ctx, query, sessionID, seatID))
}

// Issue converts a PENDING booking into a PAID ticket. The insert and the
// booking's transition to CONFIRMED happen in one transaction: both commit
// or both roll back. A reference-code collision retries the whole
// transaction; exhausting the attempts surfaces ErrReferenceCodeTaken.
func (p *PostgresTicketRepository) Issue(ctx context.Context, bookingID uuid.UUID) (*domain.Ticket, *domain.Booking, error) {
	var (
		ticket  *domain.Ticket
		booking *domain.Booking
		err     error
	)

	for attempt := 0; attempt < referenceCodeAttempts; attempt++ {
		ticket, booking, err = p.issueOnce(ctx, bookingID)
		if !errors.Is(err, domain.ErrReferenceCodeTaken) {
			return ticket, booking, err
		}
	}

	return nil, nil, err
}

func (p *PostgresTicketRepository) issueOnce(ctx context.Context, bookingID uuid.UUID) (*domain.Ticket, *domain.Booking, error) {
	var (
		ticket  domain.Ticket
		booking domain.Booking
	)

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT id, user_id, session_id, seat_id, status, total_amount, expires_at, lock_token, created_at, updated_at
			FROM bookings
			WHERE id = $1
			FOR UPDATE
		`

		err := tx.QueryRow(ctx, query, bookingID).Scan(
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
				return domain.ErrRecordNotFound
			}
			return err
		}

		switch booking.Status {
		case domain.BookingConfirmed:
			return domain.ErrBookingTicketed
		case domain.BookingTimeout, domain.BookingCancelled:
			return domain.ErrBookingNotIssuable
		}

		// An expired PENDING booking is an implicit timeout.
		if time.Now().After(booking.ExpiresAt) {
			return domain.ErrBookingNotIssuable
		}

		if booking.SeatID == nil {
			return fmt.Errorf("booking %s has no seat attached", booking.ID)
		}

		code, err := generateReferenceCode()
		if err != nil {
			return err
		}

		query = `
			INSERT INTO tickets (booking_id, session_id, seat_id, user_id, price, currency, status, reference_code, purchased_at)
			VALUES ($1, $2, $3, $4, $5, 'TRY', 'PAID', $6, NOW())
			RETURNING id, booking_id, session_id, seat_id, user_id, price, currency, status, reference_code, purchased_at, created_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.ID,
			booking.SessionID,
			booking.SeatID,
			booking.UserID,
			booking.TotalAmount,
			code,
		).Scan(
			&ticket.ID,
			&ticket.BookingID,
			&ticket.SessionID,
			&ticket.SeatID,
			&ticket.UserID,
			&ticket.Price,
			&ticket.Currency,
			&ticket.Status,
			&ticket.ReferenceCode,
			&ticket.PurchasedAt,
			&ticket.CreatedAt,
		)
		if err != nil {
			return mapTicketInsertError(err)
		}

		query = `
			UPDATE bookings
			SET status = 'CONFIRMED', updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`

		err = tx.QueryRow(ctx, query, booking.ID).Scan(&booking.UpdatedAt)
		if err != nil {
			return err
		}

		booking.Status = domain.BookingConfirmed

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return &ticket, &booking, nil
}

func (p *PostgresTicketRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `
		SELECT id, booking_id, session_id, seat_id, user_id, price, currency, status, reference_code, purchased_at, created_at
		FROM tickets
		WHERE id = $1
	`

	return p.scanTicket(p.db.QueryRow(ctx, query, id))
}

func (p *PostgresTicketRepository) GetByReferenceCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `
		SELECT id, booking_id, session_id, seat_id, user_id, price, currency, status, reference_code, purchased_at, created_at
		FROM tickets
		WHERE reference_code = $1
	`

	return p.scanTicket(p.db.QueryRow(ctx, query, code))
}

func (p *PostgresTicketRepository) scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket

	err := row.Scan(
		&ticket.ID,
		&ticket.BookingID,
		&ticket.SessionID,
		&ticket.SeatID,
		&ticket.UserID,
		&ticket.Price,
		&ticket.Currency,
		&ticket.Status,
		&ticket.ReferenceCode,
		&ticket.PurchasedAt,
		&ticket.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &ticket, nil
}

// mapTicketInsertError distinguishes the two unique constraints on tickets:
// a reference-code collision is retryable, a second non-cancelled ticket
// for the same (session, seat) pair is a hard conflict.
func mapTicketInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "tickets_reference_code_key":
		return domain.ErrReferenceCodeTaken
	case "tickets_session_seat_active_idx":
		return domain.ErrSeatAlreadySold
	default:
		return err
	}
}

func generateReferenceCode() (string, error) {
	code := make([]byte, referenceCodeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate reference code: %w", err)
		}

		code[i] = referenceCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
