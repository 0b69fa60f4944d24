package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresVenueRepository struct {
	db *pgxpool.Pool
}

func NewPostgresVenueRepository(db *pgxpool.Pool) *PostgresVenueRepository {
	return &PostgresVenueRepository{
		db: db,
	}
}

func (p *PostgresVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	query := `
		INSERT INTO venues (name, city, district, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, total_capacity, created_at, updated_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		venue.Name,
		venue.City,
		venue.District,
		venue.Address,
	).Scan(&venue.ID, &venue.TotalCapacity, &venue.CreatedAt, &venue.UpdatedAt)
}

func (p *PostgresVenueRepository) GetByIdWithLayout(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	query := `
		SELECT id, name, city, district, address, total_capacity, created_at, updated_at
		FROM venues
		WHERE id = $1
	`

	var venue domain.Venue

	err := p.db.QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.City,
		&venue.District,
		&venue.Address,
		&venue.TotalCapacity,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	sections, err := p.retrieveLayout(ctx, id)
	if err != nil {
		return nil, err
	}

	venue.Sections = sections

	return &venue, nil
}

func (p *PostgresVenueRepository) retrieveLayout(ctx context.Context, venueID uuid.UUID) ([]domain.Section, error) {
	query := `
		SELECT sec.id, sec.venue_id, sec.name, r.id, r.name, s.id, s.number
		FROM sections sec
		LEFT JOIN rows r ON r.section_id = sec.id
		LEFT JOIN seats s ON s.row_id = r.id
		WHERE sec.venue_id = $1
		ORDER BY sec.name, r.name, s.number
	`

	rows, err := p.db.Query(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := make([]domain.Section, 0)

	for rows.Next() {
		var (
			section    domain.Section
			rowID      *uuid.UUID
			rowName    *string
			seatID     *uuid.UUID
			seatNumber *int
		)

		err = rows.Scan(&section.ID, &section.VenueID, &section.Name, &rowID, &rowName, &seatID, &seatNumber)
		if err != nil {
			return nil, err
		}

		if len(sections) == 0 || sections[len(sections)-1].ID != section.ID {
			sections = append(sections, section)
		}
		current := &sections[len(sections)-1]

		if rowID == nil {
			continue
		}

		if len(current.Rows) == 0 || current.Rows[len(current.Rows)-1].ID != *rowID {
			current.Rows = append(current.Rows, domain.Row{
				ID:        *rowID,
				SectionID: current.ID,
				Name:      *rowName,
			})
		}
		currentRow := &current.Rows[len(current.Rows)-1]

		if seatID != nil {
			currentRow.Seats = append(currentRow.Seats, domain.Seat{
				ID:     *seatID,
				RowID:  *rowID,
				Number: *seatNumber,
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// CreateSeatsBulk inserts the seats with CopyFrom and recomputes the
// venue's capacity in the same transaction.
func (p *PostgresVenueRepository) CreateSeatsBulk(
	ctx context.Context,
	venueID, sectionID, rowID uuid.UUID,
	count int) ([]domain.Seat, error) {

	seats := make([]domain.Seat, 0, count)

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT r.id
			FROM rows r
			JOIN sections sec ON r.section_id = sec.id
			WHERE r.id = $1 AND sec.id = $2 AND sec.venue_id = $3
		`

		var found uuid.UUID
		err := tx.QueryRow(ctx, query, rowID, sectionID, venueID).Scan(&found)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		var startNumber int
		err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM seats WHERE row_id = $1`, rowID).Scan(&startNumber)
		if err != nil {
			return err
		}

		copyRows := make([][]any, 0, count)
		for i := 1; i <= count; i++ {
			copyRows = append(copyRows, []any{rowID, startNumber + i})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seats"},
			[]string{"row_id", "number"},
			pgx.CopyFromRows(copyRows),
		)
		if err != nil {
			return fmt.Errorf("failed to bulk insert seats: %w", err)
		}

		query = `
			UPDATE venues
			SET total_capacity = (
				SELECT COUNT(*)
				FROM seats s
				JOIN rows r ON s.row_id = r.id
				JOIN sections sec ON r.section_id = sec.id
				WHERE sec.venue_id = $1
			), updated_at = NOW()
			WHERE id = $1
		`

		_, err = tx.Exec(ctx, query, venueID)
		if err != nil {
			return err
		}

		rows, err := tx.Query(
			ctx,
			`SELECT id, row_id, number FROM seats WHERE row_id = $1 AND number > $2 ORDER BY number`,
			rowID,
			startNumber,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var seat domain.Seat
			if err := rows.Scan(&seat.ID, &seat.RowID, &seat.Number); err != nil {
				return err
			}
			seats = append(seats, seat)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return seats, nil
}
