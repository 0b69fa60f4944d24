package repository

import (
	"context"
	"errors"

	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSessionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSessionRepository(db *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{
		db: db,
	}
}

func (p *PostgresSessionRepository) GetByIdWithPrices(ctx context.Context, id uuid.UUID) (*domain.EventSession, error) {
	query := `
		SELECT s.id, s.event_id, s.venue_id, s.start_time, s.end_time, s.is_active, s.pricing_strategy, v.total_capacity
		FROM event_sessions s
		JOIN venues v ON s.venue_id = v.id
		WHERE s.id = $1
	`

	var session domain.EventSession

	err := p.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.EventID,
		&session.VenueID,
		&session.StartTime,
		&session.EndTime,
		&session.IsActive,
		&session.PricingStrategy,
		&session.VenueCapacity,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	prices, err := p.retrievePrices(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Prices = prices

	return &session, nil
}

func (p *PostgresSessionRepository) retrievePrices(ctx context.Context, sessionID uuid.UUID) ([]domain.TicketPrice, error) {
	query := `
		SELECT id, session_id, section_id, name, amount, currency
		FROM ticket_prices
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := p.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make([]domain.TicketPrice, 0)

	for rows.Next() {
		var price domain.TicketPrice

		err = rows.Scan(
			&price.ID,
			&price.SessionID,
			&price.SectionID,
			&price.Name,
			&price.Amount,
			&price.Currency,
		)

		if err != nil {
			return nil, err
		}

		prices = append(prices, price)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}

// GetActiveRules orders by priority descending; created_at then id break
// ties so the chain is reproducible across calls.
func (p *PostgresSessionRepository) GetActiveRules(ctx context.Context, sessionID uuid.UUID) ([]domain.PricingRule, error) {
	query := `
		SELECT id, session_id, name, COALESCE(description, ''), type, value, conditions, priority, is_active, created_at
		FROM pricing_rules
		WHERE session_id = $1 AND is_active = TRUE
		ORDER BY priority DESC, created_at ASC, id ASC
	`

	rows, err := p.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]domain.PricingRule, 0)

	for rows.Next() {
		var rule domain.PricingRule

		err = rows.Scan(
			&rule.ID,
			&rule.SessionID,
			&rule.Name,
			&rule.Description,
			&rule.Type,
			&rule.Value,
			&rule.Conditions,
			&rule.Priority,
			&rule.IsActive,
			&rule.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}
