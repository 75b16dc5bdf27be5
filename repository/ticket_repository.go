package repository

import (
	"context"
	"errors"
	"fmt"

	"sollotto/domain/entities"

	"github.com/jackc/pgx/v5"
)

const ticketColumns = `id, round_id, buyer, won, win_number, purchase_price,
       purchased_at, settled_at`

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(q Queryable) *TicketRepository {
	return &TicketRepository{q: q}
}

// Create inserts a new unsettled ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (id, round_id, buyer, purchase_price)
		VALUES ($1, $2, $3, $4)
		RETURNING purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.ID,
		ticket.RoundID,
		ticket.Buyer,
		ticket.PurchasePrice,
	).Scan(&ticket.PurchasedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ticket %s in round %s: %w", ticket.ID, ticket.RoundID, entities.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by round and id, or nil when missing
func (r *TicketRepository) GetByID(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE round_id = $1 AND id = $2`
	return r.scanTicket(r.q.QueryRow(ctx, query, roundID, ticketID), roundID, ticketID)
}

// GetByIDForUpdate retrieves a ticket with a row lock so concurrent
// settlements of the same ticket serialize
func (r *TicketRepository) GetByIDForUpdate(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE round_id = $1 AND id = $2 FOR UPDATE`
	return r.scanTicket(r.q.QueryRow(ctx, query, roundID, ticketID), roundID, ticketID)
}

// Settle records the settlement outcome. The won IS NULL guard makes
// settlement a compare-and-set: the first reveal wins, repeats are no-ops.
func (r *TicketRepository) Settle(ctx context.Context, roundID, ticketID string, won bool, winNumber int64) (bool, error) {
	query := `
		UPDATE tickets
		SET won = $3, win_number = $4, settled_at = NOW()
		WHERE round_id = $1 AND id = $2 AND won IS NULL
	`

	tag, err := r.q.Exec(ctx, query, roundID, ticketID, won, winNumber)
	if err != nil {
		return false, fmt.Errorf("failed to settle ticket %s: %w", ticketID, err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListByRound returns all tickets of a round in purchase order
func (r *TicketRepository) ListByRound(ctx context.Context, roundID string) ([]*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE round_id = $1 ORDER BY purchased_at, id`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for round %s: %w", roundID, err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		var ticket entities.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.RoundID,
			&ticket.Buyer,
			&ticket.Won,
			&ticket.WinNumber,
			&ticket.PurchasePrice,
			&ticket.PurchasedAt,
			&ticket.SettledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, rows.Err()
}

// CountByRound returns the number of tickets purchased in a round
func (r *TicketRepository) CountByRound(ctx context.Context, roundID string) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE round_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, roundID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets for round %s: %w", roundID, err)
	}

	return count, nil
}

func (r *TicketRepository) scanTicket(row pgx.Row, roundID, ticketID string) (*entities.Ticket, error) {
	var ticket entities.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.RoundID,
		&ticket.Buyer,
		&ticket.Won,
		&ticket.WinNumber,
		&ticket.PurchasePrice,
		&ticket.PurchasedAt,
		&ticket.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket %s in round %s: %w", ticketID, roundID, err)
	}

	return &ticket, nil
}
