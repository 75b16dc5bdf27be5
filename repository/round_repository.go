package repository

import (
	"context"
	"errors"
	"fmt"

	"sollotto/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const roundColumns = `id, is_active, main_number, total_tickets, last_winner,
       last_win_number, activated_at, closed_at, created_at`

// RoundRepository implements round data access
type RoundRepository struct {
	q Queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(q Queryable) *RoundRepository {
	return &RoundRepository{q: q}
}

// Create inserts a new inactive round with mainNumber 0
func (r *RoundRepository) Create(ctx context.Context, round *entities.Round) error {
	query := `
		INSERT INTO rounds (id, is_active, main_number, total_tickets)
		VALUES ($1, FALSE, 0, 0)
		RETURNING is_active, main_number, total_tickets, created_at
	`

	err := r.q.QueryRow(ctx, query, round.ID).Scan(
		&round.IsActive,
		&round.MainNumber,
		&round.TotalTickets,
		&round.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("round %s: %w", round.ID, entities.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create round: %w", err)
	}

	return nil
}

// GetByID retrieves a round by id, or nil when missing
func (r *RoundRepository) GetByID(ctx context.Context, id string) (*entities.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	return r.scanRound(r.q.QueryRow(ctx, query, id), id)
}

// GetByIDForUpdate retrieves a round with a row lock
func (r *RoundRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1 FOR UPDATE`
	return r.scanRound(r.q.QueryRow(ctx, query, id), id)
}

// Activate sets the main number and flips the round active, guarded so a
// round can only ever be activated once and never after it closed
func (r *RoundRepository) Activate(ctx context.Context, id string, mainNumber int64) (bool, error) {
	query := `
		UPDATE rounds
		SET is_active = TRUE, main_number = $2, activated_at = NOW()
		WHERE id = $1 AND activated_at IS NULL AND closed_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query, id, mainNumber)
	if err != nil {
		return false, fmt.Errorf("failed to activate round %s: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

// IncrementTotalTickets bumps the display-only ticket counter
func (r *RoundRepository) IncrementTotalTickets(ctx context.Context, id string) error {
	query := `UPDATE rounds SET total_tickets = total_tickets + 1 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment ticket count for round %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round %s: %w", id, entities.ErrNotFound)
	}

	return nil
}

// RecordWin stores the winning settlement outcome and deactivates the round.
// Deliberately unconditional on is_active: a ticket of an already-closed
// round that settles as a win still records itself as the last winner.
func (r *RoundRepository) RecordWin(ctx context.Context, id string, winner entities.Address, winNumber int64) error {
	query := `
		UPDATE rounds
		SET is_active = FALSE,
		    last_winner = $2,
		    last_win_number = $3,
		    closed_at = COALESCE(closed_at, NOW())
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, winner, winNumber)
	if err != nil {
		return fmt.Errorf("failed to record win for round %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round %s: %w", id, entities.ErrNotFound)
	}

	return nil
}

// Close deactivates the round unconditionally
func (r *RoundRepository) Close(ctx context.Context, id string) error {
	query := `
		UPDATE rounds
		SET is_active = FALSE, closed_at = COALESCE(closed_at, NOW())
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to close round %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round %s: %w", id, entities.ErrNotFound)
	}

	return nil
}

// ListRecent returns the most recently created rounds
func (r *RoundRepository) ListRecent(ctx context.Context, limit int) ([]*entities.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds ORDER BY created_at DESC LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*entities.Round
	for rows.Next() {
		var round entities.Round
		if err := rows.Scan(
			&round.ID,
			&round.IsActive,
			&round.MainNumber,
			&round.TotalTickets,
			&round.LastWinner,
			&round.LastWinNumber,
			&round.ActivatedAt,
			&round.ClosedAt,
			&round.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, &round)
	}

	return rounds, rows.Err()
}

func (r *RoundRepository) scanRound(row pgx.Row, id string) (*entities.Round, error) {
	var round entities.Round
	err := row.Scan(
		&round.ID,
		&round.IsActive,
		&round.MainNumber,
		&round.TotalTickets,
		&round.LastWinner,
		&round.LastWinNumber,
		&round.ActivatedAt,
		&round.ClosedAt,
		&round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get round %s: %w", id, err)
	}

	return &round, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
