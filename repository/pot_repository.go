package repository

import (
	"context"
	"errors"
	"fmt"

	"sollotto/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PotRepository implements pot data access
type PotRepository struct {
	q Queryable
}

// NewPotRepository creates a new pot repository
func NewPotRepository(q Queryable) *PotRepository {
	return &PotRepository{q: q}
}

// Create inserts a new active pot
func (r *PotRepository) Create(ctx context.Context, pot *entities.Pot) error {
	query := `
		INSERT INTO pots (id, active)
		VALUES ($1, TRUE)
		RETURNING active, created_at
	`

	err := r.q.QueryRow(ctx, query, pot.ID).Scan(&pot.Active, &pot.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("pot %s: %w", pot.ID, entities.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create pot: %w", err)
	}

	return nil
}

// GetByID retrieves a pot by id, or nil when missing
func (r *PotRepository) GetByID(ctx context.Context, id string) (*entities.Pot, error) {
	query := `SELECT id, active, created_at FROM pots WHERE id = $1`

	var pot entities.Pot
	err := r.q.QueryRow(ctx, query, id).Scan(&pot.ID, &pot.Active, &pot.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pot %s: %w", id, err)
	}

	return &pot, nil
}
