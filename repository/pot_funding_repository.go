package repository

import (
	"context"
	"fmt"

	"sollotto/domain/entities"
)

// PotFundingRepository implements pot funding log data access
type PotFundingRepository struct {
	q Queryable
}

// NewPotFundingRepository creates a new pot funding repository
func NewPotFundingRepository(q Queryable) *PotFundingRepository {
	return &PotFundingRepository{q: q}
}

// Record appends a funding entry to the pot's funding log
func (r *PotFundingRepository) Record(ctx context.Context, funding *entities.PotFunding) error {
	query := `
		INSERT INTO pot_fundings (id, pot_id, amount, funded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		funding.ID,
		funding.PotID,
		funding.Amount,
		funding.FundedBy,
	).Scan(&funding.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("funding %s: %w", funding.ID, entities.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to record pot funding: %w", err)
	}

	return nil
}

// ListByPot returns the funding history of a pot, newest first
func (r *PotFundingRepository) ListByPot(ctx context.Context, potID string) ([]*entities.PotFunding, error) {
	query := `
		SELECT id, pot_id, amount, funded_by, created_at
		FROM pot_fundings
		WHERE pot_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.q.Query(ctx, query, potID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fundings for pot %s: %w", potID, err)
	}
	defer rows.Close()

	var fundings []*entities.PotFunding
	for rows.Next() {
		var funding entities.PotFunding
		if err := rows.Scan(
			&funding.ID,
			&funding.PotID,
			&funding.Amount,
			&funding.FundedBy,
			&funding.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pot funding: %w", err)
		}
		fundings = append(fundings, &funding)
	}

	return fundings, rows.Err()
}
