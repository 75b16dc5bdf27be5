package repository

import (
	"context"
	"errors"
	"fmt"

	"sollotto/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the ledger over the accounts table.
// Scoped into a unit of work, balance movements commit or roll back
// together with the round and ticket state they pay for.
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(q Queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

// CreateAccount ensures an account row exists with a zero balance
func (r *AccountRepository) CreateAccount(ctx context.Context, address entities.Address) error {
	query := `
		INSERT INTO accounts (address, balance)
		VALUES ($1, 0)
		ON CONFLICT (address) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, address); err != nil {
		return fmt.Errorf("failed to create account %s: %w", address, err)
	}

	return nil
}

// Transfer moves amount from one account to another. The debit is
// conditional on sufficient balance so the ledger never goes negative.
func (r *AccountRepository) Transfer(ctx context.Context, from, to entities.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive: %w", entities.ErrValidation)
	}

	debit := `
		UPDATE accounts
		SET balance = balance - $2
		WHERE address = $1 AND balance >= $2
	`

	tag, err := r.q.Exec(ctx, debit, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", from, entities.ErrInsufficientFunds)
	}

	credit := `
		INSERT INTO accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET balance = accounts.balance + $2
	`

	if _, err := r.q.Exec(ctx, credit, to, amount); err != nil {
		return fmt.Errorf("failed to credit account %s: %w", to, err)
	}

	return nil
}

// Balance returns the current balance of an account, zero when the
// account has never been touched
func (r *AccountRepository) Balance(ctx context.Context, address entities.Address) (int64, error) {
	query := `SELECT balance FROM accounts WHERE address = $1`

	var balance int64
	err := r.q.QueryRow(ctx, query, address).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance for %s: %w", address, err)
	}

	return balance, nil
}

// Deposit credits an account unconditionally, creating it if needed.
// Used by operator tooling to seed player balances.
func (r *AccountRepository) Deposit(ctx context.Context, address entities.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive: %w", entities.ErrValidation)
	}

	query := `
		INSERT INTO accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET balance = accounts.balance + $2
	`

	if _, err := r.q.Exec(ctx, query, address, amount); err != nil {
		return fmt.Errorf("failed to deposit to account %s: %w", address, err)
	}

	return nil
}
