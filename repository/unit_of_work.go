package repository

import (
	"context"
	"fmt"

	"sollotto/database"
	"sollotto/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// UnitOfWork coordinates repositories and the ledger within a single
// database transaction. Events published during the transaction are
// buffered and only flushed after the commit succeeds.
type UnitOfWork struct {
	db        *database.DB
	tx        pgx.Tx
	ctx       context.Context
	publisher interfaces.TransactionalEventPublisher

	roundRepo   *RoundRepository
	ticketRepo  *TicketRepository
	potRepo     *PotRepository
	fundingRepo *PotFundingRepository
	accountRepo *AccountRepository
}

// NewUnitOfWork creates a unit of work bound to the given publisher
func NewUnitOfWork(db *database.DB, publisher interfaces.TransactionalEventPublisher) *UnitOfWork {
	return &UnitOfWork{
		db:        db,
		publisher: publisher,
	}
}

// Begin starts the transaction and scopes all repositories to it
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("unit of work already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.roundRepo = NewRoundRepository(tx)
	u.ticketRepo = NewTicketRepository(tx)
	u.potRepo = NewPotRepository(tx)
	u.fundingRepo = NewPotFundingRepository(tx)
	u.accountRepo = NewAccountRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("unit of work not started")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		u.publisher.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	return u.publisher.Flush(u.ctx)
}

// Rollback aborts the transaction and discards buffered events
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(context.Background())
	u.tx = nil
	u.publisher.Discard()
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// Rounds returns the transaction-scoped round repository
func (u *UnitOfWork) Rounds() interfaces.RoundRepository {
	u.mustBeStarted()
	return u.roundRepo
}

// Tickets returns the transaction-scoped ticket repository
func (u *UnitOfWork) Tickets() interfaces.TicketRepository {
	u.mustBeStarted()
	return u.ticketRepo
}

// Pots returns the transaction-scoped pot repository
func (u *UnitOfWork) Pots() interfaces.PotRepository {
	u.mustBeStarted()
	return u.potRepo
}

// PotFundings returns the transaction-scoped pot funding repository
func (u *UnitOfWork) PotFundings() interfaces.PotFundingRepository {
	u.mustBeStarted()
	return u.fundingRepo
}

// Ledger returns the transaction-scoped account ledger
func (u *UnitOfWork) Ledger() interfaces.Ledger {
	u.mustBeStarted()
	return u.accountRepo
}

// Events returns the transaction-scoped event publisher
func (u *UnitOfWork) Events() interfaces.EventPublisher {
	return u.publisher
}

func (u *UnitOfWork) mustBeStarted() {
	if u.tx == nil {
		panic("unit of work not started, call Begin first")
	}
}

// UnitOfWorkFactory creates units of work backed by the shared pool
type UnitOfWorkFactory struct {
	db               *database.DB
	publisherFactory func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a new unit of work factory
func NewUnitOfWorkFactory(db *database.DB, publisherFactory func() interfaces.TransactionalEventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:               db,
		publisherFactory: publisherFactory,
	}
}

// Create returns a fresh unit of work with its own event buffer
func (f *UnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return NewUnitOfWork(f.db, f.publisherFactory())
}
