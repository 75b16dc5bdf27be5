package interfaces

import (
	"context"

	"sollotto/domain/entities"
	"sollotto/events"
)

// RoundRepository defines the interface for round data access
type RoundRepository interface {
	// Create inserts a new inactive round with mainNumber 0.
	// Returns entities.ErrAlreadyExists on id collision.
	Create(ctx context.Context, round *entities.Round) error

	// GetByID retrieves a round by id, or nil when missing
	GetByID(ctx context.Context, id string) (*entities.Round, error)

	// GetByIDForUpdate retrieves a round with a row lock held for the
	// duration of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id string) (*entities.Round, error)

	// Activate sets the main number and flips the round active, once.
	// Returns false when the round was already activated or closed.
	Activate(ctx context.Context, id string, mainNumber int64) (bool, error)

	// IncrementTotalTickets bumps the display-only ticket counter
	IncrementTotalTickets(ctx context.Context, id string) error

	// RecordWin stores the winning settlement outcome and deactivates the round
	RecordWin(ctx context.Context, id string, winner entities.Address, winNumber int64) error

	// Close deactivates the round unconditionally (admin safety valve)
	Close(ctx context.Context, id string) error

	// ListRecent returns the most recently created rounds
	ListRecent(ctx context.Context, limit int) ([]*entities.Round, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts an unsettled ticket.
	// Returns entities.ErrAlreadyExists on id collision within the round.
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket by round and ticket id, or nil when missing
	GetByID(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error)

	// GetByIDForUpdate retrieves a ticket with a row lock held for the
	// duration of the surrounding transaction. Duplicate reveal deliveries
	// settling the same ticket serialize on this lock.
	GetByIDForUpdate(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error)

	// Settle records the reveal outcome, guarded by won IS NULL.
	// Returns false when the ticket was already settled.
	Settle(ctx context.Context, roundID, ticketID string, won bool, winNumber int64) (bool, error)

	// ListByRound returns all tickets of a round
	ListByRound(ctx context.Context, roundID string) ([]*entities.Ticket, error)

	// CountByRound returns the number of tickets purchased for a round
	CountByRound(ctx context.Context, roundID string) (int64, error)
}

// PotRepository defines the interface for pot metadata access
type PotRepository interface {
	// Create registers the pot once.
	// Returns entities.ErrAlreadyExists on id collision.
	Create(ctx context.Context, pot *entities.Pot) error

	// GetByID retrieves a pot by id, or nil when missing
	GetByID(ctx context.Context, id string) (*entities.Pot, error)
}

// PotFundingRepository defines the interface for the append-only funding log
type PotFundingRepository interface {
	// Record appends a funding entry. Entries are never mutated.
	Record(ctx context.Context, funding *entities.PotFunding) error

	// ListByPot returns funding history, newest first
	ListByPot(ctx context.Context, potID string) ([]*entities.PotFunding, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
