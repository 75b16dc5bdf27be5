package interfaces

import (
	"context"

	"sollotto/domain/entities"
)

// Ledger is the external account store. Transfers are atomic; balances are
// owned by the ledger and read back with eventual consistency. Implementations
// scoped into a unit of work commit or roll back with the surrounding
// transaction.
type Ledger interface {
	// Transfer moves amount from one account to another atomically.
	// Returns entities.ErrInsufficientFunds when the debit would overdraw.
	Transfer(ctx context.Context, from, to entities.Address, amount int64) error

	// Balance returns the current balance of an account (zero when absent)
	Balance(ctx context.Context, address entities.Address) (int64, error)

	// CreateAccount ensures an account row exists for the address
	CreateAccount(ctx context.Context, address entities.Address) error
}

// RandomnessOracle is the external VRF source. Requests are fire-and-forget,
// keyed by the id of the entity the randomness serves; the answer arrives
// later through a reveal callback, possibly more than once.
type RandomnessOracle interface {
	// RequestRandom asks for one uniform integer in [min, max] for key
	RequestRandom(ctx context.Context, key string, min, max int64) error

	// VRFAddress returns the on-chain address of the randomness request
	// for key (informational)
	VRFAddress(ctx context.Context, key string) (string, error)
}

// TransactionalEventPublisher buffers events until the surrounding
// transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events; called after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all pending events; called on rollback
	Discard()
}

// UnitOfWork bundles transaction-scoped repositories so a service operation
// commits or rolls back as a single unit
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	Rounds() RoundRepository
	Tickets() TicketRepository
	Pots() PotRepository
	PotFundings() PotFundingRepository
	Ledger() Ledger
	Events() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// SettlementService orchestrates round activation and ticket settlement
type SettlementService interface {
	// CreateRound registers a new inactive round and requests its
	// activation randomness
	CreateRound(ctx context.Context, roundID string, creator entities.Address) (*entities.Round, error)

	// OnRoundRevealed handles the oracle reveal that activates a round.
	// Idempotent: re-delivery for an activated round is a silent no-op.
	OnRoundRevealed(ctx context.Context, roundID, revealID string, value int64) error

	// BuyTicket escrows the ticket price into the pot, records the ticket
	// and requests its randomness
	BuyTicket(ctx context.Context, roundID, ticketID string, buyer, caller entities.Address) (*entities.Ticket, error)

	// OnTicketRevealed handles the oracle reveal that settles a ticket.
	// Idempotent: re-delivery for a settled ticket is a silent no-op.
	OnTicketRevealed(ctx context.Context, roundID, ticketID string, value int64) error

	// AdminCloseRound deactivates a stuck round (admin safety valve)
	AdminCloseRound(ctx context.Context, roundID string, caller entities.Address) error

	// GetRound returns a round by id, or nil when missing
	GetRound(ctx context.Context, roundID string) (*entities.Round, error)

	// GetTicket returns a ticket by id, or nil when missing
	GetTicket(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error)

	// ListRoundTickets returns all tickets of a round
	ListRoundTickets(ctx context.Context, roundID string) ([]*entities.Ticket, error)
}

// PotService manages the prize escrow account
type PotService interface {
	// CreatePot creates the escrow pot once (admin only)
	CreatePot(ctx context.Context, potID string, caller entities.Address) (*entities.Pot, error)

	// FundPot transfers amount from the admin wallet into the pot and
	// appends a funding log entry (admin only)
	FundPot(ctx context.Context, fundingID string, amount int64, caller entities.Address) (*entities.PotFunding, error)

	// Balance returns the pot's ledger balance at query time
	Balance(ctx context.Context, potID string) (int64, error)

	// FundingHistory returns the append-only funding log, newest first
	FundingHistory(ctx context.Context, potID string) ([]*entities.PotFunding, error)
}
