package entities

import "time"

// Ticket represents a single paid wager within a round
type Ticket struct {
	ID            string     `db:"id"`
	RoundID       string     `db:"round_id"`
	Buyer         Address    `db:"buyer"` // immutable, set at purchase
	Won           *bool      `db:"won"`   // NULL until settled
	WinNumber     *int64     `db:"win_number"`
	PurchasePrice int64      `db:"purchase_price"`
	PurchasedAt   time.Time  `db:"purchased_at"`
	SettledAt     *time.Time `db:"settled_at"`
}

// IsSettled returns true once the ticket's reveal has been processed.
// Won and WinNumber are set together, exactly once.
func (t *Ticket) IsSettled() bool {
	return t.Won != nil
}

// IsWinner returns true for a settled winning ticket
func (t *Ticket) IsWinner() bool {
	return t.Won != nil && *t.Won
}
