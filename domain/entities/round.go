package entities

import (
	"time"
)

const (
	// MaxNumber is the inclusive upper bound of the randomness domain for
	// the main number and every ticket number (2^53, the origin oracle's
	// safe-integer range).
	MaxNumber int64 = 1 << 53

	// TicketPrice is the fixed cost of one ticket in lamports (0.01 SOL).
	TicketPrice int64 = 10_000_000
)

// Round represents a single lottery round with one number to beat
type Round struct {
	ID            string     `db:"id"`
	IsActive      bool       `db:"is_active"`
	MainNumber    int64      `db:"main_number"`
	TotalTickets  int64      `db:"total_tickets"`
	LastWinner    *Address   `db:"last_winner"`     // NULL until a ticket wins
	LastWinNumber *int64     `db:"last_win_number"` // NULL until a ticket wins
	ActivatedAt   *time.Time `db:"activated_at"`    // NULL until the round reveal arrives
	ClosedAt      *time.Time `db:"closed_at"`       // NULL until won out or admin-closed
	CreatedAt     time.Time  `db:"created_at"`
}

// IsActivated returns true once the round reveal has set the main number
func (r *Round) IsActivated() bool {
	return r.ActivatedAt != nil
}

// IsClosed returns true if the round has been won out or admin-closed
func (r *Round) IsClosed() bool {
	return r.ClosedAt != nil
}

// CanPurchaseTickets returns true if tickets can still be purchased
func (r *Round) CanPurchaseTickets() bool {
	return r.IsActive && !r.IsClosed()
}

// Beats reports whether a ticket number beats the round's main number.
// Strict inequality: a tie loses.
func (r *Round) Beats(number int64) bool {
	return number > r.MainNumber
}

// WinProbability returns the chance a uniformly drawn ticket number beats
// the main number. Informational only; settlement uses Beats.
func (r *Round) WinProbability() float64 {
	if !r.IsActivated() {
		return 0
	}
	return float64(MaxNumber-r.MainNumber) / float64(MaxNumber)
}

// InNumberRange reports whether a revealed value lies in [0, MaxNumber]
func InNumberRange(value int64) bool {
	return value >= 0 && value <= MaxNumber
}
