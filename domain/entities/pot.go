package entities

import "time"

// Pot represents the prize escrow account shared by all rounds
type Pot struct {
	ID        string    `db:"id"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

// PotFunding is one append-only entry in the pot's funding history
type PotFunding struct {
	ID        string    `db:"id"`
	PotID     string    `db:"pot_id"`
	Amount    int64     `db:"amount"`
	FundedBy  Address   `db:"funded_by"`
	CreatedAt time.Time `db:"created_at"`
}

// Account returns the ledger address of the pot's escrow account
func (p *Pot) Account() Address {
	return Address(p.ID)
}

// WinnerPayout returns the amount paid to a winning buyer from a pot
// balance: 99% with integer truncation. The remaining 1% stays in the pot
// as seed for the next round.
func WinnerPayout(potBalance int64) int64 {
	return potBalance * 99 / 100
}
