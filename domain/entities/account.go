package entities

import "time"

// Address identifies a wallet or escrow account on the ledger
type Address string

// Account holds a ledger balance in lamports. Balances are owned by the
// ledger; the settlement core only reads them and issues transfers.
type Account struct {
	Address   Address   `db:"address"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
}
