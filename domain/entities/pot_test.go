package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinnerPayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		balance int64
		want    int64
	}{
		{"empty pot", 0, 0},
		{"one lamport stays in the pot", 1, 0},
		{"exact hundred", 100, 99},
		{"truncates toward zero", 99, 98},
		{"large balance", 1_000_000_001, 990_000_000},
		{"whole sol", 1_000_000_000, 990_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WinnerPayout(tt.balance))
		})
	}
}

func TestPot_Account(t *testing.T) {
	t.Parallel()

	pot := &Pot{ID: "main-pot"}
	assert.Equal(t, Address("main-pot"), pot.Account())
}

func TestTicket_SettlementPredicates(t *testing.T) {
	t.Parallel()

	unsettled := &Ticket{ID: "t"}
	assert.False(t, unsettled.IsSettled())
	assert.False(t, unsettled.IsWinner())

	lost := false
	loser := &Ticket{ID: "t", Won: &lost}
	assert.True(t, loser.IsSettled())
	assert.False(t, loser.IsWinner())

	won := true
	winner := &Ticket{ID: "t", Won: &won}
	assert.True(t, winner.IsSettled())
	assert.True(t, winner.IsWinner())
}
