package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"sollotto/domain/entities"
	"sollotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRoundForTickets(t *testing.T, testDB *testutil.TestDatabase, roundID string) {
	t.Helper()
	rounds := NewRoundRepository(testDB.DB.Pool)
	require.NoError(t, rounds.Create(context.Background(), &entities.Round{ID: roundID}))
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB.Pool)
	ctx := context.Background()
	createRoundForTickets(t, testDB, "round-1")

	t.Run("ticket not found", func(t *testing.T) {
		ticket, err := repo.GetByID(ctx, "round-1", "missing")
		require.NoError(t, err)
		assert.Nil(t, ticket)
	})

	t.Run("create and read back", func(t *testing.T) {
		ticket := &entities.Ticket{
			ID:            "ticket-1",
			RoundID:       "round-1",
			Buyer:         "buyer-wallet",
			PurchasePrice: entities.TicketPrice,
		}
		require.NoError(t, repo.Create(ctx, ticket))
		assert.False(t, ticket.PurchasedAt.IsZero())

		got, err := repo.GetByID(ctx, "round-1", "ticket-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, entities.Address("buyer-wallet"), got.Buyer)
		assert.Equal(t, entities.TicketPrice, got.PurchasePrice)
		assert.Nil(t, got.Won)
		assert.Nil(t, got.WinNumber)
		assert.Nil(t, got.SettledAt)
	})

	t.Run("duplicate id within round conflicts", func(t *testing.T) {
		ticket := &entities.Ticket{ID: "ticket-dup", RoundID: "round-1", Buyer: "b", PurchasePrice: entities.TicketPrice}
		require.NoError(t, repo.Create(ctx, ticket))

		err := repo.Create(ctx, &entities.Ticket{ID: "ticket-dup", RoundID: "round-1", Buyer: "b", PurchasePrice: entities.TicketPrice})
		assert.ErrorIs(t, err, entities.ErrAlreadyExists)
	})

	t.Run("same ticket id in another round is fine", func(t *testing.T) {
		createRoundForTickets(t, testDB, "round-2")
		err := repo.Create(ctx, &entities.Ticket{ID: "ticket-1", RoundID: "round-2", Buyer: "b", PurchasePrice: entities.TicketPrice})
		require.NoError(t, err)
	})
}

func TestTicketRepository_Settle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB.Pool)
	ctx := context.Background()
	createRoundForTickets(t, testDB, "round-1")

	require.NoError(t, repo.Create(ctx, &entities.Ticket{
		ID: "ticket-1", RoundID: "round-1", Buyer: "b", PurchasePrice: entities.TicketPrice,
	}))

	settled, err := repo.Settle(ctx, "round-1", "ticket-1", true, 777)
	require.NoError(t, err)
	assert.True(t, settled)

	ticket, err := repo.GetByID(ctx, "round-1", "ticket-1")
	require.NoError(t, err)
	assert.True(t, ticket.IsWinner())
	require.NotNil(t, ticket.WinNumber)
	assert.Equal(t, int64(777), *ticket.WinNumber)
	require.NotNil(t, ticket.SettledAt)

	// The outcome is immutable once set
	settled, err = repo.Settle(ctx, "round-1", "ticket-1", false, 1)
	require.NoError(t, err)
	assert.False(t, settled)

	ticket, err = repo.GetByID(ctx, "round-1", "ticket-1")
	require.NoError(t, err)
	assert.True(t, ticket.IsWinner())
	assert.Equal(t, int64(777), *ticket.WinNumber)
}

func TestTicketRepository_ConcurrentSettleRace(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB.Pool)
	ctx := context.Background()
	createRoundForTickets(t, testDB, "round-1")

	require.NoError(t, repo.Create(ctx, &entities.Ticket{
		ID: "ticket-1", RoundID: "round-1", Buyer: "b", PurchasePrice: entities.TicketPrice,
	}))

	const workers = 16
	var wins int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			settled, err := repo.Settle(ctx, "round-1", "ticket-1", true, 42)
			assert.NoError(t, err)
			if settled {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	// Exactly one delivery gets to write the outcome
	assert.Equal(t, int64(1), wins)
}

func TestTicketRepository_ListAndCount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB.Pool)
	ctx := context.Background()
	createRoundForTickets(t, testDB, "round-1")
	createRoundForTickets(t, testDB, "round-other")

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, repo.Create(ctx, &entities.Ticket{
			ID: id, RoundID: "round-1", Buyer: "b", PurchasePrice: entities.TicketPrice,
		}))
	}
	require.NoError(t, repo.Create(ctx, &entities.Ticket{
		ID: "t-other", RoundID: "round-other", Buyer: "b", PurchasePrice: entities.TicketPrice,
	}))

	tickets, err := repo.ListByRound(ctx, "round-1")
	require.NoError(t, err)
	assert.Len(t, tickets, 3)

	count, err := repo.CountByRound(ctx, "round-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	empty, err := repo.ListByRound(ctx, "round-empty")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
