package repository

import (
	"context"
	"testing"

	"sollotto/domain/entities"
	"sollotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB.Pool)
	ctx := context.Background()

	t.Run("round not found", func(t *testing.T) {
		round, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, round)
	})

	t.Run("create and read back", func(t *testing.T) {
		round := &entities.Round{ID: "round-1"}
		require.NoError(t, repo.Create(ctx, round))

		assert.False(t, round.IsActive)
		assert.Zero(t, round.MainNumber)
		assert.Zero(t, round.TotalTickets)
		assert.False(t, round.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, "round-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "round-1", got.ID)
		assert.Nil(t, got.ActivatedAt)
		assert.Nil(t, got.ClosedAt)
		assert.Nil(t, got.LastWinner)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Round{ID: "round-dup"}))

		err := repo.Create(ctx, &entities.Round{ID: "round-dup"})
		assert.ErrorIs(t, err, entities.ErrAlreadyExists)
	})
}

func TestRoundRepository_Activate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB.Pool)
	ctx := context.Background()

	t.Run("activates exactly once", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Round{ID: "round-1"}))

		activated, err := repo.Activate(ctx, "round-1", 12345)
		require.NoError(t, err)
		assert.True(t, activated)

		round, err := repo.GetByID(ctx, "round-1")
		require.NoError(t, err)
		assert.True(t, round.IsActive)
		assert.Equal(t, int64(12345), round.MainNumber)
		require.NotNil(t, round.ActivatedAt)

		// Second delivery of the same reveal is absorbed
		activated, err = repo.Activate(ctx, "round-1", 99999)
		require.NoError(t, err)
		assert.False(t, activated)

		round, err = repo.GetByID(ctx, "round-1")
		require.NoError(t, err)
		assert.Equal(t, int64(12345), round.MainNumber)
	})

	t.Run("closed round cannot activate", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Round{ID: "round-2"}))
		require.NoError(t, repo.Close(ctx, "round-2"))

		activated, err := repo.Activate(ctx, "round-2", 1)
		require.NoError(t, err)
		assert.False(t, activated)
	})

	t.Run("unknown round does not activate", func(t *testing.T) {
		activated, err := repo.Activate(ctx, "missing", 1)
		require.NoError(t, err)
		assert.False(t, activated)
	})
}

func TestRoundRepository_RecordWin(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB.Pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Round{ID: "round-1"}))
	_, err := repo.Activate(ctx, "round-1", 100)
	require.NoError(t, err)

	require.NoError(t, repo.RecordWin(ctx, "round-1", "winner-wallet", 500))

	round, err := repo.GetByID(ctx, "round-1")
	require.NoError(t, err)
	assert.False(t, round.IsActive)
	require.NotNil(t, round.LastWinner)
	assert.Equal(t, entities.Address("winner-wallet"), *round.LastWinner)
	require.NotNil(t, round.LastWinNumber)
	assert.Equal(t, int64(500), *round.LastWinNumber)
	require.NotNil(t, round.ClosedAt)

	// A later winner overwrites; last write wins
	firstClose := *round.ClosedAt
	require.NoError(t, repo.RecordWin(ctx, "round-1", "second-winner", 700))

	round, err = repo.GetByID(ctx, "round-1")
	require.NoError(t, err)
	assert.Equal(t, entities.Address("second-winner"), *round.LastWinner)
	assert.True(t, firstClose.Equal(*round.ClosedAt))

	assert.ErrorIs(t, repo.RecordWin(ctx, "missing", "w", 1), entities.ErrNotFound)
}

func TestRoundRepository_IncrementTotalTickets(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB.Pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Round{ID: "round-1"}))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementTotalTickets(ctx, "round-1"))
	}

	round, err := repo.GetByID(ctx, "round-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), round.TotalTickets)

	assert.ErrorIs(t, repo.IncrementTotalTickets(ctx, "missing"), entities.ErrNotFound)
}

func TestRoundRepository_ListRecent(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB.Pool)
	ctx := context.Background()

	for _, id := range []string{"round-a", "round-b", "round-c"} {
		require.NoError(t, repo.Create(ctx, &entities.Round{ID: id}))
	}

	rounds, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rounds, 2)
}
