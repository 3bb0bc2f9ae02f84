package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-lotto-backend/internal/common/config"
	apperrors "club-lotto-backend/internal/common/errors"
	boardservice "club-lotto-backend/internal/features/board/service"
	"club-lotto-backend/internal/features/game/models"
	"club-lotto-backend/internal/testutil"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Lotto.PoolSize = 20
	cfg.Lotto.Prices = []int64{20, 40, 80, 160}
	return cfg
}

type fixture struct {
	store  *testutil.Store
	games  GameService
	boards boardservice.BoardService
}

func newFixture() *fixture {
	store := testutil.NewStore()
	cfg := testConfig()
	boards := boardservice.NewBoardService(
		store,
		testutil.BoardRepo{Store: store},
		store,
		testutil.PlayerRepo{Store: store},
		testutil.WalletRepo{Store: store},
		cfg,
	)
	games := NewGameService(store, store, testutil.BoardRepo{Store: store}, boards, nil, cfg)
	return &fixture{store: store, games: games, boards: boards}
}

func (f *fixture) buyBoard(t *testing.T, playerID, gameID string, numbers []int64, repeatWeeks int) string {
	t.Helper()
	board, err := f.boards.CreateBoard(context.Background(), boardservice.CreateBoardInput{
		PlayerID: playerID, GameID: gameID, Numbers: numbers, RepeatWeeks: repeatWeeks,
	})
	require.NoError(t, err)
	return board.ID
}

func TestGetActiveGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.games.GetActiveGame(ctx)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNoActiveRound, appErr.Code)

	f.store.AddActiveGame("g1", 10, 2026)
	game, err := f.games.GetActiveGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g1", game.ID)
}

func TestOpenNextRound(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps the first round from the calendar", func(t *testing.T) {
		f := newFixture()
		svc := f.games.(*gameService)
		svc.now = func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }

		game, err := f.games.OpenNextRound(ctx)
		require.NoError(t, err)
		assert.True(t, game.IsActive)

		wantWeek, wantYear := models.CurrentWeek(svc.now())
		assert.Equal(t, wantWeek, game.WeekNumber)
		assert.Equal(t, wantYear, game.Year)
	})

	t.Run("refuses while a round is active", func(t *testing.T) {
		f := newFixture()
		f.store.AddActiveGame("g1", 10, 2026)

		_, err := f.games.OpenNextRound(ctx)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeRoundAlreadyActive, appErr.Code)
	})

	t.Run("follows the latest round's week", func(t *testing.T) {
		f := newFixture()
		g := f.store.AddActiveGame("g1", 52, 2025)
		now := time.Now().UTC()
		g.IsActive = false
		g.ClosedAt = &now

		game, err := f.games.OpenNextRound(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, game.WeekNumber)
		assert.Equal(t, 2026, game.Year)
	})
}

func TestSetWinningNumbers(t *testing.T) {
	ctx := context.Background()

	t.Run("settles every board and closes the round", func(t *testing.T) {
		f := newFixture()
		f.store.AddPlayer("p1")
		f.store.AddPlayer("p2")
		f.store.AddActiveGame("g1", 10, 2026)
		f.store.AddApprovedDeposit("p1", 100)
		f.store.AddApprovedDeposit("p2", 100)

		winnerID := f.buyBoard(t, "p1", "g1", []int64{1, 2, 3, 4, 5}, 0)
		loserID := f.buyBoard(t, "p2", "g1", []int64{6, 7, 8, 9, 10}, 0)

		summary, err := f.games.SetWinningNumbers(ctx, "g1", []int64{2, 4, 5})
		require.NoError(t, err)
		assert.Equal(t, 2, summary.TotalBoards)
		assert.Equal(t, 1, summary.WinningBoards)
		assert.Equal(t, int64(40), summary.DigitalRevenue)
		assert.Equal(t, models.WinningNumbers{2, 4, 5}, summary.WinningNumbers)

		winner, err := f.store.GetBoardByID(ctx, winnerID)
		require.NoError(t, err)
		require.NotNil(t, winner.IsWinning)
		assert.True(t, *winner.IsWinning)

		loser, err := f.store.GetBoardByID(ctx, loserID)
		require.NoError(t, err)
		require.NotNil(t, loser.IsWinning)
		assert.False(t, *loser.IsWinning)

		game, err := f.store.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.True(t, game.IsClosed())
		assert.False(t, game.IsActive)
	})

	t.Run("a second close is a conflict, not a re-settlement", func(t *testing.T) {
		f := newFixture()
		f.store.AddPlayer("p1")
		f.store.AddActiveGame("g1", 10, 2026)
		f.store.AddApprovedDeposit("p1", 100)
		boardID := f.buyBoard(t, "p1", "g1", []int64{1, 2, 3, 4, 5}, 0)

		_, err := f.games.SetWinningNumbers(ctx, "g1", []int64{2, 4, 5})
		require.NoError(t, err)

		_, err = f.games.SetWinningNumbers(ctx, "g1", []int64{6, 7, 8})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeRoundAlreadyClosed, appErr.Code)

		// The first verdict stands.
		board, err := f.store.GetBoardByID(ctx, boardID)
		require.NoError(t, err)
		require.NotNil(t, board.IsWinning)
		assert.True(t, *board.IsWinning)
	})

	t.Run("rejects invalid winning numbers", func(t *testing.T) {
		f := newFixture()
		f.store.AddActiveGame("g1", 10, 2026)

		for _, numbers := range [][]int64{
			{1, 2},
			{1, 2, 3, 4},
			{3, 3, 5},
			{0, 2, 3},
			{1, 2, 21},
		} {
			_, err := f.games.SetWinningNumbers(ctx, "g1", numbers)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeInvalidWinningNumbers, appErr.Code)
		}

		// The round stays open after rejected draws.
		game, err := f.games.GetActiveGame(ctx)
		require.NoError(t, err)
		assert.Equal(t, "g1", game.ID)
	})

	t.Run("unknown round", func(t *testing.T) {
		f := newFixture()

		_, err := f.games.SetWinningNumbers(ctx, "missing", []int64{2, 4, 5})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsNotFound())
	})
}

func TestGetSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes the summary of a closed round", func(t *testing.T) {
		f := newFixture()
		f.store.AddPlayer("p1")
		f.store.AddActiveGame("g1", 10, 2026)
		f.store.AddApprovedDeposit("p1", 100)
		f.buyBoard(t, "p1", "g1", []int64{1, 2, 3, 4, 5}, 0)

		want, err := f.games.SetWinningNumbers(ctx, "g1", []int64{2, 4, 5})
		require.NoError(t, err)

		got, err := f.games.GetSettlement(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("open round has no settlement", func(t *testing.T) {
		f := newFixture()
		f.store.AddActiveGame("g1", 10, 2026)

		_, err := f.games.GetSettlement(ctx, "g1")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsConflict())
	})

	t.Run("unknown round", func(t *testing.T) {
		f := newFixture()

		_, err := f.games.GetSettlement(ctx, "missing")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsNotFound())
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	closedAt := time.Now().UTC()
	for i, wk := range []int{10, 11, 12} {
		g := f.store.AddActiveGame(string(rune('a'+i)), wk, 2026)
		g.IsActive = false
		g.ClosedAt = &closedAt
	}
	f.store.AddActiveGame("open", 13, 2026)

	games, err := f.games.GetHistory(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 12, games[0].WeekNumber)
	assert.Equal(t, 11, games[1].WeekNumber)

	games, err = f.games.GetHistory(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 10, games[0].WeekNumber)
}

// TestRoundLifecycle walks a board with two repeat weeks through three rounds:
// bought in week one, renewed twice, and the chain ends.
func TestRoundLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.games.(*gameService)

	// A strictly advancing clock keeps round creation order unambiguous.
	base := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	f.store.AddPlayer("p1")
	f.store.AddApprovedDeposit("p1", 100)

	week1, err := f.games.OpenNextRound(ctx)
	require.NoError(t, err)

	f.buyBoard(t, "p1", week1.ID, []int64{1, 2, 3, 4, 5}, 2)

	summary, err := f.games.SetWinningNumbers(ctx, week1.ID, []int64{2, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.WinningBoards)

	// Opening week two renews the board.
	week2, err := f.games.OpenNextRound(ctx)
	require.NoError(t, err)
	wantWeek, _ := week1.NextWeek()
	assert.Equal(t, wantWeek, week2.WeekNumber)

	week2Boards, err := f.store.ListByGame(ctx, week2.ID)
	require.NoError(t, err)
	require.Len(t, week2Boards, 1)
	assert.Equal(t, 1, week2Boards[0].RepeatWeeks)
	assert.True(t, week2Boards[0].RepeatActive)

	// The renewed board loses this week.
	summary, err = f.games.SetWinningNumbers(ctx, week2.ID, []int64{6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.WinningBoards)
	assert.Equal(t, 1, summary.TotalBoards)

	// Week three gets the final renewal; the chain is spent.
	week3, err := f.games.OpenNextRound(ctx)
	require.NoError(t, err)

	week3Boards, err := f.store.ListByGame(ctx, week3.ID)
	require.NoError(t, err)
	require.Len(t, week3Boards, 1)
	assert.Equal(t, 0, week3Boards[0].RepeatWeeks)
	assert.False(t, week3Boards[0].RepeatActive)

	_, err = f.games.SetWinningNumbers(ctx, week3.ID, []int64{6, 7, 8})
	require.NoError(t, err)

	// Week four: nothing left to renew.
	week4, err := f.games.OpenNextRound(ctx)
	require.NoError(t, err)

	week4Boards, err := f.store.ListByGame(ctx, week4.ID)
	require.NoError(t, err)
	assert.Empty(t, week4Boards)

	// Three boards at 20 each against the 100 deposit.
	balance, err := f.store.Balance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)
}
