package service

import (
	"context"

	"club-lotto-backend/internal/features/game/models"
)

// GameService is the game round manager: it owns the single-active-round
// invariant, round opening with board renewal, and close-and-settle.
type GameService interface {
	// GetActiveGame returns the round currently open for purchases.
	GetActiveGame(ctx context.Context) (*models.Game, error)

	// OpenNextRound creates the round for the (week, year) following the most
	// recently created game and runs the board renewal pass into it.
	OpenNextRound(ctx context.Context) (*models.Game, error)

	// SetWinningNumbers closes a round: stores the drawn numbers, settles
	// every board, and returns the settlement summary. Close and settle are
	// one transaction; a retry against a closed round reports a conflict and
	// never re-settles.
	SetWinningNumbers(ctx context.Context, gameID string, numbers []int64) (*models.SettlementSummary, error)

	// GetSettlement returns the settlement summary of a closed round.
	GetSettlement(ctx context.Context, gameID string) (*models.SettlementSummary, error)

	// GetHistory returns closed rounds ordered by (year, week) descending.
	GetHistory(ctx context.Context, limit, offset int) ([]*models.Game, error)
}
