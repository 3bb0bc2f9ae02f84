package service

import (
	"context"
	"time"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/board/models"
)

// CreateBoardInput is a board purchase request.
type CreateBoardInput struct {
	PlayerID    string
	GameID      string
	Numbers     []int64
	RepeatWeeks int
}

// RenewalReport summarizes one renewal pass.
type RenewalReport struct {
	Renewed int `json:"renewed"`
	// Ended counts chains stopped because the balance no longer covered the
	// board price.
	Ended int `json:"ended"`
	// Skipped counts boards already renewed by an earlier run.
	Skipped int `json:"skipped"`
}

// BoardService is the board store: purchase admission and the repeat-weeks
// renewal policy.
type BoardService interface {
	CreateBoard(ctx context.Context, input CreateBoardInput) (*models.Board, error)
	GetBoardsForGame(ctx context.Context, gameID string) ([]*models.Board, error)
	GetBoardsForPlayer(ctx context.Context, playerID string) ([]*models.Board, error)

	// RenewBoards copies the repeat-active boards of fromGameID into toGameID
	// inside the caller's transaction. Chains whose balance check fails are
	// ended, never surfaced as an error: a renewal failure must not block the
	// round opening for other players.
	RenewBoards(ctx context.Context, tx repository.Transaction, fromGameID, toGameID string, now time.Time) (*RenewalReport, error)
}
