package repository

import (
	"context"
	"errors"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/board/models"
)

var ErrBoardNotFound = errors.New("board not found")

// BoardRepository owns board records.
type BoardRepository interface {
	CreateTx(ctx context.Context, tx repository.Transaction, board *models.Board) error
	GetByID(ctx context.Context, id string) (*models.Board, error)
	ListByGame(ctx context.Context, gameID string) ([]*models.Board, error)
	ListByGameTx(ctx context.Context, tx repository.Transaction, gameID string) ([]*models.Board, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*models.Board, error)

	// SetWinningTx writes the settlement verdict for one board.
	SetWinningTx(ctx context.Context, tx repository.Transaction, boardID string, winning bool) error

	// ListRenewableTx returns the boards of a round whose repeat chain is still
	// alive, ordered by creation time.
	ListRenewableTx(ctx context.Context, tx repository.Transaction, gameID string) ([]*models.Board, error)

	// CreateRenewalTx inserts a renewal copy. It reports false without error
	// when the (game, source board) pair already exists, which makes the
	// renewal pass safe to re-run.
	CreateRenewalTx(ctx context.Context, tx repository.Transaction, board *models.Board) (bool, error)

	// DeactivateRepeatTx ends a board's repeat chain.
	DeactivateRepeatTx(ctx context.Context, tx repository.Transaction, boardID string) error
}
