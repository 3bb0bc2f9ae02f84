package repository

import (
	"context"
	"errors"
	"time"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/game/models"
)

var ErrGameNotFound = errors.New("game not found")
var ErrNoActiveGame = errors.New("no active game")

// GameRepository owns game-round records.
type GameRepository interface {
	CreateTx(ctx context.Context, tx repository.Transaction, game *models.Game) error
	GetByID(ctx context.Context, id string) (*models.Game, error)
	GetActive(ctx context.Context) (*models.Game, error)

	// GetActiveForUpdate locks the active game row exclusively inside tx.
	// Opening and closing rounds go through this lock.
	GetActiveForUpdate(ctx context.Context, tx repository.Transaction) (*models.Game, error)
	// GetActiveForShare takes a shared lock on the active game row inside tx.
	// Purchases hold it so they fully precede or follow a close-and-settle.
	GetActiveForShare(ctx context.Context, tx repository.Transaction) (*models.Game, error)
	// GetByIDForUpdate locks an arbitrary game row exclusively inside tx.
	GetByIDForUpdate(ctx context.Context, tx repository.Transaction, id string) (*models.Game, error)

	// LatestTx returns the most recently created game, locking it against a
	// concurrent open of the same successor week.
	LatestTx(ctx context.Context, tx repository.Transaction) (*models.Game, error)

	// CloseTx stores the winning numbers and the closed timestamp, and clears
	// is_active, guarded by closed_at IS NULL. It reports whether the row
	// transitioned (false means the game was already closed).
	CloseTx(ctx context.Context, tx repository.Transaction, id string, winning models.WinningNumbers, closedAt time.Time) (bool, error)

	// ListClosed returns settled games ordered by (year, week) descending.
	ListClosed(ctx context.Context, limit, offset int) ([]*models.Game, error)
}
