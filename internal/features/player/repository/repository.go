package repository

import (
	"context"
	"errors"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/player/models"
)

var ErrPlayerNotFound = errors.New("player not found")
var ErrEmailTaken = errors.New("email already registered")

// PlayerRepository owns player records.
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	// GetByIDForUpdate locks the player row inside tx. It is the per-player
	// serialization point for the balance-check/board-write pair.
	GetByIDForUpdate(ctx context.Context, tx repository.Transaction, id string) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	SetActive(ctx context.Context, id string, active bool) error
}
