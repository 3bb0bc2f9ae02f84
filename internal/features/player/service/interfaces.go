package service

import (
	"context"

	"club-lotto-backend/internal/features/player/models"
)

// PlayerInput carries the profile fields for create and update.
type PlayerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// PlayerService manages club members.
type PlayerService interface {
	Create(ctx context.Context, input PlayerInput) (*models.Player, error)
	Get(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	Update(ctx context.Context, id string, input PlayerInput) (*models.Player, error)
	// Deactivate soft-deletes a player: history stays, new boards and deposits
	// are refused.
	Deactivate(ctx context.Context, id string) error
}
