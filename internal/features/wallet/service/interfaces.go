package service

import (
	"context"

	"club-lotto-backend/internal/features/wallet/models"
)

// WalletService is the deposit workflow plus the derived balance ledger.
type WalletService interface {
	// CreateTransaction registers a pending deposit request. It does not
	// affect the balance until approved.
	CreateTransaction(ctx context.Context, playerID, mobilePayNumber string, amount int64) (*models.Transaction, error)

	// Approve moves a pending request to approved. The only operation that
	// increases a player's balance.
	Approve(ctx context.Context, id string) (*models.Transaction, error)

	// Reject moves a pending request to rejected. No balance effect.
	Reject(ctx context.Context, id string) (*models.Transaction, error)

	// GetBalance recomputes the player's spendable balance.
	GetBalance(ctx context.Context, playerID string) (*models.Balance, error)

	ListPending(ctx context.Context) ([]*models.Transaction, error)
	ListForPlayer(ctx context.Context, playerID string) ([]*models.Transaction, error)
}
