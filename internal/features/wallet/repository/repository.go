package repository

import (
	"context"
	"errors"
	"time"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/wallet/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository owns deposit-request records and the derived balance.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)

	// SettleIfPending performs the atomic pending-to-terminal transition. It
	// reports false when the row is missing or no longer pending; the caller
	// re-reads to distinguish the two.
	SettleIfPending(ctx context.Context, id string, status models.TransactionStatus, approvedAt *time.Time) (bool, error)

	ListPending(ctx context.Context) ([]*models.Transaction, error)
	ListForPlayer(ctx context.Context, playerID string) ([]*models.Transaction, error)

	// Balance computes approved deposits minus all board spend for a player.
	Balance(ctx context.Context, playerID string) (int64, error)
	// BalanceTx computes the same inside a caller-owned transaction, so the
	// admission check reads the state it is about to write against.
	BalanceTx(ctx context.Context, dbtx repository.Transaction, playerID string) (int64, error)

	// RejectStalePending rejects pending requests created before the cutoff and
	// returns how many rows transitioned.
	RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
