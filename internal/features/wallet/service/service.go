package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/logger"
	"club-lotto-backend/internal/common/validation"
	"club-lotto-backend/internal/features/player/repository"
	"club-lotto-backend/internal/features/wallet/models"
	walletrepo "club-lotto-backend/internal/features/wallet/repository"
)

type walletService struct {
	txRepo     walletrepo.TransactionRepository
	playerRepo repository.PlayerRepository
}

func NewWalletService(txRepo walletrepo.TransactionRepository, playerRepo repository.PlayerRepository) WalletService {
	return &walletService{
		txRepo:     txRepo,
		playerRepo: playerRepo,
	}
}

func (s *walletService) CreateTransaction(ctx context.Context, playerID, mobilePayNumber string, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidAmount, "Deposit amount must be positive").
			WithDetail("amount", amount)
	}
	if err := validation.ValidateMobilePayNumber(mobilePayNumber); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidMobilePayNumber, "Invalid MobilePay number")
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if err == repository.ErrPlayerNotFound {
			return nil, apperrors.NewPlayerNotFoundError(playerID)
		}
		return nil, apperrors.NewDatabaseError("get player", err)
	}
	if !player.IsActive {
		return nil, apperrors.NewPlayerInactiveError(playerID)
	}

	tx := &models.Transaction{
		ID:              uuid.New().String(),
		PlayerID:        playerID,
		MobilePayNumber: mobilePayNumber,
		Amount:          amount,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, apperrors.NewDatabaseError("create transaction", err)
	}

	logger.Info().
		Str("transaction_id", tx.ID).
		Str("player_id", playerID).
		Int64("amount", amount).
		Msg("Deposit request created")

	return tx, nil
}

func (s *walletService) Approve(ctx context.Context, id string) (*models.Transaction, error) {
	now := time.Now().UTC()
	return s.settle(ctx, id, models.StatusApproved, &now)
}

func (s *walletService) Reject(ctx context.Context, id string) (*models.Transaction, error) {
	return s.settle(ctx, id, models.StatusRejected, nil)
}

func (s *walletService) settle(ctx context.Context, id string, status models.TransactionStatus, approvedAt *time.Time) (*models.Transaction, error) {
	settled, err := s.txRepo.SettleIfPending(ctx, id, status, approvedAt)
	if err != nil {
		return nil, apperrors.NewDatabaseError("settle transaction", err)
	}
	if !settled {
		// The compare-and-set missed: the row is gone or already terminal.
		existing, err := s.txRepo.GetByID(ctx, id)
		if err != nil {
			if err == walletrepo.ErrTransactionNotFound {
				return nil, apperrors.NewTransactionNotFoundError(id)
			}
			return nil, apperrors.NewDatabaseError("get transaction", err)
		}
		return nil, apperrors.NewTransactionNotPendingError(id, string(existing.Status))
	}

	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get transaction", err)
	}

	logger.Info().
		Str("transaction_id", id).
		Str("status", string(status)).
		Msg("Deposit request settled")

	return tx, nil
}

func (s *walletService) GetBalance(ctx context.Context, playerID string) (*models.Balance, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if err == repository.ErrPlayerNotFound {
			return nil, apperrors.NewPlayerNotFoundError(playerID)
		}
		return nil, apperrors.NewDatabaseError("get player", err)
	}

	available, err := s.txRepo.Balance(ctx, playerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("compute balance", err)
	}
	return &models.Balance{PlayerID: playerID, Available: available}, nil
}

func (s *walletService) ListPending(ctx context.Context) ([]*models.Transaction, error) {
	txs, err := s.txRepo.ListPending(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list pending transactions", err)
	}
	return txs, nil
}

func (s *walletService) ListForPlayer(ctx context.Context, playerID string) ([]*models.Transaction, error) {
	txs, err := s.txRepo.ListForPlayer(ctx, playerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list player transactions", err)
	}
	return txs, nil
}
