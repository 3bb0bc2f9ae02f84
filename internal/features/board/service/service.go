package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"club-lotto-backend/internal/common/config"
	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/logger"
	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/board/models"
	boardrepo "club-lotto-backend/internal/features/board/repository"
	gamerepo "club-lotto-backend/internal/features/game/repository"
	playerrepo "club-lotto-backend/internal/features/player/repository"
	walletrepo "club-lotto-backend/internal/features/wallet/repository"
)

type boardService struct {
	beginner   repository.Beginner
	boardRepo  boardrepo.BoardRepository
	gameRepo   gamerepo.GameRepository
	playerRepo playerrepo.PlayerRepository
	walletRepo walletrepo.TransactionRepository
	cfg        *config.Config
}

func NewBoardService(
	beginner repository.Beginner,
	boardRepo boardrepo.BoardRepository,
	gameRepo gamerepo.GameRepository,
	playerRepo playerrepo.PlayerRepository,
	walletRepo walletrepo.TransactionRepository,
	cfg *config.Config,
) BoardService {
	return &boardService{
		beginner:   beginner,
		boardRepo:  boardRepo,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		walletRepo: walletRepo,
		cfg:        cfg,
	}
}

func (s *boardService) CreateBoard(ctx context.Context, input CreateBoardInput) (*models.Board, error) {
	if err := models.ValidateNumbers(input.Numbers, s.cfg.Lotto.PoolSize); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidNumberSelection, "Invalid number selection")
	}
	if input.RepeatWeeks < 0 {
		return nil, apperrors.NewValidationError("repeat_weeks", "cannot be negative")
	}

	price, err := s.cfg.PriceFor(len(input.Numbers))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidNumberSelection, "Invalid number selection")
	}

	tx, err := s.beginner.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	// Shared lock on the open round: a purchase fully precedes or follows a
	// close-and-settle, which takes the exclusive lock.
	game, err := s.gameRepo.GetActiveForShare(ctx, tx)
	if err != nil {
		if err == gamerepo.ErrNoActiveGame {
			return nil, apperrors.NewRoundNotOpenError(input.GameID)
		}
		return nil, apperrors.NewDatabaseError("get active game", err)
	}
	if game.ID != input.GameID {
		return nil, apperrors.NewRoundNotOpenError(input.GameID)
	}

	// Exclusive lock on the player serializes the read-balance/write-board
	// pair against concurrent purchases for the same player.
	player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, input.PlayerID)
	if err != nil {
		if err == playerrepo.ErrPlayerNotFound {
			return nil, apperrors.NewPlayerNotFoundError(input.PlayerID)
		}
		return nil, apperrors.NewDatabaseError("get player", err)
	}
	if !player.IsActive {
		return nil, apperrors.NewPlayerInactiveError(input.PlayerID)
	}

	balance, err := s.walletRepo.BalanceTx(ctx, tx, input.PlayerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("compute balance", err)
	}
	if balance < price {
		return nil, apperrors.NewInsufficientBalanceError(balance, price)
	}

	board := &models.Board{
		ID:           uuid.New().String(),
		PlayerID:     input.PlayerID,
		GameID:       game.ID,
		Numbers:      input.Numbers,
		Price:        price,
		RepeatWeeks:  input.RepeatWeeks,
		RepeatActive: input.RepeatWeeks > 0,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.boardRepo.CreateTx(ctx, tx, board); err != nil {
		return nil, apperrors.NewDatabaseError("create board", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTransactionFailed, "Failed to commit board purchase")
	}

	logger.Info().
		Str("board_id", board.ID).
		Str("player_id", board.PlayerID).
		Str("game_id", board.GameID).
		Int64("price", board.Price).
		Int("repeat_weeks", board.RepeatWeeks).
		Msg("Board purchased")

	return board, nil
}

func (s *boardService) GetBoardsForGame(ctx context.Context, gameID string) ([]*models.Board, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if err == gamerepo.ErrGameNotFound {
			return nil, apperrors.NewRoundNotFoundError(gameID)
		}
		return nil, apperrors.NewDatabaseError("get game", err)
	}
	boards, err := s.boardRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list boards", err)
	}
	return boards, nil
}

func (s *boardService) GetBoardsForPlayer(ctx context.Context, playerID string) ([]*models.Board, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if err == playerrepo.ErrPlayerNotFound {
			return nil, apperrors.NewPlayerNotFoundError(playerID)
		}
		return nil, apperrors.NewDatabaseError("get player", err)
	}
	boards, err := s.boardRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list boards", err)
	}
	return boards, nil
}

func (s *boardService) RenewBoards(ctx context.Context, tx repository.Transaction, fromGameID, toGameID string, now time.Time) (*RenewalReport, error) {
	sources, err := s.boardRepo.ListRenewableTx(ctx, tx, fromGameID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list renewable boards", err)
	}

	report := &RenewalReport{}
	for _, source := range sources {
		price, err := s.cfg.PriceFor(len(source.Numbers))
		if err != nil {
			// A stored board can only violate the price table if the
			// configuration shrank; end the chain rather than guess.
			logger.Warn().Str("board_id", source.ID).Err(err).Msg("Renewal skipped, no price for board")
			if err := s.boardRepo.DeactivateRepeatTx(ctx, tx, source.ID); err != nil {
				return nil, apperrors.NewDatabaseError("deactivate repeat chain", err)
			}
			report.Ended++
			continue
		}

		player, err := s.playerRepo.GetByIDForUpdate(ctx, tx, source.PlayerID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("get player", err)
		}

		balance, err := s.walletRepo.BalanceTx(ctx, tx, source.PlayerID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("compute balance", err)
		}
		if !player.IsActive || balance < price {
			if err := s.boardRepo.DeactivateRepeatTx(ctx, tx, source.ID); err != nil {
				return nil, apperrors.NewDatabaseError("deactivate repeat chain", err)
			}
			report.Ended++
			logger.Info().
				Str("board_id", source.ID).
				Str("player_id", source.PlayerID).
				Bool("player_active", player.IsActive).
				Int64("balance", balance).
				Int64("price", price).
				Msg("Repeat chain ended")
			continue
		}

		renewal := source.Renewal(uuid.New().String(), toGameID, price, now)
		created, err := s.boardRepo.CreateRenewalTx(ctx, tx, renewal)
		if err != nil {
			return nil, apperrors.NewDatabaseError("create renewal board", err)
		}
		if !created {
			report.Skipped++
			continue
		}
		report.Renewed++
	}

	logger.Info().
		Str("from_game_id", fromGameID).
		Str("to_game_id", toGameID).
		Int("renewed", report.Renewed).
		Int("ended", report.Ended).
		Int("skipped", report.Skipped).
		Msg("Renewal pass completed")

	return report, nil
}
