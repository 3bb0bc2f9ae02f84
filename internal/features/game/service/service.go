package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"club-lotto-backend/internal/common/config"
	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/logger"
	"club-lotto-backend/internal/common/repository"
	boardrepo "club-lotto-backend/internal/features/board/repository"
	boardservice "club-lotto-backend/internal/features/board/service"
	"club-lotto-backend/internal/features/game/models"
	gamerepo "club-lotto-backend/internal/features/game/repository"
	"club-lotto-backend/internal/platform/redis"
)

const (
	// closeLockTTL bounds the in-flight lock absorbing duplicate close
	// submissions. The database guard on closed_at stays authoritative.
	closeLockTTL = 30 * time.Second
)

type gameService struct {
	beginner  repository.Beginner
	gameRepo  gamerepo.GameRepository
	boardRepo boardrepo.BoardRepository
	renewer   boardservice.BoardService
	cache     *redis.Client
	cfg       *config.Config
	now       func() time.Time
}

// NewGameService builds the round manager. cache may be nil; settlement
// caching and the close lock then degrade to database-only behavior.
func NewGameService(
	beginner repository.Beginner,
	gameRepo gamerepo.GameRepository,
	boardRepo boardrepo.BoardRepository,
	renewer boardservice.BoardService,
	cache *redis.Client,
	cfg *config.Config,
) GameService {
	return &gameService{
		beginner:  beginner,
		gameRepo:  gameRepo,
		boardRepo: boardRepo,
		renewer:   renewer,
		cache:     cache,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *gameService) GetActiveGame(ctx context.Context) (*models.Game, error) {
	game, err := s.gameRepo.GetActive(ctx)
	if err != nil {
		if err == gamerepo.ErrNoActiveGame {
			return nil, apperrors.NewNoActiveRoundError()
		}
		return nil, apperrors.NewDatabaseError("get active game", err)
	}
	return game, nil
}

func (s *gameService) OpenNextRound(ctx context.Context) (*models.Game, error) {
	tx, err := s.beginner.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	active, err := s.gameRepo.GetActiveForUpdate(ctx, tx)
	if err != nil && err != gamerepo.ErrNoActiveGame {
		return nil, apperrors.NewDatabaseError("get active game", err)
	}
	if active != nil {
		return nil, apperrors.NewRoundAlreadyActiveError(active.ID)
	}

	now := s.now()
	var week, year int
	var previous *models.Game
	last, err := s.gameRepo.LatestTx(ctx, tx)
	switch err {
	case nil:
		week, year = last.NextWeek()
		previous = last
	case gamerepo.ErrGameNotFound:
		// Bootstrap: first round ever.
		week, year = models.CurrentWeek(now)
	default:
		return nil, apperrors.NewDatabaseError("get latest game", err)
	}

	game := &models.Game{
		ID:         uuid.New().String(),
		WeekNumber: week,
		Year:       year,
		IsActive:   true,
		CreatedAt:  now,
	}
	if err := s.gameRepo.CreateTx(ctx, tx, game); err != nil {
		return nil, apperrors.NewDatabaseError("create game", err)
	}

	// Renewal runs in the same transaction: the new round appears with its
	// renewed boards or not at all.
	if previous != nil {
		if _, err := s.renewer.RenewBoards(ctx, tx, previous.ID, game.ID, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTransactionFailed, "Failed to commit round opening")
	}

	logger.Info().
		Str("game_id", game.ID).
		Int("week_number", game.WeekNumber).
		Int("year", game.Year).
		Msg("Round opened")

	return game, nil
}

func (s *gameService) SetWinningNumbers(ctx context.Context, gameID string, numbers []int64) (*models.SettlementSummary, error) {
	winning := models.WinningNumbers(numbers)
	if err := winning.Validate(s.cfg.Lotto.PoolSize); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidWinningNumbers, "Invalid winning numbers")
	}

	// Best-effort lock so a double-submitted close fails fast instead of
	// queueing on the row lock.
	if s.cache != nil {
		lockKey := closeLockKey(gameID)
		ok, err := s.cache.AcquireLock(ctx, lockKey, closeLockTTL)
		if err == nil && !ok {
			return nil, apperrors.NewRoundAlreadyClosedError(gameID).
				WithDetail("reason", "close already in flight")
		}
		if err == nil {
			defer s.cache.ReleaseLock(ctx, lockKey)
		}
	}

	tx, err := s.beginner.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	game, err := s.gameRepo.GetByIDForUpdate(ctx, tx, gameID)
	if err != nil {
		if err == gamerepo.ErrGameNotFound {
			return nil, apperrors.NewRoundNotFoundError(gameID)
		}
		return nil, apperrors.NewDatabaseError("get game", err)
	}
	if game.IsClosed() {
		return nil, apperrors.NewRoundAlreadyClosedError(gameID)
	}

	summary, err := s.settle(ctx, tx, game, winning)
	if err != nil {
		return nil, err
	}

	closed, err := s.gameRepo.CloseTx(ctx, tx, gameID, winning, s.now())
	if err != nil {
		return nil, apperrors.NewDatabaseError("close game", err)
	}
	if !closed {
		// Row lock is held, so this only happens when a concurrent close
		// committed between our read and write. Treat as already closed.
		return nil, apperrors.NewRoundAlreadyClosedError(gameID)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTransactionFailed, "Failed to commit settlement")
	}

	s.cacheSummary(ctx, summary)

	logger.Info().
		Str("game_id", gameID).
		Int("total_boards", summary.TotalBoards).
		Int("winning_boards", summary.WinningBoards).
		Int64("digital_revenue", summary.DigitalRevenue).
		Msg("Round closed and settled")

	return summary, nil
}

// settle computes and persists the per-board verdicts and aggregates the
// settlement summary. Pure subset matching; safe to re-run before the close
// commits.
func (s *gameService) settle(ctx context.Context, tx repository.Transaction, game *models.Game, winning models.WinningNumbers) (*models.SettlementSummary, error) {
	boards, err := s.boardRepo.ListByGameTx(ctx, tx, game.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list boards", err)
	}

	summary := &models.SettlementSummary{
		GameID:         game.ID,
		WeekNumber:     game.WeekNumber,
		Year:           game.Year,
		WinningNumbers: winning,
	}
	for _, board := range boards {
		win := winning.Covers(board.Numbers)
		if err := s.boardRepo.SetWinningTx(ctx, tx, board.ID, win); err != nil {
			return nil, apperrors.NewDatabaseError("set board verdict", err)
		}
		summary.TotalBoards++
		summary.DigitalRevenue += board.Price
		if win {
			summary.WinningBoards++
		}
	}
	return summary, nil
}

func (s *gameService) GetSettlement(ctx context.Context, gameID string) (*models.SettlementSummary, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, settlementKey(gameID)).Bytes(); err == nil && len(data) > 0 {
			var summary models.SettlementSummary
			if json.Unmarshal(data, &summary) == nil {
				return &summary, nil
			}
		}
	}

	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if err == gamerepo.ErrGameNotFound {
			return nil, apperrors.NewRoundNotFoundError(gameID)
		}
		return nil, apperrors.NewDatabaseError("get game", err)
	}
	if !game.IsClosed() {
		return nil, apperrors.New(apperrors.ErrCodeRoundNotOpen, "Round is not settled yet").
			WithDetail("game_id", gameID)
	}

	boards, err := s.boardRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list boards", err)
	}

	summary := &models.SettlementSummary{
		GameID:         game.ID,
		WeekNumber:     game.WeekNumber,
		Year:           game.Year,
		WinningNumbers: game.WinningNumbers,
	}
	for _, board := range boards {
		summary.TotalBoards++
		summary.DigitalRevenue += board.Price
		if board.IsWinning != nil && *board.IsWinning {
			summary.WinningBoards++
		}
	}

	s.cacheSummary(ctx, summary)
	return summary, nil
}

func (s *gameService) GetHistory(ctx context.Context, limit, offset int) ([]*models.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	games, err := s.gameRepo.ListClosed(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list closed games", err)
	}
	return games, nil
}

// cacheSummary stores a settled round's summary. Summaries are immutable once
// the round is closed, so no TTL.
func (s *gameService) cacheSummary(ctx context.Context, summary *models.SettlementSummary) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, settlementKey(summary.GameID), data, 0).Err(); err != nil {
		logger.Warn().Str("game_id", summary.GameID).Err(err).Msg("Failed to cache settlement summary")
	}
}

func settlementKey(gameID string) string {
	return fmt.Sprintf("settlement:%s", gameID)
}

func closeLockKey(gameID string) string {
	return fmt.Sprintf("lock:close:%s", gameID)
}
