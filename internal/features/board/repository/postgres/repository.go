package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/board/models"
	boardrepo "club-lotto-backend/internal/features/board/repository"
	"club-lotto-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) boardrepo.BoardRepository {
	return &postgresRepository{db: db}
}

const boardColumns = `id, player_id, game_id, numbers, price, is_winning, repeat_weeks, repeat_active, source_board_id, created_at`

func (r *postgresRepository) CreateTx(ctx context.Context, tx repository.Transaction, board *models.Board) error {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO boards (id, player_id, game_id, numbers, price, repeat_weeks, repeat_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = sqlTx.ExecContext(ctx, query,
		board.ID, board.PlayerID, board.GameID, pq.Array(board.Numbers),
		board.Price, board.RepeatWeeks, board.RepeatActive, board.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`
	return scanBoard(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) ListByGame(ctx context.Context, gameID string) ([]*models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE game_id = $1 ORDER BY created_at ASC`
	return r.queryBoards(ctx, r.db.QueryContext, query, gameID)
}

func (r *postgresRepository) ListByGameTx(ctx context.Context, tx repository.Transaction, gameID string) ([]*models.Board, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + boardColumns + ` FROM boards WHERE game_id = $1 ORDER BY created_at ASC`
	return r.queryBoards(ctx, sqlTx.QueryContext, query, gameID)
}

func (r *postgresRepository) ListByPlayer(ctx context.Context, playerID string) ([]*models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE player_id = $1 ORDER BY created_at ASC`
	return r.queryBoards(ctx, r.db.QueryContext, query, playerID)
}

func (r *postgresRepository) SetWinningTx(ctx context.Context, tx repository.Transaction, boardID string, winning bool) error {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return err
	}

	res, err := sqlTx.ExecContext(ctx,
		`UPDATE boards SET is_winning = $2 WHERE id = $1`, boardID, winning)
	if err != nil {
		return fmt.Errorf("failed to set board verdict: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return boardrepo.ErrBoardNotFound
	}
	return nil
}

func (r *postgresRepository) ListRenewableTx(ctx context.Context, tx repository.Transaction, gameID string) ([]*models.Board, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + boardColumns + `
		FROM boards
		WHERE game_id = $1 AND repeat_active AND repeat_weeks > 0
		ORDER BY created_at ASC
	`
	return r.queryBoards(ctx, sqlTx.QueryContext, query, gameID)
}

func (r *postgresRepository) CreateRenewalTx(ctx context.Context, tx repository.Transaction, board *models.Board) (bool, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return false, err
	}

	// The (game_id, source_board_id) unique index is the idempotency key: a
	// re-run of the renewal pass inserts nothing.
	query := `
		INSERT INTO boards (id, player_id, game_id, numbers, price, repeat_weeks, repeat_active, source_board_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, source_board_id) WHERE source_board_id IS NOT NULL DO NOTHING
	`
	res, err := sqlTx.ExecContext(ctx, query,
		board.ID, board.PlayerID, board.GameID, pq.Array(board.Numbers),
		board.Price, board.RepeatWeeks, board.RepeatActive, board.SourceBoardID, board.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create renewal board: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresRepository) DeactivateRepeatTx(ctx context.Context, tx repository.Transaction, boardID string) error {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return err
	}

	_, err = sqlTx.ExecContext(ctx,
		`UPDATE boards SET repeat_active = FALSE WHERE id = $1`, boardID)
	if err != nil {
		return fmt.Errorf("failed to deactivate repeat chain: %w", err)
	}
	return nil
}

type queryFunc func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *postgresRepository) queryBoards(ctx context.Context, query queryFunc, stmt string, arg interface{}) ([]*models.Board, error) {
	rows, err := query(ctx, stmt, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBoard(row rowScanner) (*models.Board, error) {
	var board models.Board
	var numbers pq.Int64Array
	var isWinning sql.NullBool
	var sourceID sql.NullString
	err := row.Scan(&board.ID, &board.PlayerID, &board.GameID, &numbers, &board.Price,
		&isWinning, &board.RepeatWeeks, &board.RepeatActive, &sourceID, &board.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, boardrepo.ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to scan board: %w", err)
	}
	board.Numbers = []int64(numbers)
	if isWinning.Valid {
		v := isWinning.Bool
		board.IsWinning = &v
	}
	if sourceID.Valid {
		board.SourceBoardID = sourceID.String
	}
	return &board, nil
}
