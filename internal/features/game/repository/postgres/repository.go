package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/game/models"
	gamerepo "club-lotto-backend/internal/features/game/repository"
	"club-lotto-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) gamerepo.GameRepository {
	return &postgresRepository{db: db}
}

const gameColumns = `id, week_number, year, winning_numbers, is_active, created_at, closed_at`

func (r *postgresRepository) CreateTx(ctx context.Context, tx repository.Transaction, game *models.Game) error {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO games (id, week_number, year, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = sqlTx.ExecContext(ctx, query,
		game.ID, game.WeekNumber, game.Year, game.IsActive, game.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) GetActive(ctx context.Context) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE is_active`
	game, err := scanGame(r.db.QueryRowContext(ctx, query))
	if err == gamerepo.ErrGameNotFound {
		return nil, gamerepo.ErrNoActiveGame
	}
	return game, err
}

func (r *postgresRepository) GetActiveForUpdate(ctx context.Context, tx repository.Transaction) (*models.Game, error) {
	return r.getActiveLocked(ctx, tx, "FOR UPDATE")
}

func (r *postgresRepository) GetActiveForShare(ctx context.Context, tx repository.Transaction) (*models.Game, error) {
	return r.getActiveLocked(ctx, tx, "FOR SHARE")
}

func (r *postgresRepository) getActiveLocked(ctx context.Context, tx repository.Transaction, lock string) (*models.Game, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + gameColumns + ` FROM games WHERE is_active ` + lock
	game, err := scanGame(sqlTx.QueryRowContext(ctx, query))
	if err == gamerepo.ErrGameNotFound {
		return nil, gamerepo.ErrNoActiveGame
	}
	return game, err
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx repository.Transaction, id string) (*models.Game, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`
	return scanGame(sqlTx.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) LatestTx(ctx context.Context, tx repository.Transaction) (*models.Game, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC LIMIT 1 FOR UPDATE`
	return scanGame(sqlTx.QueryRowContext(ctx, query))
}

func (r *postgresRepository) CloseTx(ctx context.Context, tx repository.Transaction, id string, winning models.WinningNumbers, closedAt time.Time) (bool, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return false, err
	}

	// closed_at IS NULL makes the transition one-way regardless of retries.
	query := `
		UPDATE games
		SET winning_numbers = $2, closed_at = $3, is_active = FALSE
		WHERE id = $1 AND closed_at IS NULL
	`
	res, err := sqlTx.ExecContext(ctx, query, id, pq.Array([]int64(winning)), closedAt)
	if err != nil {
		return false, fmt.Errorf("failed to close game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresRepository) ListClosed(ctx context.Context, limit, offset int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE closed_at IS NOT NULL
		ORDER BY year DESC, week_number DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*models.Game, error) {
	var game models.Game
	var winning pq.Int64Array
	var closedAt sql.NullTime
	err := row.Scan(&game.ID, &game.WeekNumber, &game.Year, &winning,
		&game.IsActive, &game.CreatedAt, &closedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, gamerepo.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	if winning != nil {
		game.WinningNumbers = models.WinningNumbers(winning)
	}
	if closedAt.Valid {
		t := closedAt.Time
		game.ClosedAt = &t
	}
	return &game, nil
}
