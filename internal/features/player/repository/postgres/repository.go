package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/player/models"
	playerrepo "club-lotto-backend/internal/features/player/repository"
	"club-lotto-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) playerrepo.PlayerRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, first_name, last_name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		player.ID, player.FirstName, player.LastName, player.Email, player.Phone,
		player.IsActive, player.CreatedAt, player.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return playerrepo.ErrEmailTaken
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, is_active, created_at, updated_at
		FROM players
		WHERE id = $1
	`
	return scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx repository.Transaction, id string) (*models.Player, error) {
	sqlTx, err := postgres.Unwrap(tx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, first_name, last_name, email, phone, is_active, created_at, updated_at
		FROM players
		WHERE id = $1
		FOR UPDATE
	`
	return scanPlayer(sqlTx.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, is_active, created_at, updated_at
		FROM players
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		player.ID, player.FirstName, player.LastName, player.Email, player.Phone)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return playerrepo.ErrEmailTaken
		}
		return fmt.Errorf("failed to update player: %w", err)
	}
	return requireRow(res)
}

func (r *postgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to set player active flag: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var player models.Player
	err := row.Scan(&player.ID, &player.FirstName, &player.LastName, &player.Email,
		&player.Phone, &player.IsActive, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, playerrepo.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return &player, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return playerrepo.ErrPlayerNotFound
	}
	return nil
}
