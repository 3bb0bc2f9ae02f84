package postgres

import (
	"context"
	"fmt"

	"club-lotto-backend/internal/common/logger"
)

// migrations are applied in order at startup when DB_AUTO_MIGRATE is set.
// Each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id          UUID PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_players_email ON players (LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS games (
		id              UUID PRIMARY KEY,
		week_number     INT NOT NULL,
		year            INT NOT NULL,
		winning_numbers INT[],
		is_active       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		closed_at       TIMESTAMPTZ,
		UNIQUE (week_number, year)
	)`,
	// At most one open round, enforced by the storage engine itself.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_games_single_active ON games (is_active) WHERE is_active`,

	`CREATE TABLE IF NOT EXISTS boards (
		id              UUID PRIMARY KEY,
		player_id       UUID NOT NULL REFERENCES players(id),
		game_id         UUID NOT NULL REFERENCES games(id),
		numbers         INT[] NOT NULL,
		price           BIGINT NOT NULL,
		is_winning      BOOLEAN,
		repeat_weeks    INT NOT NULL DEFAULT 0,
		repeat_active   BOOLEAN NOT NULL DEFAULT FALSE,
		source_board_id UUID REFERENCES boards(id),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_game ON boards (game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_player ON boards (player_id)`,
	// Renewal idempotency: a source board spawns at most one copy per round.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_boards_renewal_once ON boards (game_id, source_board_id)
		WHERE source_board_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id                UUID PRIMARY KEY,
		player_id         UUID NOT NULL REFERENCES players(id),
		mobile_pay_number TEXT NOT NULL,
		amount            BIGINT NOT NULL CHECK (amount > 0),
		status            TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		approved_at       TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_player ON transactions (player_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_pending ON transactions (created_at) WHERE status = 'pending'`,
}

// Migrate applies the schema migrations.
func (c *Client) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	logger.Info().Int("statements", len(migrations)).Msg("Database migrations applied")
	return nil
}
