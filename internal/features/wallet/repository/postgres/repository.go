package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"club-lotto-backend/internal/common/repository"
	"club-lotto-backend/internal/features/wallet/models"
	walletrepo "club-lotto-backend/internal/features/wallet/repository"
	"club-lotto-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) walletrepo.TransactionRepository {
	return &postgresRepository{db: db}
}

const txColumns = `id, player_id, mobile_pay_number, amount, status, created_at, approved_at`

// balanceQuery derives the spendable balance: approved deposits minus the
// price of every board ever created for the player. Never cached.
const balanceQuery = `
	SELECT COALESCE((SELECT SUM(amount) FROM transactions WHERE player_id = $1 AND status = 'approved'), 0)
	     - COALESCE((SELECT SUM(price) FROM boards WHERE player_id = $1), 0)
`

func (r *postgresRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, player_id, mobile_pay_number, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.PlayerID, tx.MobilePayNumber, tx.Amount, string(tx.Status), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) SettleIfPending(ctx context.Context, id string, status models.TransactionStatus, approvedAt *time.Time) (bool, error) {
	// Single compare-and-set statement; two concurrent approvals cannot both
	// see a pending row.
	query := `
		UPDATE transactions
		SET status = $2, approved_at = $3
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, query, id, string(status), approvedAt)
	if err != nil {
		return false, fmt.Errorf("failed to settle transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresRepository) ListPending(ctx context.Context) ([]*models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE status = 'pending' ORDER BY created_at ASC`
	return r.queryTransactions(ctx, query)
}

func (r *postgresRepository) ListForPlayer(ctx context.Context, playerID string) ([]*models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE player_id = $1 ORDER BY created_at ASC`
	return r.queryTransactions(ctx, query, playerID)
}

func (r *postgresRepository) Balance(ctx context.Context, playerID string) (int64, error) {
	var balance int64
	if err := r.db.QueryRowContext(ctx, balanceQuery, playerID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (r *postgresRepository) BalanceTx(ctx context.Context, dbtx repository.Transaction, playerID string) (int64, error) {
	sqlTx, err := postgres.Unwrap(dbtx)
	if err != nil {
		return 0, err
	}

	var balance int64
	if err := sqlTx.QueryRowContext(ctx, balanceQuery, playerID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (r *postgresRepository) RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = 'rejected'
		WHERE status = 'pending' AND created_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reject stale transactions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

func (r *postgresRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var status string
	var approvedAt sql.NullTime
	err := row.Scan(&tx.ID, &tx.PlayerID, &tx.MobilePayNumber, &tx.Amount,
		&status, &tx.CreatedAt, &approvedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, walletrepo.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	tx.Status = parsed
	if approvedAt.Valid {
		t := approvedAt.Time
		tx.ApprovedAt = &t
	}
	return &tx, nil
}
