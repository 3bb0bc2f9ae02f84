package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/repository"
	playermodels "club-lotto-backend/internal/features/player/models"
	playerrepo "club-lotto-backend/internal/features/player/repository"
	"club-lotto-backend/internal/features/wallet/models"
	walletrepo "club-lotto-backend/internal/features/wallet/repository"
)

type fakeTxRepo struct {
	txs map[string]*models.Transaction
	// spend is the total board spend per player, feeding the derived balance.
	spend map[string]int64
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{
		txs:   make(map[string]*models.Transaction),
		spend: make(map[string]int64),
	}
}

func (r *fakeTxRepo) Create(_ context.Context, tx *models.Transaction) error {
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, walletrepo.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTxRepo) SettleIfPending(_ context.Context, id string, status models.TransactionStatus, approvedAt *time.Time) (bool, error) {
	tx, ok := r.txs[id]
	if !ok || tx.Status != models.StatusPending {
		return false, nil
	}
	tx.Status = status
	tx.ApprovedAt = approvedAt
	return true, nil
}

func (r *fakeTxRepo) ListPending(_ context.Context) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.Status == models.StatusPending {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) ListForPlayer(_ context.Context, playerID string) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.PlayerID == playerID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) Balance(_ context.Context, playerID string) (int64, error) {
	var approved int64
	for _, tx := range r.txs {
		if tx.PlayerID == playerID && tx.Status == models.StatusApproved {
			approved += tx.Amount
		}
	}
	return approved - r.spend[playerID], nil
}

func (r *fakeTxRepo) BalanceTx(ctx context.Context, _ repository.Transaction, playerID string) (int64, error) {
	return r.Balance(ctx, playerID)
}

func (r *fakeTxRepo) RejectStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, tx := range r.txs {
		if tx.Status == models.StatusPending && tx.CreatedAt.Before(cutoff) {
			tx.Status = models.StatusRejected
			n++
		}
	}
	return n, nil
}

type fakePlayerRepo struct {
	players map[string]*playermodels.Player
}

func newFakePlayerRepo(players ...*playermodels.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[string]*playermodels.Player)}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakePlayerRepo) Create(_ context.Context, p *playermodels.Player) error {
	r.players[p.ID] = p
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id string) (*playermodels.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, playerrepo.ErrPlayerNotFound
	}
	return p, nil
}

func (r *fakePlayerRepo) GetByIDForUpdate(ctx context.Context, _ repository.Transaction, id string) (*playermodels.Player, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePlayerRepo) List(_ context.Context) ([]*playermodels.Player, error) {
	var out []*playermodels.Player
	for _, p := range r.players {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, p *playermodels.Player) error {
	r.players[p.ID] = p
	return nil
}

func (r *fakePlayerRepo) SetActive(_ context.Context, id string, active bool) error {
	p, ok := r.players[id]
	if !ok {
		return playerrepo.ErrPlayerNotFound
	}
	p.IsActive = active
	return nil
}

func activePlayer(id string) *playermodels.Player {
	return &playermodels.Player{ID: id, FirstName: "Test", LastName: "Player", Email: id + "@example.dk", IsActive: true}
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request", func(t *testing.T) {
		txRepo := newFakeTxRepo()
		svc := NewWalletService(txRepo, newFakePlayerRepo(activePlayer("p1")))

		tx, err := svc.CreateTransaction(ctx, "p1", "20123456", 100)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, tx.Status)
		assert.Equal(t, int64(100), tx.Amount)
		assert.Nil(t, tx.ApprovedAt)

		// Pending deposits never count toward the balance.
		balance, err := svc.GetBalance(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Available)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := NewWalletService(newFakeTxRepo(), newFakePlayerRepo(activePlayer("p1")))

		for _, amount := range []int64{0, -50} {
			_, err := svc.CreateTransaction(ctx, "p1", "20123456", amount)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.True(t, appErr.IsValidation())
		}
	})

	t.Run("rejects an invalid mobile pay number", func(t *testing.T) {
		svc := NewWalletService(newFakeTxRepo(), newFakePlayerRepo(activePlayer("p1")))

		_, err := svc.CreateTransaction(ctx, "p1", "not-a-number", 100)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidMobilePayNumber, appErr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		svc := NewWalletService(newFakeTxRepo(), newFakePlayerRepo())

		_, err := svc.CreateTransaction(ctx, "ghost", "20123456", 100)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsNotFound())
	})

	t.Run("deactivated player", func(t *testing.T) {
		p := activePlayer("p1")
		p.IsActive = false
		svc := NewWalletService(newFakeTxRepo(), newFakePlayerRepo(p))

		_, err := svc.CreateTransaction(ctx, "p1", "20123456", 100)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsPolicy())
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approves a pending request once", func(t *testing.T) {
		txRepo := newFakeTxRepo()
		svc := NewWalletService(txRepo, newFakePlayerRepo(activePlayer("p1")))

		created, err := svc.CreateTransaction(ctx, "p1", "20123456", 250)
		require.NoError(t, err)

		approved, err := svc.Approve(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, approved.Status)
		require.NotNil(t, approved.ApprovedAt)

		balance, err := svc.GetBalance(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(250), balance.Available)

		// A second approval must fail, not double-credit.
		_, err = svc.Approve(ctx, created.ID)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeTransactionNotPending, appErr.Code)

		balance, err = svc.GetBalance(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(250), balance.Available)
	})

	t.Run("approve after reject fails", func(t *testing.T) {
		txRepo := newFakeTxRepo()
		svc := NewWalletService(txRepo, newFakePlayerRepo(activePlayer("p1")))

		created, err := svc.CreateTransaction(ctx, "p1", "20123456", 250)
		require.NoError(t, err)

		_, err = svc.Reject(ctx, created.ID)
		require.NoError(t, err)

		_, err = svc.Approve(ctx, created.ID)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsConflict())
	})

	t.Run("unknown transaction", func(t *testing.T) {
		svc := NewWalletService(newFakeTxRepo(), newFakePlayerRepo(activePlayer("p1")))

		_, err := svc.Approve(ctx, "missing")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.True(t, appErr.IsNotFound())
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	txRepo := newFakeTxRepo()
	svc := NewWalletService(txRepo, newFakePlayerRepo(activePlayer("p1")))

	created, err := svc.CreateTransaction(ctx, "p1", "20123456", 250)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)

	balance, err := svc.GetBalance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Available)
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	txRepo := newFakeTxRepo()
	svc := NewWalletService(txRepo, newFakePlayerRepo(activePlayer("p1")))

	first, err := svc.CreateTransaction(ctx, "p1", "20123456", 100)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.CreateTransaction(ctx, "p1", "20123456", 60)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, second.ID)
	require.NoError(t, err)

	// Board spend reduces the balance even though boards belong to another
	// feature; the ledger is derived from both tables.
	txRepo.spend["p1"] = 40

	balance, err := svc.GetBalance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance.Available)

	_, err = svc.GetBalance(ctx, "ghost")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}
