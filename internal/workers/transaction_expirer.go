package workers

import (
	"context"
	"sync"
	"time"

	"club-lotto-backend/internal/common/config"
	"club-lotto-backend/internal/common/logger"
	walletrepo "club-lotto-backend/internal/features/wallet/repository"
)

// TransactionExpirer sweeps deposit requests that sat pending longer than the
// configured TTL and rejects them. A zero TTL disables the worker entirely.
type TransactionExpirer struct {
	ctx    context.Context
	cancel context.CancelFunc
	repo   walletrepo.TransactionRepository
	cfg    *config.Config
	wg     sync.WaitGroup
}

func NewTransactionExpirer(repo walletrepo.TransactionRepository, cfg *config.Config) *TransactionExpirer {
	ctx, cancel := context.WithCancel(context.Background())
	return &TransactionExpirer{
		ctx:    ctx,
		cancel: cancel,
		repo:   repo,
		cfg:    cfg,
	}
}

func (w *TransactionExpirer) Start() {
	if w.cfg.Workers.PendingTxTTL <= 0 {
		logger.Info().Msg("Transaction expirer disabled")
		return
	}

	logger.Info().
		Dur("ttl", w.cfg.Workers.PendingTxTTL).
		Dur("interval", w.cfg.Workers.SweepInterval).
		Msg("Starting transaction expirer")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.cfg.Workers.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep()
			case <-w.ctx.Done():
				return
			}
		}
	}()
}

func (w *TransactionExpirer) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *TransactionExpirer) sweep() {
	ctx, cancel := context.WithTimeout(w.ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.cfg.Workers.PendingTxTTL)
	rejected, err := w.repo.RejectStalePending(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to reject stale pending transactions")
		return
	}
	if rejected > 0 {
		logger.Info().Int64("count", rejected).Msg("Rejected stale pending transactions")
	}
}
