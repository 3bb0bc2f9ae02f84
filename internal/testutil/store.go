// Package testutil provides an in-memory store implementing the repository
// interfaces, for service tests that need the cross-table behavior of the
// real database without one.
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"club-lotto-backend/internal/common/repository"
	boardmodels "club-lotto-backend/internal/features/board/models"
	boardrepo "club-lotto-backend/internal/features/board/repository"
	gamemodels "club-lotto-backend/internal/features/game/models"
	gamerepo "club-lotto-backend/internal/features/game/repository"
	playermodels "club-lotto-backend/internal/features/player/models"
	playerrepo "club-lotto-backend/internal/features/player/repository"
	walletmodels "club-lotto-backend/internal/features/wallet/models"
	walletrepo "club-lotto-backend/internal/features/wallet/repository"
)

// Store holds games, boards, players and transactions in memory and derives
// balances the same way the SQL layer does.
type Store struct {
	Games   map[string]*gamemodels.Game
	Boards  []*boardmodels.Board
	Players map[string]*playermodels.Player
	Txs     map[string]*walletmodels.Transaction
}

func NewStore() *Store {
	return &Store{
		Games:   make(map[string]*gamemodels.Game),
		Players: make(map[string]*playermodels.Player),
		Txs:     make(map[string]*walletmodels.Transaction),
	}
}

// noopTx satisfies repository.Transaction; the store has no isolation.
type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

func (s *Store) Begin(context.Context) (repository.Transaction, error) {
	return noopTx{}, nil
}

// AddPlayer registers an active player and returns it.
func (s *Store) AddPlayer(id string) *playermodels.Player {
	p := &playermodels.Player{
		ID:        id,
		FirstName: "Test",
		LastName:  "Player",
		Email:     id + "@example.dk",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.Players[id] = p
	return p
}

// AddActiveGame registers an open round.
func (s *Store) AddActiveGame(id string, week, year int) *gamemodels.Game {
	g := &gamemodels.Game{
		ID:         id,
		WeekNumber: week,
		Year:       year,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	s.Games[id] = g
	return g
}

// AddApprovedDeposit credits a player's balance.
func (s *Store) AddApprovedDeposit(playerID string, amount int64) {
	id := uuid.New().String()
	now := time.Now().UTC()
	s.Txs[id] = &walletmodels.Transaction{
		ID:              id,
		PlayerID:        playerID,
		MobilePayNumber: "20123456",
		Amount:          amount,
		Status:          walletmodels.StatusApproved,
		CreatedAt:       now,
		ApprovedAt:      &now,
	}
}

// game repository

func (s *Store) CreateTx(_ context.Context, _ repository.Transaction, game *gamemodels.Game) error {
	cp := *game
	s.Games[game.ID] = &cp
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*gamemodels.Game, error) {
	g, ok := s.Games[id]
	if !ok {
		return nil, gamerepo.ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Store) GetActive(_ context.Context) (*gamemodels.Game, error) {
	for _, g := range s.Games {
		if g.IsActive {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gamerepo.ErrNoActiveGame
}

func (s *Store) GetActiveForUpdate(ctx context.Context, _ repository.Transaction) (*gamemodels.Game, error) {
	return s.GetActive(ctx)
}

func (s *Store) GetActiveForShare(ctx context.Context, _ repository.Transaction) (*gamemodels.Game, error) {
	return s.GetActive(ctx)
}

func (s *Store) GetByIDForUpdate(ctx context.Context, _ repository.Transaction, id string) (*gamemodels.Game, error) {
	return s.GetByID(ctx, id)
}

func (s *Store) LatestTx(_ context.Context, _ repository.Transaction) (*gamemodels.Game, error) {
	var latest *gamemodels.Game
	for _, g := range s.Games {
		if latest == nil || g.CreatedAt.After(latest.CreatedAt) {
			latest = g
		}
	}
	if latest == nil {
		return nil, gamerepo.ErrGameNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *Store) CloseTx(_ context.Context, _ repository.Transaction, id string, winning gamemodels.WinningNumbers, closedAt time.Time) (bool, error) {
	g, ok := s.Games[id]
	if !ok || g.ClosedAt != nil {
		return false, nil
	}
	g.WinningNumbers = winning
	g.ClosedAt = &closedAt
	g.IsActive = false
	return true, nil
}

func (s *Store) ListClosed(_ context.Context, limit, offset int) ([]*gamemodels.Game, error) {
	var closed []*gamemodels.Game
	for _, g := range s.Games {
		if g.ClosedAt != nil {
			cp := *g
			closed = append(closed, &cp)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		if closed[i].Year != closed[j].Year {
			return closed[i].Year > closed[j].Year
		}
		return closed[i].WeekNumber > closed[j].WeekNumber
	})
	if offset >= len(closed) {
		return nil, nil
	}
	closed = closed[offset:]
	if len(closed) > limit {
		closed = closed[:limit]
	}
	return closed, nil
}

// board repository

func (s *Store) CreateBoardTx(_ context.Context, _ repository.Transaction, board *boardmodels.Board) error {
	cp := *board
	s.Boards = append(s.Boards, &cp)
	return nil
}

func (s *Store) GetBoardByID(_ context.Context, id string) (*boardmodels.Board, error) {
	for _, b := range s.Boards {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, boardrepo.ErrBoardNotFound
}

func (s *Store) ListByGame(_ context.Context, gameID string) ([]*boardmodels.Board, error) {
	var out []*boardmodels.Board
	for _, b := range s.Boards {
		if b.GameID == gameID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) ListByGameTx(ctx context.Context, _ repository.Transaction, gameID string) ([]*boardmodels.Board, error) {
	return s.ListByGame(ctx, gameID)
}

func (s *Store) ListByPlayer(_ context.Context, playerID string) ([]*boardmodels.Board, error) {
	var out []*boardmodels.Board
	for _, b := range s.Boards {
		if b.PlayerID == playerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) SetWinningTx(_ context.Context, _ repository.Transaction, boardID string, winning bool) error {
	for _, b := range s.Boards {
		if b.ID == boardID {
			v := winning
			b.IsWinning = &v
			return nil
		}
	}
	return boardrepo.ErrBoardNotFound
}

func (s *Store) ListRenewableTx(_ context.Context, _ repository.Transaction, gameID string) ([]*boardmodels.Board, error) {
	var out []*boardmodels.Board
	for _, b := range s.Boards {
		if b.GameID == gameID && b.RepeatActive && b.RepeatWeeks > 0 {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateRenewalTx(_ context.Context, _ repository.Transaction, board *boardmodels.Board) (bool, error) {
	for _, b := range s.Boards {
		if b.GameID == board.GameID && b.SourceBoardID == board.SourceBoardID {
			return false, nil
		}
	}
	cp := *board
	s.Boards = append(s.Boards, &cp)
	return true, nil
}

func (s *Store) DeactivateRepeatTx(_ context.Context, _ repository.Transaction, boardID string) error {
	for _, b := range s.Boards {
		if b.ID == boardID {
			b.RepeatActive = false
			return nil
		}
	}
	return boardrepo.ErrBoardNotFound
}

// player repository

func (s *Store) CreatePlayer(_ context.Context, p *playermodels.Player) error {
	s.Players[p.ID] = p
	return nil
}

func (s *Store) GetPlayerByID(_ context.Context, id string) (*playermodels.Player, error) {
	p, ok := s.Players[id]
	if !ok {
		return nil, playerrepo.ErrPlayerNotFound
	}
	return p, nil
}

func (s *Store) GetPlayerByIDForUpdate(ctx context.Context, _ repository.Transaction, id string) (*playermodels.Player, error) {
	return s.GetPlayerByID(ctx, id)
}

func (s *Store) ListPlayers(_ context.Context) ([]*playermodels.Player, error) {
	var out []*playermodels.Player
	for _, p := range s.Players {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) UpdatePlayer(_ context.Context, p *playermodels.Player) error {
	s.Players[p.ID] = p
	return nil
}

func (s *Store) SetPlayerActive(_ context.Context, id string, active bool) error {
	p, ok := s.Players[id]
	if !ok {
		return playerrepo.ErrPlayerNotFound
	}
	p.IsActive = active
	return nil
}

// transaction repository

func (s *Store) CreateTransaction(_ context.Context, tx *walletmodels.Transaction) error {
	cp := *tx
	s.Txs[tx.ID] = &cp
	return nil
}

func (s *Store) GetTransactionByID(_ context.Context, id string) (*walletmodels.Transaction, error) {
	tx, ok := s.Txs[id]
	if !ok {
		return nil, walletrepo.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *Store) SettleIfPending(_ context.Context, id string, status walletmodels.TransactionStatus, approvedAt *time.Time) (bool, error) {
	tx, ok := s.Txs[id]
	if !ok || tx.Status != walletmodels.StatusPending {
		return false, nil
	}
	tx.Status = status
	tx.ApprovedAt = approvedAt
	return true, nil
}

func (s *Store) ListPending(_ context.Context) ([]*walletmodels.Transaction, error) {
	var out []*walletmodels.Transaction
	for _, tx := range s.Txs {
		if tx.Status == walletmodels.StatusPending {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) ListForPlayer(_ context.Context, playerID string) ([]*walletmodels.Transaction, error) {
	var out []*walletmodels.Transaction
	for _, tx := range s.Txs {
		if tx.PlayerID == playerID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) Balance(_ context.Context, playerID string) (int64, error) {
	var balance int64
	for _, tx := range s.Txs {
		if tx.PlayerID == playerID && tx.Status == walletmodels.StatusApproved {
			balance += tx.Amount
		}
	}
	for _, b := range s.Boards {
		if b.PlayerID == playerID {
			balance -= b.Price
		}
	}
	return balance, nil
}

func (s *Store) BalanceTx(ctx context.Context, _ repository.Transaction, playerID string) (int64, error) {
	return s.Balance(ctx, playerID)
}

func (s *Store) RejectStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, tx := range s.Txs {
		if tx.Status == walletmodels.StatusPending && tx.CreatedAt.Before(cutoff) {
			tx.Status = walletmodels.StatusRejected
			n++
		}
	}
	return n, nil
}

// The Store itself satisfies gamerepo.GameRepository. The other interfaces
// share method names with it, so thin adapters remap the colliding ones.

var _ gamerepo.GameRepository = (*Store)(nil)

// BoardRepo adapts the store to boardrepo.BoardRepository.
type BoardRepo struct{ *Store }

func (r BoardRepo) CreateTx(ctx context.Context, tx repository.Transaction, board *boardmodels.Board) error {
	return r.CreateBoardTx(ctx, tx, board)
}

func (r BoardRepo) GetByID(ctx context.Context, id string) (*boardmodels.Board, error) {
	return r.GetBoardByID(ctx, id)
}

var _ boardrepo.BoardRepository = BoardRepo{}

// PlayerRepo adapts the store to playerrepo.PlayerRepository.
type PlayerRepo struct{ *Store }

func (r PlayerRepo) Create(ctx context.Context, p *playermodels.Player) error {
	return r.CreatePlayer(ctx, p)
}

func (r PlayerRepo) GetByID(ctx context.Context, id string) (*playermodels.Player, error) {
	return r.GetPlayerByID(ctx, id)
}

func (r PlayerRepo) GetByIDForUpdate(ctx context.Context, tx repository.Transaction, id string) (*playermodels.Player, error) {
	return r.GetPlayerByIDForUpdate(ctx, tx, id)
}

func (r PlayerRepo) List(ctx context.Context) ([]*playermodels.Player, error) {
	return r.ListPlayers(ctx)
}

func (r PlayerRepo) Update(ctx context.Context, p *playermodels.Player) error {
	return r.UpdatePlayer(ctx, p)
}

func (r PlayerRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.SetPlayerActive(ctx, id, active)
}

var _ playerrepo.PlayerRepository = PlayerRepo{}

// WalletRepo adapts the store to walletrepo.TransactionRepository.
type WalletRepo struct{ *Store }

func (r WalletRepo) Create(ctx context.Context, tx *walletmodels.Transaction) error {
	return r.CreateTransaction(ctx, tx)
}

func (r WalletRepo) GetByID(ctx context.Context, id string) (*walletmodels.Transaction, error) {
	return r.GetTransactionByID(ctx, id)
}

var _ walletrepo.TransactionRepository = WalletRepo{}
