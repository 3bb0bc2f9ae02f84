package models

import (
	"fmt"
	"time"

	"club-lotto-backend/internal/common/config"
)

// Board is a player's purchased set of numbers for one round. Numbers and price
// are fixed at creation; the winning verdict is written once, at settlement.
type Board struct {
	ID            string    `json:"id"`
	PlayerID      string    `json:"player_id"`
	GameID        string    `json:"game_id"`
	Numbers       []int64   `json:"numbers"`
	Price         int64     `json:"price"`
	IsWinning     *bool     `json:"is_winning,omitempty"`
	RepeatWeeks   int       `json:"repeat_weeks"`
	RepeatActive  bool      `json:"repeat_active"`
	SourceBoardID string    `json:"source_board_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidateNumbers checks a board's number selection: between MinBoardNumbers
// and MaxBoardNumbers distinct entries, each within the pool 1..poolSize.
func ValidateNumbers(numbers []int64, poolSize int) error {
	if len(numbers) < config.MinBoardNumbers || len(numbers) > config.MaxBoardNumbers {
		return fmt.Errorf("a board must have between %d and %d numbers, got %d",
			config.MinBoardNumbers, config.MaxBoardNumbers, len(numbers))
	}
	seen := make(map[int64]bool, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > int64(poolSize) {
			return fmt.Errorf("number %d is outside the pool 1..%d", n, poolSize)
		}
		if seen[n] {
			return fmt.Errorf("numbers must be distinct, %d repeats", n)
		}
		seen[n] = true
	}
	return nil
}

// Renewal derives the next-round copy of this board. The chain ends when the
// remaining repeat count reaches zero.
func (b *Board) Renewal(id, gameID string, price int64, now time.Time) *Board {
	remaining := b.RepeatWeeks - 1
	return &Board{
		ID:            id,
		PlayerID:      b.PlayerID,
		GameID:        gameID,
		Numbers:       b.Numbers,
		Price:         price,
		RepeatWeeks:   remaining,
		RepeatActive:  remaining > 0,
		SourceBoardID: b.ID,
		CreatedAt:     now,
	}
}
