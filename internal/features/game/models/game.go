package models

import (
	"fmt"
	"time"

	"club-lotto-backend/internal/common/config"
)

// Game is one weekly lottery round. At most one game is active at a time;
// closing a game is a one-way transition performed together with settlement.
type Game struct {
	ID             string         `json:"id"`
	WeekNumber     int            `json:"week_number"`
	Year           int            `json:"year"`
	WinningNumbers WinningNumbers `json:"winning_numbers,omitempty"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	ClosedAt       *time.Time     `json:"closed_at,omitempty"`
}

// IsClosed reports whether the round has been settled.
func (g *Game) IsClosed() bool {
	return g.ClosedAt != nil
}

// NextWeek returns the (week, year) pair following this game's week.
// ISO weeks per year vary between 52 and 53.
func (g *Game) NextWeek() (week, year int) {
	if g.WeekNumber >= isoWeeksInYear(g.Year) {
		return 1, g.Year + 1
	}
	return g.WeekNumber + 1, g.Year
}

// CurrentWeek returns the ISO week of the given time, for bootstrapping the
// first round of an empty database.
func CurrentWeek(now time.Time) (week, year int) {
	year, week = now.ISOWeek()
	return week, year
}

func isoWeeksInYear(year int) int {
	// December 28th always falls in the last ISO week of its year.
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// WinningNumbers is the set of numbers drawn when a round closes.
type WinningNumbers []int64

// Validate checks the drawn set: exactly the configured count, distinct, within
// the pool 1..poolSize.
func (w WinningNumbers) Validate(poolSize int) error {
	if len(w) != config.WinningNumberCount {
		return fmt.Errorf("exactly %d winning numbers required, got %d", config.WinningNumberCount, len(w))
	}
	seen := make(map[int64]bool, len(w))
	for _, n := range w {
		if n < 1 || n > int64(poolSize) {
			return fmt.Errorf("winning number %d is outside the pool 1..%d", n, poolSize)
		}
		if seen[n] {
			return fmt.Errorf("winning numbers must be distinct, %d repeats", n)
		}
		seen[n] = true
	}
	return nil
}

// Covers reports whether a board with the given numbers wins: every drawn
// number must appear among the board's chosen numbers. There are no
// partial-match tiers.
func (w WinningNumbers) Covers(boardNumbers []int64) bool {
	for _, n := range w {
		found := false
		for _, b := range boardNumbers {
			if b == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SettlementSummary is returned by the close-and-settle operation.
type SettlementSummary struct {
	GameID         string         `json:"game_id"`
	WeekNumber     int            `json:"week_number"`
	Year           int            `json:"year"`
	WinningNumbers WinningNumbers `json:"winning_numbers"`
	TotalBoards    int            `json:"total_boards"`
	WinningBoards  int            `json:"winning_boards"`
	DigitalRevenue int64          `json:"digital_revenue"`
}
