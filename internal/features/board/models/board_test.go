package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNumbers(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int64
		wantErr bool
	}{
		{name: "five numbers", numbers: []int64{1, 2, 3, 4, 5}},
		{name: "eight numbers", numbers: []int64{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "pool bounds", numbers: []int64{1, 5, 10, 15, 20}},
		{name: "four numbers", numbers: []int64{1, 2, 3, 4}, wantErr: true},
		{name: "nine numbers", numbers: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, wantErr: true},
		{name: "duplicate", numbers: []int64{1, 2, 3, 4, 4}, wantErr: true},
		{name: "zero", numbers: []int64{0, 2, 3, 4, 5}, wantErr: true},
		{name: "above pool", numbers: []int64{1, 2, 3, 4, 21}, wantErr: true},
		{name: "empty", numbers: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumbers(tt.numbers, 20)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRenewal(t *testing.T) {
	now := time.Now().UTC()
	source := &Board{
		ID:           "board-1",
		PlayerID:     "player-1",
		GameID:       "game-1",
		Numbers:      []int64{1, 2, 3, 4, 5},
		Price:        20,
		RepeatWeeks:  2,
		RepeatActive: true,
		CreatedAt:    now.Add(-7 * 24 * time.Hour),
	}

	first := source.Renewal("board-2", "game-2", 20, now)
	assert.Equal(t, "board-2", first.ID)
	assert.Equal(t, "player-1", first.PlayerID)
	assert.Equal(t, "game-2", first.GameID)
	assert.Equal(t, source.Numbers, first.Numbers)
	assert.Equal(t, "board-1", first.SourceBoardID)
	assert.Equal(t, 1, first.RepeatWeeks)
	assert.True(t, first.RepeatActive)
	assert.Nil(t, first.IsWinning)

	// The chain ends on the renewal that spends the last repeat week.
	second := first.Renewal("board-3", "game-3", 20, now)
	assert.Equal(t, 0, second.RepeatWeeks)
	assert.False(t, second.RepeatActive)
	assert.Equal(t, "board-2", second.SourceBoardID)
}
