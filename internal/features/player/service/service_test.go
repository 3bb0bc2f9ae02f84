package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/testutil"
)

func newTestService() (PlayerService, *testutil.Store) {
	store := testutil.NewStore()
	return NewPlayerService(testutil.PlayerRepo{Store: store}), store
}

func validInput() PlayerInput {
	return PlayerInput{
		FirstName: "Mads",
		LastName:  "Jensen",
		Email:     "mads@example.dk",
		Phone:     "20123456",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active player", func(t *testing.T) {
		svc, _ := newTestService()

		player, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.NotEmpty(t, player.ID)
		assert.True(t, player.IsActive)
		assert.Equal(t, "Mads", player.FirstName)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		svc, _ := newTestService()

		input := validInput()
		input.FirstName = "  Mads "
		input.Email = " mads@example.dk "

		player, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "Mads", player.FirstName)
		assert.Equal(t, "mads@example.dk", player.Email)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _ := newTestService()

		tests := []struct {
			name   string
			mutate func(*PlayerInput)
		}{
			{name: "empty first name", mutate: func(i *PlayerInput) { i.FirstName = "" }},
			{name: "empty last name", mutate: func(i *PlayerInput) { i.LastName = "  " }},
			{name: "bad email", mutate: func(i *PlayerInput) { i.Email = "not-an-email" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				input := validInput()
				tt.mutate(&input)
				_, err := svc.Create(ctx, input)
				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				assert.True(t, appErr.IsValidation())
			})
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	store.AddPlayer("p1")

	player, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", player.ID)

	_, err = svc.Get(ctx, "missing")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	store.AddPlayer("p1")

	input := validInput()
	input.FirstName = "Lars"

	player, err := svc.Update(ctx, "p1", input)
	require.NoError(t, err)
	assert.Equal(t, "Lars", player.FirstName)

	_, err = svc.Update(ctx, "missing", input)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	store.AddPlayer("p1")

	require.NoError(t, svc.Deactivate(ctx, "p1"))

	player, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, player.IsActive)

	err = svc.Deactivate(ctx, "missing")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}
