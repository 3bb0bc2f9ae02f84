package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   *AppError
		check func(*AppError) bool
	}{
		{name: "no active round is not found", err: NewNoActiveRoundError(), check: (*AppError).IsNotFound},
		{name: "round not found", err: NewRoundNotFoundError("g1"), check: (*AppError).IsNotFound},
		{name: "player not found", err: NewPlayerNotFoundError("p1"), check: (*AppError).IsNotFound},
		{name: "round already active is conflict", err: NewRoundAlreadyActiveError("g1"), check: (*AppError).IsConflict},
		{name: "round already closed is conflict", err: NewRoundAlreadyClosedError("g1"), check: (*AppError).IsConflict},
		{name: "transaction not pending is conflict", err: NewTransactionNotPendingError("t1", "approved"), check: (*AppError).IsConflict},
		{name: "insufficient balance is policy", err: NewInsufficientBalanceError(10, 20), check: (*AppError).IsPolicy},
		{name: "inactive player is policy", err: NewPlayerInactiveError("p1"), check: (*AppError).IsPolicy},
		{name: "validation", err: NewValidationError("email", "bad"), check: (*AppError).IsValidation},
		{name: "unauthorized", err: NewUnauthorizedError("no token"), check: (*AppError).IsUnauthorized},
		{name: "database error is internal", err: NewDatabaseError("query", errors.New("boom")), check: (*AppError).IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeDatabaseError, "query failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NewNoActiveRoundError())
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoActiveRound, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsAppError(nil)
	assert.False(t, ok)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeConflict, "taken").WithDetail("email", "a@b.dk")
	assert.Equal(t, "a@b.dk", err.Details["email"])
}
