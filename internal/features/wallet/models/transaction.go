package models

import (
	"fmt"
	"time"
)

// TransactionStatus is the closed set of deposit-request states. Transitions
// are one-way: pending moves to approved or rejected exactly once.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

// ParseStatus converts a stored string into a TransactionStatus.
func ParseStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return TransactionStatus(s), nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// Transaction is a deposit request. Only approved transactions count toward a
// player's balance.
type Transaction struct {
	ID              string            `json:"id"`
	PlayerID        string            `json:"player_id"`
	MobilePayNumber string            `json:"mobile_pay_number"`
	Amount          int64             `json:"amount"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
}

// Balance is the derived spendable balance for a player: approved deposits
// minus the price of every board ever created. It is recomputed on demand and
// never stored.
type Balance struct {
	PlayerID  string `json:"player_id"`
	Available int64  `json:"available"`
}
