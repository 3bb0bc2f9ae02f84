// Package repository holds the storage-engine-agnostic transaction contract
// shared by all feature repositories, so a single database transaction can span
// game, board, player and wallet writes.
package repository

import "context"

// Transaction is a unit of work spanning one or more repository calls.
// Implementations are storage specific; feature repositories type-assert to
// their own engine's transaction.
type Transaction interface {
	Commit() error
	Rollback() error
}

// Beginner opens transactions. The postgres platform client implements it;
// tests substitute an in-memory fake.
type Beginner interface {
	Begin(ctx context.Context) (Transaction, error)
}
