// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on pgx directly, so the
// quote/invoice workflows stay testable with in-memory fakes.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested transaction support.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SerializableManager extends Manager with serializable isolation.
// Quote conversion uses it so concurrent conversions of the same quote
// cannot both observe "no invoice yet".
type SerializableManager interface {
	Manager

	// RunSerializable executes fn in a SERIALIZABLE transaction.
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
