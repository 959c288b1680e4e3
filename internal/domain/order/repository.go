package order

import (
	"context"
)

// Repository defines the interface for order persistence operations.
// Save takes the version the caller read; the store commits only when the
// stored order is still at that version, otherwise it fails with a version
// conflict and the caller re-reads and retries. This keeps the aggregate
// itself free of any concurrency machinery.
type Repository interface {
	// Create stores a new order at version 0
	Create(ctx context.Context, order *Order) error

	// Get retrieves an order by ID
	Get(ctx context.Context, id string) (*Order, error)

	// Save commits order if the stored version equals expectedVersion
	Save(ctx context.Context, order *Order, expectedVersion int) error
}
