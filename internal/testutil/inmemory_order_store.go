package testutil

import (
	"context"
	"sync"

	"github.com/ordertally/ordertally/internal/domain/order"
	ierr "github.com/ordertally/ordertally/internal/errors"
)

// InMemoryOrderStore implements order.Repository with optimistic concurrency.
// Every read and write goes through a deep copy so no caller ever aliases the
// stored order values.
type InMemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
}

// NewInMemoryOrderStore creates a new in-memory order store
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		orders: make(map[string]*order.Order),
	}
}

func (s *InMemoryOrderStore) Create(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order is required").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return ierr.NewError("order already exists").
			WithHintf("Order %s already exists", o.ID).
			Mark(ierr.ErrAlreadyExists)
	}

	stored := o.Clone()
	stored.Version = 0
	s.orders[o.ID] = stored
	return nil
}

func (s *InMemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.orders[id]
	if !exists {
		return nil, ierr.WithError(order.ErrOrderNotFound).
			WithHintf("Order %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	return stored.Clone(), nil
}

// Save commits o only if the stored order is still at expectedVersion and
// bumps the version on success. A mismatch means a concurrent writer won the
// race; the caller re-reads and retries.
func (s *InMemoryOrderStore) Save(ctx context.Context, o *order.Order, expectedVersion int) error {
	if o == nil {
		return ierr.NewError("order is required").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.orders[o.ID]
	if !exists {
		return ierr.WithError(order.ErrOrderNotFound).
			WithHintf("Order %s was not found", o.ID).
			Mark(ierr.ErrNotFound)
	}

	if stored.Version != expectedVersion {
		return ierr.NewError("order was modified concurrently").
			WithHintf("Order %s is at version %d, expected %d", o.ID, stored.Version, expectedVersion).
			Mark(ierr.ErrVersionConflict)
	}

	next := o.Clone()
	next.Version = expectedVersion + 1
	s.orders[o.ID] = next
	return nil
}

// Version returns the stored version of an order, for test assertions
func (s *InMemoryOrderStore) Version(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.orders[id]
	if !exists {
		return 0, false
	}
	return stored.Version, true
}
