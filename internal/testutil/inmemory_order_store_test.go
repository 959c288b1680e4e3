package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordertally/ordertally/internal/domain/order"
	ierr "github.com/ordertally/ordertally/internal/errors"
)

func TestInMemoryOrderStoreSave(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryOrderStore()

	o := order.New("ord_1", "cust_1", "usd")
	require.NoError(t, store.Create(ctx, o))

	err := store.Create(ctx, o)
	require.Error(t, err)
	assert.True(t, ierr.IsAlreadyExists(err))

	loaded, err := store.Get(ctx, "ord_1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Version)

	next, err := loaded.AddLineItem(&order.LineItem{ID: "item-0", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, next, loaded.Version))

	version, ok := store.Version("ord_1")
	assert.True(t, ok)
	assert.Equal(t, 1, version)

	// a second writer still holding version 0 must conflict
	err = store.Save(ctx, next, 0)
	require.Error(t, err)
	assert.True(t, ierr.IsVersionConflict(err))

	err = store.Save(ctx, order.New("ord_missing", "", "usd"), 0)
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestInMemoryOrderStoreCopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryOrderStore()

	o := order.New("ord_1", "cust_1", "usd")
	o, err := o.AddLineItem(&order.LineItem{ID: "item-0", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, o))

	loaded, err := store.Get(ctx, "ord_1")
	require.NoError(t, err)
	loaded.LineItems[0].Amount = decimal.NewFromInt(99)

	reloaded, err := store.Get(ctx, "ord_1")
	require.NoError(t, err)
	assert.True(t, reloaded.LineItems[0].Amount.Equal(decimal.NewFromInt(2)),
		"mutating a loaded copy must not reach the store")
}
