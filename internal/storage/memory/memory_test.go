package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/autoparts-storefront/internal/domain/order"
	"github.com/xenking/autoparts-storefront/internal/domain/wishlist"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage()
	a, b := s.Namespace("a"), s.Namespace("b")

	_, ok, err := a.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("v1")
	require.NoError(t, a.Save(ctx, "k", value))
	value[0] = 'x'

	got, ok, err := a.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", string(got))

	_, ok, err = b.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Delete(ctx, "k"))
	require.NoError(t, a.Delete(ctx, "k"))
	_, ok, err = a.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_WishlistRoundTrip(t *testing.T) {
	ctx := context.Background()
	ns := NewLocalStorage().Namespace("session")

	w := wishlist.NewStore(ns)
	w.Toggle(ctx, "b")
	w.Toggle(ctx, "a")

	raw, ok, err := ns.Load(ctx, wishlist.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"version":1,"ids":["a","b"]}`, string(raw))

	restored := wishlist.NewStore(ns)
	restored.Hydrate(ctx)
	assert.True(t, restored.Has("a"))
	assert.True(t, restored.Has("b"))
}

func TestReceipts(t *testing.T) {
	ctx := context.Background()
	var j Receipts

	require.NoError(t, j.Create(ctx, &order.Receipt{ID: "r1", UserID: "u1"}))
	require.NoError(t, j.Create(ctx, &order.Receipt{ID: "r2", UserID: "u2"}))
	require.NoError(t, j.Create(ctx, &order.Receipt{ID: "r3", UserID: "u1"}))

	got := j.ByUser("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)
	assert.Empty(t, j.ByUser("nobody"))
}
