package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/autoparts-storefront/internal/domain/cart"
	"github.com/xenking/autoparts-storefront/internal/domain/wishlist"
	"github.com/xenking/autoparts-storefront/internal/storage/memory"
)

func newRegistry(store *memory.LocalStorage) *Registry {
	return NewRegistry(func(id string) wishlist.Storage {
		return store.Namespace(id)
	}, time.Hour)
}

func TestRegistry_Open(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(memory.NewLocalStorage())

	t.Run("mints id when missing", func(t *testing.T) {
		s, created := r.Open(ctx, "")
		require.True(t, created)
		_, err := uuid.Parse(s.ID)
		require.NoError(t, err)
	})

	t.Run("mints id when malformed", func(t *testing.T) {
		s, created := r.Open(ctx, "../../etc")
		require.True(t, created)
		assert.NotEqual(t, "../../etc", s.ID)
	})

	t.Run("reuses live session", func(t *testing.T) {
		s, _ := r.Open(ctx, "")
		again, created := r.Open(ctx, s.ID)
		assert.False(t, created)
		assert.Same(t, s, again)

		got, ok := r.Get(s.ID)
		require.True(t, ok)
		assert.Same(t, s, got)
	})
}

func TestRegistry_HydratesWishlistOnReopen(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(memory.NewLocalStorage())

	s, _ := r.Open(ctx, "")
	s.Wishlist.Toggle(ctx, "p1")
	s.Cart.AddItem(cartItem("p9"), 1)

	r.Close(s.ID)
	_, ok := r.Get(s.ID)
	require.False(t, ok)

	reopened, created := r.Open(ctx, s.ID)
	require.True(t, created)
	assert.NotSame(t, s, reopened)
	assert.True(t, reopened.Wishlist.Has("p1"))
	assert.Zero(t, reopened.Cart.Len())
}

func TestRegistry_ConcurrentOpenSharesSession(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(memory.NewLocalStorage())
	id := uuid.NewString()

	const n = 16
	sessions := make([]*Session, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sessions[i], _ = r.Open(ctx, id)
		}()
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

// ctxStorage fails every call made with a done context.
type ctxStorage struct {
	wishlist.Storage
}

func (s ctxStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return s.Storage.Load(ctx, key)
}

func TestRegistry_OpenIgnoresRequestCancellation(t *testing.T) {
	store := memory.NewLocalStorage()
	r := NewRegistry(func(id string) wishlist.Storage {
		return ctxStorage{Storage: store.Namespace(id)}
	}, time.Hour)

	s, _ := r.Open(context.Background(), "")
	s.Wishlist.Toggle(context.Background(), "p1")
	r.Close(s.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reopened, created := r.Open(ctx, s.ID)
	require.True(t, created)
	assert.True(t, reopened.Wishlist.Has("p1"))
}

func cartItem(id string) cart.Item {
	return cart.Item{ProductID: id, Name: id, UnitPrice: decimal.NewFromInt(10)}
}
