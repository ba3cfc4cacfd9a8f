// Package session keeps per-visitor storefront state: cart, wishlist and the
// applied coupon.
package session

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/autoparts-storefront/internal/domain/cart"
	"github.com/xenking/autoparts-storefront/internal/domain/checkout"
	"github.com/xenking/autoparts-storefront/internal/domain/wishlist"
)

// Session is the state of one browsing session.
type Session struct {
	ID       string
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Coupon   *checkout.CouponSlot
}

// StorageFunc returns the durable storage for a session's wishlist.
type StorageFunc func(sessionID string) wishlist.Storage

// Registry holds live sessions and drops them after IdleTimeout without
// access. Carts and coupons live only as long as the session; wishlists
// are reloaded from storage when a session is reopened.
type Registry struct {
	storage  StorageFunc
	sessions *gocache.Cache
	opening  singleflight.Group
}

// NewRegistry creates a Registry.
func NewRegistry(storage StorageFunc, idleTimeout time.Duration) *Registry {
	return &Registry{
		storage:  storage,
		sessions: gocache.New(idleTimeout, idleTimeout),
	}
}

// Open returns the session for id, creating it when needed. An empty or
// malformed id gets a freshly minted one; created reports whether the
// session is new. A new session's wishlist is hydrated before Open returns,
// so no toggle can race the initial load.
func (r *Registry) Open(ctx context.Context, id string) (s *Session, created bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	if s, ok := r.lookup(id); ok {
		return s, false
	}

	v, _, shared := r.opening.Do(id, func() (any, error) {
		if s, ok := r.lookup(id); ok {
			return s, nil
		}

		s := &Session{
			ID:       id,
			Cart:     cart.NewStore(),
			Wishlist: wishlist.NewStore(r.storage(id)),
			Coupon:   &checkout.CouponSlot{},
		}
		// The session outlives this request, so a client abort must not
		// leave it with an empty wishlist that the next toggle persists.
		s.Wishlist.Hydrate(context.WithoutCancel(ctx))
		r.sessions.SetDefault(id, s)

		zctx.From(ctx).Debug("Session opened",
			zap.String("session_id", id),
			zap.Int("wishlist", s.Wishlist.Len()),
		)
		return s, nil
	})
	return v.(*Session), !shared
}

// Get returns a live session without creating one.
func (r *Registry) Get(id string) (*Session, bool) {
	return r.lookup(id)
}

// Close drops the session. The persisted wishlist is kept.
func (r *Registry) Close(id string) {
	r.sessions.Delete(id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}

// lookup refreshes the idle timer on hit.
func (r *Registry) lookup(id string) (*Session, bool) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	r.sessions.SetDefault(id, s)
	return s, true
}
