// Package wishlist keeps the set of products saved for later. Unlike the
// cart, the set survives sessions: it is written to durable storage after
// every mutation and read back by Hydrate.
package wishlist

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/pkg/observer"
)

// StorageKey is the key the wishlist is persisted under.
const StorageKey = "wishlist:ids"

// Storage is the durable key/value store the wishlist persists to.
type Storage interface {
	// Load returns the value for key. A missing key is reported with
	// ok=false and a nil error.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is the wishlist of one browsing session.
//
// Hydrate is meant to run once before any Toggle: it replaces the in-memory
// set with whatever storage holds.
type Store struct {
	storage Storage

	mu  sync.RWMutex
	ids map[string]struct{}

	subs observer.Set
}

// NewStore returns an empty wishlist backed by storage.
func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		ids:     make(map[string]struct{}),
	}
}

// Toggle flips membership of productID, persists the result and reports
// whether the product is now in the wishlist. Storage failures are logged
// and otherwise ignored.
func (s *Store) Toggle(ctx context.Context, productID string) bool {
	s.mu.Lock()
	_, present := s.ids[productID]
	if present {
		delete(s.ids, productID)
	} else {
		s.ids[productID] = struct{}{}
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.subs.Notify()
	return !present
}

// Has reports whether productID is in the wishlist.
func (s *Store) Has(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ids[productID]
	return ok
}

// IDs returns the wishlist members in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Len returns the number of saved products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Hydrate replaces the in-memory set with the persisted one. Missing,
// unreadable or corrupt data yields an empty set.
func (s *Store) Hydrate(ctx context.Context) {
	ids := s.load(ctx)

	s.mu.Lock()
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.mu.Unlock()

	s.subs.Notify()
}

func (s *Store) load(ctx context.Context) []string {
	lg := zctx.From(ctx)

	raw, ok, err := s.storage.Load(ctx, StorageKey)
	if err != nil {
		lg.Warn("Load wishlist", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	ids, err := Decode(raw)
	if err != nil {
		lg.Warn("Discarding stored wishlist", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil
	}
	return ids
}

// Clear empties the wishlist and removes it from storage.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.ids = make(map[string]struct{})
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		zctx.From(ctx).Warn("Delete wishlist", zap.Error(err))
	}
	s.mu.Unlock()

	s.subs.Notify()
}

// Subscribe registers fn to run after each mutation and returns a function
// that removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.subs.Add(fn)
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := s.storage.Save(ctx, StorageKey, Encode(s.sortedLocked())); err != nil {
		zctx.From(ctx).Warn("Persist wishlist", zap.Error(err))
	}
}

func (s *Store) sortedLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
