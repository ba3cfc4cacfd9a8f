// Package cart holds the in-session shopping cart: a keyed collection of line
// items with derived count and subtotal selectors.
//
// The cart lives in memory only. Descriptive fields of a line item are fixed
// by the first AddItem call for its product; later calls only accumulate
// quantity.
package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/pkg/observer"
)

// Item describes a product as it is added to the cart.
type Item struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
}

// LineItem is one product entry in the cart. Quantity is always at least 1.
type LineItem struct {
	Item
	Quantity int
}

// Total returns quantity × unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store is the authoritative cart for one browsing session. It is safe for
// concurrent use; listeners registered with Subscribe run after every
// mutation that changed state.
type Store struct {
	mu    sync.RWMutex
	items map[string]*LineItem
	order []string

	subs observer.Set
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{items: make(map[string]*LineItem)}
}

// AddItem adds qty units of item. Non-positive quantities are clamped to 1.
// When the product is already in the cart only its quantity grows.
func (s *Store) AddItem(item Item, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	if existing, ok := s.items[item.ProductID]; ok {
		existing.Quantity += qty
	} else {
		s.items[item.ProductID] = &LineItem{Item: item, Quantity: qty}
		s.order = append(s.order, item.ProductID)
	}
	s.mu.Unlock()

	s.subs.Notify()
}

// RemoveItem deletes the line item for productID. Removing an absent product
// is a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	removed := s.removeLocked(productID)
	s.mu.Unlock()

	if removed {
		s.subs.Notify()
	}
}

// UpdateQuantity sets the absolute quantity of a line item. A quantity of
// zero or less removes it; absent products are left alone.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	changed := false
	if li, ok := s.items[productID]; ok {
		if quantity <= 0 {
			changed = s.removeLocked(productID)
		} else if li.Quantity != quantity {
			li.Quantity = quantity
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.subs.Notify()
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	changed := len(s.items) > 0
	s.items = make(map[string]*LineItem)
	s.order = nil
	s.mu.Unlock()

	if changed {
		s.subs.Notify()
	}
}

// Subtract takes the quantities of lines out of the cart. A line whose
// quantity drops to zero or below is removed; products no longer in the cart
// are skipped. Lines added or raised since lines was read stay behind.
func (s *Store) Subtract(lines []LineItem) {
	s.mu.Lock()
	changed := false
	for _, l := range lines {
		li, ok := s.items[l.ProductID]
		if !ok || l.Quantity <= 0 {
			continue
		}
		if li.Quantity <= l.Quantity {
			s.removeLocked(l.ProductID)
		} else {
			li.Quantity -= l.Quantity
		}
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.subs.Notify()
	}
}

func (s *Store) removeLocked(productID string) bool {
	if _, ok := s.items[productID]; !ok {
		return false
	}
	delete(s.items, productID)
	if i := slices.Index(s.order, productID); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// Get returns a copy of the line item for productID.
func (s *Store) Get(productID string) (LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	li, ok := s.items[productID]
	if !ok {
		return LineItem{}, false
	}
	return *li, true
}

// List returns copies of all line items in insertion order.
func (s *Store) List() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LineItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

// Len returns the number of distinct products in the cart.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Count returns the sum of quantities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, li := range s.items {
		n += li.Quantity
	}
	return n
}

// Subtotal returns the sum of quantity × unit price over all line items.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, li := range s.items {
		sum = sum.Add(li.Total())
	}
	return sum
}

// Subscribe registers fn to run after each state change and returns a
// function that removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.subs.Add(fn)
}
