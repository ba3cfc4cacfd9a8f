package checkout

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/internal/domain/cart"
	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
)

// CouponSlot holds the single coupon applied to a session. The discount is
// recomputed from the live cart on every read.
type CouponSlot struct {
	mu   sync.Mutex
	rule *coupon.Rule
}

// Apply validates code against items and, on success, replaces any coupon
// already in the slot. A failed validation leaves the slot unchanged.
func (s *CouponSlot) Apply(ctx context.Context, v coupon.Validator, code string, items []coupon.Item) (*coupon.Applied, error) {
	applied, err := v.Validate(ctx, code, items)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	rule := applied.Rule
	s.rule = &rule
	s.mu.Unlock()

	return applied, nil
}

// Code returns the applied coupon code or "" when the slot is empty.
func (s *CouponSlot) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rule == nil {
		return ""
	}
	return s.rule.Code
}

// Rule returns a copy of the applied rule.
func (s *CouponSlot) Rule() (coupon.Rule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rule == nil {
		return coupon.Rule{}, false
	}
	return *s.rule, true
}

// Discount evaluates the applied coupon against items. It is zero when the
// slot is empty or the items no longer qualify.
func (s *CouponSlot) Discount(items []coupon.Item) decimal.Decimal {
	rule, ok := s.Rule()
	if !ok {
		return decimal.Zero
	}
	d, err := coupon.Apply(&rule, items)
	if err != nil {
		return decimal.Zero
	}
	return d.Amount
}

// Remove empties the slot.
func (s *CouponSlot) Remove() {
	s.mu.Lock()
	s.rule = nil
	s.mu.Unlock()
}

// RemoveCode empties the slot only while it still holds code. A coupon
// applied in the meantime is kept.
func (s *CouponSlot) RemoveCode(code string) {
	s.mu.Lock()
	if s.rule != nil && s.rule.Code == code {
		s.rule = nil
	}
	s.mu.Unlock()
}

// CouponItems converts cart lines into coupon evaluation items.
func CouponItems(lines []cart.LineItem) []coupon.Item {
	items := make([]coupon.Item, len(lines))
	for i, l := range lines {
		items[i] = coupon.Item{
			ProductID: l.ProductID,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	return items
}

// Quote computes the totals for a cart with the slot's coupon applied.
func Quote(c *cart.Store, slot *CouponSlot) Totals {
	return QuoteLines(c.List(), slot)
}

// QuoteLines computes the totals for a fixed set of cart lines.
func QuoteLines(lines []cart.LineItem, slot *CouponSlot) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	return Calculate(subtotal, slot.Discount(CouponItems(lines)))
}
