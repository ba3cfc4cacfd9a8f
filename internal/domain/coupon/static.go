package coupon

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// StorefrontRules are the coupons the storefront honours without any
// external coupon source.
func StorefrontRules() []Rule {
	return []Rule{
		{
			Code:         "AUTOPARTS10",
			DiscountType: DiscountPercentage,
			Value:        decimal.NewFromInt(10),
			Description:  "10% off the order subtotal",
		},
	}
}

// StaticRepository serves a fixed set of rules from memory. Usage counters
// are kept in memory as well.
type StaticRepository struct {
	mu    sync.Mutex
	rules map[string]Rule
}

var _ Repository = (*StaticRepository)(nil)

// NewStaticRepository indexes rules by their normalized code.
func NewStaticRepository(rules ...Rule) *StaticRepository {
	r := &StaticRepository{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		rule.Code = NormalizeCode(rule.Code)
		r.rules[rule.Code] = rule
	}
	return r
}

// FindByCode returns a copy of the rule for code.
func (r *StaticRepository) FindByCode(_ context.Context, code string) (*Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.rules[NormalizeCode(code)]
	if !ok {
		return nil, ErrInvalidCoupon
	}
	return &rule, nil
}

// IncrementUses bumps the in-memory usage counter.
func (r *StaticRepository) IncrementUses(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = NormalizeCode(code)
	rule, ok := r.rules[code]
	if !ok {
		return ErrInvalidCoupon
	}
	rule.Uses++
	r.rules[code] = rule
	return nil
}

// Codes lists the known codes.
func (r *StaticRepository) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make([]string, 0, len(r.rules))
	for code := range r.rules {
		codes = append(codes, code)
	}
	return codes
}
