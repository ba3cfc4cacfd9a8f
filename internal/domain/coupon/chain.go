package coupon

import (
	"context"

	"github.com/go-faster/errors"
)

// ChainRepository consults several repositories in order. The first one that
// knows a code owns it, for lookups and usage counting alike.
type ChainRepository []Repository

var _ Repository = ChainRepository(nil)

// FindByCode returns the rule from the first repository that knows code.
func (c ChainRepository) FindByCode(ctx context.Context, code string) (*Rule, error) {
	for _, r := range c {
		rule, err := r.FindByCode(ctx, code)
		if errors.Is(err, ErrInvalidCoupon) {
			continue
		}
		return rule, err
	}
	return nil, ErrInvalidCoupon
}

// IncrementUses increments the counter in the repository owning code.
func (c ChainRepository) IncrementUses(ctx context.Context, code string) error {
	for _, r := range c {
		if _, err := r.FindByCode(ctx, code); err != nil {
			if errors.Is(err, ErrInvalidCoupon) {
				continue
			}
			return err
		}
		return r.IncrementUses(ctx, code)
	}
	return ErrInvalidCoupon
}
