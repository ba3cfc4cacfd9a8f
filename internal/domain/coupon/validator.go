package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Applied is a rule that passed validation together with the discount it
// yields for the items it was validated against.
type Applied struct {
	Rule     Rule
	Discount Discount
}

// Validator checks a coupon code against a set of cart items.
type Validator interface {
	Validate(ctx context.Context, code string, items []Item) (*Applied, error)
}

// Redeemer records that a coupon was used by a placed order.
type Redeemer interface {
	Redeem(ctx context.Context, code string) error
}

// RepoValidator implements Validator and Redeemer on top of a Repository.
type RepoValidator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Validate looks up the rule for code, checks its validity window and usage
// limit and applies it to items. It has no side effects; see Redeem.
func (v *RepoValidator) Validate(ctx context.Context, code string, items []Item) (*Applied, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrInvalidCoupon
	}

	rule, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	now := v.now()
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return nil, ErrCouponExpired
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return nil, ErrCouponExpired
	}
	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrCouponUsageLimitReached
	}

	d, err := Apply(rule, items)
	if err != nil {
		return nil, err
	}
	return &Applied{Rule: *rule, Discount: d}, nil
}

// Redeem increments the usage counter of code.
func (v *RepoValidator) Redeem(ctx context.Context, code string) error {
	if err := v.repo.IncrementUses(ctx, NormalizeCode(code)); err != nil {
		return errors.Wrap(err, "increment coupon uses")
	}
	return nil
}
