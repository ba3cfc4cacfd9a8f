package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/cart"
	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
	"github.com/xenking/autoparts-storefront/internal/domain/order"
)

var (
	// ErrEmptyCart is returned when checking out a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUserRequired is returned when no user id accompanies the checkout.
	ErrUserRequired = errors.New("user id required")
)

// Request is a checkout attempt for one session.
type Request struct {
	UserID  string
	Contact Contact
	Cart    *cart.Store
	Coupon  *CouponSlot
}

// Result is a successful checkout.
type Result struct {
	Order   *order.Order
	Receipt *order.Receipt
	Totals  Totals
}

// Service places orders for session carts.
type Service struct {
	placer   order.Placer
	redeemer coupon.Redeemer
	receipts order.Repository
	now      func() time.Time

	mu    sync.Mutex
	carts map[*cart.Store]*cartLock
}

type cartLock struct {
	sync.Mutex
	refs int
}

// NewService creates a checkout Service. redeemer and receipts may be nil.
func NewService(placer order.Placer, redeemer coupon.Redeemer, receipts order.Repository) *Service {
	return &Service{
		placer:   placer,
		redeemer: redeemer,
		receipts: receipts,
		now:      time.Now,
		carts:    make(map[*cart.Store]*cartLock),
	}
}

// lock serializes checkouts of one cart and returns the unlock function.
func (s *Service) lock(c *cart.Store) func() {
	s.mu.Lock()
	l, ok := s.carts[c]
	if !ok {
		l = &cartLock{}
		s.carts[c] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.carts, c)
		}
		s.mu.Unlock()
	}
}

// Checkout validates the request, prices the cart and submits the order.
// Checkouts of the same cart run one at a time. Only after the order service
// accepted the order are the submitted lines taken out of the cart and the
// coupon released; any earlier failure leaves both untouched. Lines added
// while the order was in flight stay in the cart.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == "" {
		return nil, ErrUserRequired
	}
	if err := req.Contact.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lock(req.Cart)
	defer unlock()

	lines := req.Cart.List()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	slot := req.Coupon
	if slot == nil {
		slot = &CouponSlot{}
	}
	applied := &CouponSlot{}
	if rule, ok := slot.Rule(); ok {
		applied.rule = &rule
	}
	totals := QuoteLines(lines, applied)

	items := make([]order.Item, len(lines))
	for i, l := range lines {
		items[i] = order.Item{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	o, err := s.placer.PlaceOrder(ctx, req.UserID, items)
	if err != nil {
		return nil, errors.Wrap(err, "place order")
	}

	lg := zctx.From(ctx).With(zap.String("order_id", o.ID))
	code := ""
	if !totals.CouponDiscount.IsZero() {
		code = applied.Code()
	}

	if code != "" && s.redeemer != nil {
		if err := s.redeemer.Redeem(ctx, code); err != nil {
			lg.Warn("Redeem coupon", zap.String("coupon", code), zap.Error(err))
		}
	}

	now := s.now()
	receipt := &order.Receipt{
		ID:                uuid.New().String(),
		OrderID:           o.ID,
		UserID:            req.UserID,
		Items:             items,
		Subtotal:          totals.Subtotal,
		Shipping:          totals.Shipping,
		AutomaticDiscount: totals.AutomaticDiscount,
		CouponDiscount:    totals.CouponDiscount,
		Total:             totals.FinalTotal,
		CouponCode:        code,
		ContactEmail:      req.Contact.Email,
		EstimatedDelivery: EstimatedDelivery(totals.Subtotal, now),
		CreatedAt:         now,
	}
	if s.receipts != nil {
		if err := s.receipts.Create(ctx, receipt); err != nil {
			lg.Warn("Journal receipt", zap.Error(err))
		}
	}

	req.Cart.Subtract(lines)
	slot.RemoveCode(applied.Code())

	lg.Info("Order placed",
		zap.Int("items", len(items)),
		zap.Stringer("total", totals.FinalTotal),
	)

	return &Result{Order: o, Receipt: receipt, Totals: totals}, nil
}
