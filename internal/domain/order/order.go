// Package order describes orders handed to the external order service and
// the local receipt journal.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrRejected is returned by a Placer when the backend refused the order.
var ErrRejected = errors.New("order rejected")

// Status is the lifecycle state reported by the order service.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusDelivered Status = "DELIVERED"
)

// Order is an order as created by the order service.
type Order struct {
	ID          string
	UserID      string
	Items       []Item
	TotalAmount decimal.Decimal
	TotalItems  int
	Status      Status
	CreatedAt   time.Time
}

// Item is a (product, quantity) pair sent to the order service.
type Item struct {
	ProductID string
	Quantity  int
}

// Placer is the order service collaborator.
type Placer interface {
	PlaceOrder(ctx context.Context, userID string, items []Item) (*Order, error)
}

// Receipt is the storefront's record of a completed checkout: the order the
// service created plus the totals the customer was shown.
type Receipt struct {
	ID                string
	OrderID           string
	UserID            string
	Items             []Item
	Subtotal          decimal.Decimal
	Shipping          decimal.Decimal
	AutomaticDiscount decimal.Decimal
	CouponDiscount    decimal.Decimal
	Total             decimal.Decimal
	CouponCode        string
	ContactEmail      string
	EstimatedDelivery time.Time
	CreatedAt         time.Time
}

// Repository defines persistence operations for receipts.
type Repository interface {
	Create(ctx context.Context, r *Receipt) error
}
