package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/autoparts-storefront/internal/domain/order"
)

const createReceiptSQL = `INSERT INTO receipts (id, order_id, user_id, items, subtotal, shipping,
	automatic_discount, coupon_discount, total, coupon_code, contact_email, estimated_delivery, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository journals checkout receipts in PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a receipt. Items are stored as a JSONB array.
func (r *OrderRepository) Create(ctx context.Context, rc *order.Receipt) error {
	_, err := r.pool.Exec(ctx, createReceiptSQL,
		rc.ID, rc.OrderID, rc.UserID, encodeItems(rc.Items),
		rc.Subtotal, rc.Shipping, rc.AutomaticDiscount, rc.CouponDiscount, rc.Total,
		rc.CouponCode, rc.ContactEmail, rc.EstimatedDelivery, rc.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create receipt for order %q", rc.OrderID)
	}
	return nil
}

func encodeItems(items []order.Item) string {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, item := range items {
			e.Obj(func(e *jx.Encoder) {
				e.Field("productId", func(e *jx.Encoder) { e.Str(item.ProductID) })
				e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
			})
		}
	})
	return e.String()
}
