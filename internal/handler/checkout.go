package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/autoparts-storefront/internal/domain/checkout"
)

func outcome(v string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", v))
}

// placeOrder checks out the session cart for the user in X-User-Id.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)

	var name, email, address, cep, phone string
	if err := decodeBody(r, func(d *jx.Decoder, key string) error {
		var dst *string
		switch key {
		case "name":
			dst = &name
		case "email":
			dst = &email
		case "address":
			dst = &address
		case "cep":
			dst = &cep
		case "phone":
			dst = &phone
		default:
			return d.Skip()
		}
		v, err := d.Str()
		*dst = v
		return err
	}); err != nil {
		fail(w, r, err)
		return
	}

	res, err := h.checkout.Checkout(ctx, checkout.Request{
		UserID:  r.Header.Get(UserHeader),
		Contact: checkout.NewContact(name, email, address, cep, phone),
		Cart:    s.Cart,
		Coupon:  s.Coupon,
	})
	if err != nil {
		h.orders.Add(ctx, 1, outcome("failed"))
		fail(w, r, err)
		return
	}
	h.orders.Add(ctx, 1, outcome("placed"))

	rc := res.Receipt
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("orderId", func(e *jx.Encoder) { e.Str(res.Order.ID) })
			e.Field("receiptId", func(e *jx.Encoder) { e.Str(rc.ID) })
			e.Field("status", func(e *jx.Encoder) { e.Str(string(res.Order.Status)) })
			e.Field("totals", func(e *jx.Encoder) {
				encodeTotals(e, res.Totals, rc.CouponCode, rc.EstimatedDelivery)
			})
			e.Field("createdAt", func(e *jx.Encoder) { e.Str(rc.CreatedAt.Format(time.RFC3339)) })
		})
	})
}
