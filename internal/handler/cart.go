package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/internal/domain/cart"
	"github.com/xenking/autoparts-storefront/internal/domain/checkout"
	"github.com/xenking/autoparts-storefront/internal/session"
)

type addItemRequest struct {
	item     cart.Item
	quantity int
	hasPrice bool
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	_, s := h.session(w, r)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, s.Cart) })
}

// addCartItem adds a product. Name, price and image are taken from the body
// when a price is given, otherwise from the catalog.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)

	var req addItemRequest
	if err := decodeBody(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			req.item.ProductID, err = d.Str()
		case "name":
			req.item.Name, err = d.Str()
		case "unitPrice":
			req.item.UnitPrice, err = decodeDecimal(d)
			req.hasPrice = true
		case "imageRef":
			req.item.ImageRef, err = d.Str()
		case "quantity":
			req.quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		fail(w, r, err)
		return
	}
	if req.item.ProductID == "" {
		fail(w, r, invalidField("productId", "productId is required"))
		return
	}

	if !req.hasPrice {
		item, err := h.catalogItem(ctx, req.item.ProductID)
		if err != nil {
			fail(w, r, err)
			return
		}
		req.item = item
	} else if req.item.UnitPrice.IsNegative() {
		fail(w, r, invalidField("unitPrice", "unitPrice must not be negative"))
		return
	}

	s.Cart.AddItem(req.item, req.quantity)
	h.countCart(ctx, "add")
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, s.Cart) })
}

func (h *Handler) catalogItem(ctx context.Context, id string) (cart.Item, error) {
	p, err := h.catalog.GetByID(ctx, id)
	if err != nil {
		return cart.Item{}, err
	}
	return cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.Thumbnail(),
	}, nil
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)

	quantity, seen := 0, false
	if err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		seen = true
		var err error
		quantity, err = d.Int()
		return err
	}); err != nil {
		fail(w, r, err)
		return
	}
	if !seen {
		fail(w, r, invalidField("quantity", "quantity is required"))
		return
	}

	s.Cart.UpdateQuantity(r.PathValue("id"), quantity)
	h.countCart(ctx, "update")
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, s.Cart) })
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)
	s.Cart.RemoveItem(r.PathValue("id"))
	h.countCart(ctx, "remove")
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, s.Cart) })
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)
	s.Cart.Clear()
	h.countCart(ctx, "clear")
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, s.Cart) })
}

func (h *Handler) getTotals(w http.ResponseWriter, r *http.Request) {
	_, s := h.session(w, r)
	writeTotals(w, s)
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)

	var code string
	if err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != "code" {
			return d.Skip()
		}
		var err error
		code, err = d.Str()
		return err
	}); err != nil {
		fail(w, r, err)
		return
	}

	items := checkout.CouponItems(s.Cart.List())
	if _, err := s.Coupon.Apply(ctx, h.coupons, code, items); err != nil {
		h.couponsUsed.Add(ctx, 1, outcome("rejected"))
		fail(w, r, err)
		return
	}
	h.couponsUsed.Add(ctx, 1, outcome("applied"))
	writeTotals(w, s)
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	_, s := h.session(w, r)
	s.Coupon.Remove()
	writeTotals(w, s)
}

func writeTotals(w http.ResponseWriter, s *session.Session) {
	totals := checkout.Quote(s.Cart, s.Coupon)
	code := s.Coupon.Code()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeTotals(e, totals, code, checkout.EstimatedDelivery(totals.Subtotal, time.Now()))
	})
}

func encodeCart(e *jx.Encoder, c *cart.Store) {
	lines := c.List()
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
		count += l.Quantity
	}

	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range lines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Str(l.ProductID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
						e.Field("unitPrice", func(e *jx.Encoder) { money(e, l.UnitPrice) })
						e.Field("imageRef", func(e *jx.Encoder) { e.Str(l.ImageRef) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
						e.Field("total", func(e *jx.Encoder) { money(e, l.Total()) })
					})
				}
			})
		})
		e.Field("count", func(e *jx.Encoder) { e.Int(count) })
		e.Field("subtotal", func(e *jx.Encoder) { money(e, subtotal) })
	})
}

func encodeTotals(e *jx.Encoder, t checkout.Totals, code string, delivery time.Time) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("subtotal", func(e *jx.Encoder) { money(e, t.Subtotal) })
		e.Field("shipping", func(e *jx.Encoder) { money(e, t.Shipping) })
		e.Field("freeShipping", func(e *jx.Encoder) { e.Bool(t.FreeShipping()) })
		e.Field("automaticDiscount", func(e *jx.Encoder) { money(e, t.AutomaticDiscount) })
		e.Field("couponDiscount", func(e *jx.Encoder) { money(e, t.CouponDiscount) })
		e.Field("finalTotal", func(e *jx.Encoder) { money(e, t.FinalTotal) })
		if code != "" {
			e.Field("couponCode", func(e *jx.Encoder) { e.Str(code) })
		}
		e.Field("estimatedDelivery", func(e *jx.Encoder) { e.Str(delivery.Format(time.DateOnly)) })
	})
}
