// Package handler exposes the storefront session API over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/checkout"
	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
	"github.com/xenking/autoparts-storefront/internal/domain/product"
	"github.com/xenking/autoparts-storefront/internal/domain/supplier"
	"github.com/xenking/autoparts-storefront/internal/domain/vehicle"
	"github.com/xenking/autoparts-storefront/internal/session"
)

const (
	// SessionHeader carries the browsing session id. A new id is returned
	// when the request has none.
	SessionHeader = "X-Session-ID"
	// UserHeader identifies the signed-in user at checkout and in the
	// supplier console.
	UserHeader = "X-User-Id"
)

// Deps are the collaborators of Handler. All are required.
type Deps struct {
	Sessions  *session.Registry
	Coupons   coupon.Validator
	Vehicles  *vehicle.Resolver
	Catalog   product.Catalog
	Checkout  *checkout.Service
	Suppliers *supplier.Console
	Meter     metric.Meter
}

// Handler serves the /api routes.
type Handler struct {
	sessions *session.Registry
	coupons  coupon.Validator
	vehicles *vehicle.Resolver
	catalog   product.Catalog
	checkout  *checkout.Service
	suppliers *supplier.Console

	cartOps     metric.Int64Counter
	couponsUsed metric.Int64Counter
	orders      metric.Int64Counter
}

// New creates a Handler.
func New(deps Deps) (*Handler, error) {
	switch {
	case deps.Sessions == nil:
		return nil, errors.New("sessions required")
	case deps.Coupons == nil:
		return nil, errors.New("coupon validator required")
	case deps.Vehicles == nil:
		return nil, errors.New("vehicle resolver required")
	case deps.Catalog == nil:
		return nil, errors.New("catalog required")
	case deps.Checkout == nil:
		return nil, errors.New("checkout service required")
	case deps.Suppliers == nil:
		return nil, errors.New("supplier console required")
	case deps.Meter == nil:
		return nil, errors.New("meter required")
	}

	h := &Handler{
		sessions:  deps.Sessions,
		coupons:   deps.Coupons,
		vehicles:  deps.Vehicles,
		catalog:   deps.Catalog,
		checkout:  deps.Checkout,
		suppliers: deps.Suppliers,
	}

	var err error
	if h.cartOps, err = deps.Meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart mutations by operation"),
	); err != nil {
		return nil, err
	}
	if h.couponsUsed, err = deps.Meter.Int64Counter("storefront.coupons.applied",
		metric.WithDescription("Coupon apply attempts by outcome"),
	); err != nil {
		return nil, err
	}
	if h.orders, err = deps.Meter.Int64Counter("storefront.orders",
		metric.WithDescription("Checkout attempts by outcome"),
	); err != nil {
		return nil, err
	}
	return h, nil
}

// Routes registers every API route on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, labeled(pattern, fn))
	}

	handle("GET /api/cart", h.getCart)
	handle("POST /api/cart/items", h.addCartItem)
	handle("PUT /api/cart/items/{id}", h.updateCartItem)
	handle("DELETE /api/cart/items/{id}", h.removeCartItem)
	handle("DELETE /api/cart", h.clearCart)
	handle("GET /api/cart/totals", h.getTotals)
	handle("POST /api/cart/coupon", h.applyCoupon)
	handle("DELETE /api/cart/coupon", h.removeCoupon)

	handle("GET /api/wishlist", h.getWishlist)
	handle("POST /api/wishlist/{id}/toggle", h.toggleWishlist)
	handle("DELETE /api/wishlist", h.clearWishlist)

	handle("POST /api/plates/parse", h.parsePlate)
	handle("GET /api/vehicles/{plate}/recommendations", h.recommendations)
	handle("POST /api/masks/{kind}", h.applyMask)

	handle("GET /api/categories", h.listCategories)
	handle("GET /api/products", h.listProducts)
	handle("GET /api/products/{id}", h.getProduct)

	handle("POST /api/checkout", h.placeOrder)

	handle("GET /api/suppliers", h.listSuppliers)
	handle("GET /api/suppliers/{id}", h.getSupplier)
	handle("GET /api/supplier/profile", h.getProfile)
	handle("POST /api/supplier/profile", h.registerSupplier)
	handle("PUT /api/supplier/profile", h.updateProfile)
	handle("DELETE /api/supplier/profile", h.unregisterSupplier)
	handle("GET /api/supplier/dashboard", h.getDashboard)
	handle("GET /api/supplier/products", h.listOwnProducts)
	handle("POST /api/supplier/products", h.createProduct)
	handle("PUT /api/supplier/products/{id}", h.updateProduct)
	handle("DELETE /api/supplier/products/{id}", h.deleteProduct)

	return mux
}

// labeled tags the request metrics with the route pattern.
func labeled(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l, ok := otelhttp.LabelerFromContext(r.Context()); ok {
			l.Add(attribute.String("http.route", pattern))
		}
		next.ServeHTTP(w, r)
	})
}

// session opens the caller's session, echoes its id and scopes the context
// logger to it.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (context.Context, *session.Session) {
	s, _ := h.sessions.Open(r.Context(), r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, s.ID)
	return zctx.With(r.Context(), zap.String("session_id", s.ID)), s
}

func (h *Handler) countCart(ctx context.Context, op string) {
	h.cartOps.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
