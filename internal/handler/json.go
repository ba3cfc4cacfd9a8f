package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/autoparts-storefront/internal/domain/checkout"
	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
	"github.com/xenking/autoparts-storefront/internal/domain/order"
	"github.com/xenking/autoparts-storefront/internal/domain/plate"
	"github.com/xenking/autoparts-storefront/internal/domain/product"
	"github.com/xenking/autoparts-storefront/internal/domain/supplier"
	"github.com/xenking/autoparts-storefront/internal/domain/vehicle"
)

const maxBodyBytes = 64 << 10

// apiError is a client-facing error with an optional offending field.
type apiError struct {
	status  int
	message string
	field   string
}

func (e *apiError) Error() string { return e.message }

func badRequest(msg string) error {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func invalidField(field, msg string) error {
	return &apiError{status: http.StatusUnprocessableEntity, message: msg, field: field}
}

// toAPIError maps domain errors to HTTP errors. Unknown errors map to nil.
func toAPIError(err error) *apiError {
	var (
		ae  *apiError
		ve  *checkout.ValidationError
		pve *product.ValidationError
		sve *supplier.ValidationError
		ube *vehicle.UnknownBrandError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.As(err, &ve):
		return &apiError{status: http.StatusUnprocessableEntity, message: ve.Message, field: ve.Field}
	case errors.As(err, &pve):
		return &apiError{status: http.StatusUnprocessableEntity, message: pve.Message, field: pve.Field}
	case errors.As(err, &sve):
		return &apiError{status: http.StatusUnprocessableEntity, message: sve.Message, field: sve.Field}
	case errors.Is(err, plate.ErrInvalidLength), errors.Is(err, plate.ErrInvalidFormat):
		return &apiError{status: http.StatusUnprocessableEntity, message: rootMessage(err), field: "plate"}
	case errors.Is(err, coupon.ErrInvalidCoupon),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponUsageLimitReached):
		return &apiError{status: http.StatusUnprocessableEntity, message: rootMessage(err), field: "code"}
	case errors.Is(err, checkout.ErrEmptyCart):
		return &apiError{status: http.StatusUnprocessableEntity, message: checkout.ErrEmptyCart.Error()}
	case errors.Is(err, checkout.ErrUserRequired):
		return &apiError{status: http.StatusUnauthorized, message: checkout.ErrUserRequired.Error()}
	case errors.As(err, &ube):
		return &apiError{status: http.StatusUnprocessableEntity, message: ube.Error(), field: "brand"}
	case errors.Is(err, vehicle.ErrNotFound):
		return &apiError{status: http.StatusNotFound, message: vehicle.ErrNotFound.Error()}
	case errors.Is(err, product.ErrNotFound):
		return &apiError{status: http.StatusNotFound, message: product.ErrNotFound.Error()}
	case errors.Is(err, supplier.ErrUserRequired):
		return &apiError{status: http.StatusUnauthorized, message: supplier.ErrUserRequired.Error()}
	case errors.Is(err, supplier.ErrNotFound):
		return &apiError{status: http.StatusNotFound, message: supplier.ErrNotFound.Error()}
	case errors.Is(err, supplier.ErrAlreadyRegistered):
		return &apiError{status: http.StatusConflict, message: supplier.ErrAlreadyRegistered.Error()}
	case errors.Is(err, supplier.ErrNotOwner):
		return &apiError{status: http.StatusForbidden, message: supplier.ErrNotOwner.Error()}
	case errors.Is(err, order.ErrRejected):
		return &apiError{status: http.StatusConflict, message: order.ErrRejected.Error()}
	}
	return nil
}

// rootMessage returns the message of the innermost wrapped error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// fail writes err as a JSON error response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	ae := toAPIError(err)
	if ae == nil {
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		ae = &apiError{status: http.StatusInternalServerError, message: "internal server error"}
	}

	writeJSON(w, ae.status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(ae.status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(ae.message) })
			if ae.field != "" {
				e.Field("field", func(e *jx.Encoder) { e.Str(ae.field) })
			}
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// decodeBody decodes a JSON object body field by field. Unknown fields are
// skipped.
func decodeBody(r *http.Request, field func(d *jx.Decoder, key string) error) error {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return &apiError{status: http.StatusRequestEntityTooLarge, message: "request body too large"}
		}
		return badRequest("failed to read request body")
	}
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return badRequest("request body must be a JSON object")
	}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		return field(d, string(key))
	}); err != nil {
		var ae *apiError
		if errors.As(err, &ae) {
			return err
		}
		return badRequest("malformed JSON body")
	}
	return nil
}

// money writes a decimal as a JSON number with two decimal places.
func money(e *jx.Encoder, v decimal.Decimal) {
	e.RawStr(v.StringFixed(2))
}

// decodeDecimal accepts a JSON number or numeric string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var s string
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		s = n.String()
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		s = v
	default:
		return decimal.Zero, badRequest("expected a number")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, badRequest("invalid number " + s)
	}
	return v, nil
}
