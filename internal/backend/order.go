package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/autoparts-storefront/internal/domain/order"
)

var _ order.Placer = (*Client)(nil)

// PlaceOrder mirrors items into the user's backend cart and checks it out.
// The backend cart is cleared first so that leftovers from earlier attempts
// do not leak into the order. 4xx responses are reported as
// order.ErrRejected.
func (c *Client) PlaceOrder(ctx context.Context, userID string, items []order.Item) (*order.Order, error) {
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"cart", userID},
		userID: userID,
	}, nil); err != nil && !isStatus(err, http.StatusConflict) {
		return nil, rejected(err, "create cart")
	}

	if err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   []string{"cart", userID, "clear"},
		userID: userID,
	}, nil); err != nil {
		return nil, rejected(err, "clear cart")
	}

	for _, item := range items {
		q := url.Values{}
		q.Set("productId", item.ProductID)
		q.Set("quantity", strconv.Itoa(item.Quantity))
		if err := c.do(ctx, request{
			method: http.MethodPost,
			path:   []string{"cart", userID, "add"},
			query:  q,
			userID: userID,
		}, nil); err != nil {
			return nil, rejected(err, "add "+item.ProductID)
		}
	}

	var o order.Order
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"cart", userID, "checkout"},
		userID: userID,
	}, func(d *jx.Decoder) error {
		return decodeOrder(d, &o)
	})
	if err != nil {
		return nil, rejected(err, "checkout")
	}
	if o.UserID == "" {
		o.UserID = userID
	}
	return &o, nil
}

// RejectedError is a 4xx answer to one step of order placement. It matches
// order.ErrRejected and unwraps to the backend status.
type RejectedError struct {
	Status *StatusError
}

func (e *RejectedError) Error() string {
	return order.ErrRejected.Error() + ": " + e.Status.Error()
}

func (e *RejectedError) Unwrap() error { return e.Status }

func (e *RejectedError) Is(target error) bool { return target == order.ErrRejected }

func rejected(err error, op string) error {
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
		return errors.Wrap(&RejectedError{Status: se}, op)
	}
	return errors.Wrap(err, op)
}

func decodeOrder(d *jx.Decoder, o *order.Order) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			o.ID, err = decodeText(d)
		case "user":
			if d.Next() != jx.Object {
				return d.Skip()
			}
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				if string(key) != "id" {
					return d.Skip()
				}
				o.UserID, err = decodeText(d)
				return err
			})
		case "items":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeOrderItem(d)
				o.Items = append(o.Items, item)
				return err
			})
		case "totalAmount":
			o.TotalAmount, err = decodeDecimal(d)
		case "totalItems":
			o.TotalItems, err = decodeInt(d)
		case "status":
			var s string
			s, err = decodeText(d)
			o.Status = order.Status(s)
		case "createdAt":
			var s string
			if s, err = decodeText(d); err == nil && s != "" {
				o.CreatedAt, err = parseTime(s)
			}
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeOrderItem(d *jx.Decoder) (order.Item, error) {
	var item order.Item
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "product":
			if d.Next() != jx.Object {
				return d.Skip()
			}
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				if string(key) != "id" {
					return d.Skip()
				}
				item.ProductID, err = decodeText(d)
				return err
			})
		case "quantity":
			item.Quantity, err = decodeInt(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

// parseTime accepts RFC 3339 and the zone-less ISO form some backends emit.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999999999", s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse time %q", s)
	}
	return t, nil
}
