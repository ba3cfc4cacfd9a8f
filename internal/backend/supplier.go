package backend

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/internal/domain/supplier"
)

var (
	_ supplier.Directory  = (*Client)(nil)
	_ supplier.Dashboards = (*Client)(nil)
)

// ListSuppliers returns every registered supplier.
func (c *Client) ListSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	var out []supplier.Supplier
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"suppliers"}}, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			var s supplier.Supplier
			if err := decodeSupplier(d, &s); err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list suppliers")
	}
	return out, nil
}

// GetSupplier fetches one supplier. Unknown ids yield supplier.ErrNotFound.
func (c *Client) GetSupplier(ctx context.Context, id string) (*supplier.Supplier, error) {
	return c.getSupplier(ctx, request{method: http.MethodGet, path: []string{"suppliers", id}})
}

// MySupplier fetches the profile owned by userID.
func (c *Client) MySupplier(ctx context.Context, userID string) (*supplier.Supplier, error) {
	return c.getSupplier(ctx, request{method: http.MethodGet, path: []string{"suppliers", "me"}, userID: userID})
}

func (c *Client) getSupplier(ctx context.Context, req request) (*supplier.Supplier, error) {
	var s supplier.Supplier
	err := c.do(ctx, req, func(d *jx.Decoder) error {
		return decodeSupplier(d, &s)
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, supplier.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get supplier")
	}
	return &s, nil
}

// CreateSupplier registers a supplier profile for userID. A 409 yields
// supplier.ErrAlreadyRegistered.
func (c *Client) CreateSupplier(ctx context.Context, userID string, in supplier.Input) (*supplier.Supplier, error) {
	var s supplier.Supplier
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"suppliers"},
		userID: userID,
		body:   encodeSupplierInput(in),
	}, func(d *jx.Decoder) error {
		return decodeSupplier(d, &s)
	})
	if isStatus(err, http.StatusConflict) {
		return nil, supplier.ErrAlreadyRegistered
	}
	if err != nil {
		return nil, errors.Wrap(err, "create supplier")
	}
	return &s, nil
}

// UpdateSupplier replaces the profile fields of supplier id.
func (c *Client) UpdateSupplier(ctx context.Context, userID, id string, in supplier.Input) (*supplier.Supplier, error) {
	var s supplier.Supplier
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   []string{"suppliers", id},
		userID: userID,
		body:   encodeSupplierInput(in),
	}, func(d *jx.Decoder) error {
		return decodeSupplier(d, &s)
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, supplier.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update supplier %s", id)
	}
	return &s, nil
}

// DeleteSupplier removes supplier id.
func (c *Client) DeleteSupplier(ctx context.Context, userID, id string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   []string{"suppliers", id},
		userID: userID,
	}, nil)
	if isStatus(err, http.StatusNotFound) {
		return supplier.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "delete supplier %s", id)
	}
	return nil
}

// Dashboard fetches the stock and sales statistics of userID's supplier.
func (c *Client) Dashboard(ctx context.Context, userID string) (*supplier.Dashboard, error) {
	var out supplier.Dashboard
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{"dashboard"},
		userID: userID,
	}, func(d *jx.Decoder) error {
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			switch string(key) {
			case "stockStatistics":
				return decodeStock(d, &out.Stock)
			case "salesStatistics":
				return decodeSales(d, &out.Sales)
			default:
				return d.Skip()
			}
		})
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, supplier.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get dashboard")
	}
	return &out, nil
}

func encodeSupplierInput(in supplier.Input) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		for _, f := range []struct{ key, value string }{
			{"name", in.Name},
			{"description", in.Description},
			{"email", in.Email},
			{"phone", in.Phone.Display()},
			{"address", in.Address},
			{"city", in.City},
			{"state", in.State},
			{"zipCode", in.ZipCode.Display()},
			{"country", in.Country},
			{"contactPerson", in.ContactPerson},
		} {
			e.Field(f.key, func(e *jx.Encoder) { e.Str(f.value) })
		}
	})
	return e.Bytes()
}

func decodeSupplier(d *jx.Decoder, s *supplier.Supplier) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var dst *string
		switch string(key) {
		case "id":
			dst = &s.ID
		case "name":
			dst = &s.Name
		case "description":
			dst = &s.Description
		case "email":
			dst = &s.Email
		case "phone":
			dst = &s.Phone
		case "address":
			dst = &s.Address
		case "city":
			dst = &s.City
		case "state":
			dst = &s.State
		case "zipCode":
			dst = &s.ZipCode
		case "country":
			dst = &s.Country
		case "contactPerson":
			dst = &s.ContactPerson
		case "createdAt", "updatedAt":
			v, err := decodeText(d)
			if err != nil || v == "" {
				return err
			}
			t, err := parseTime(v)
			if err != nil {
				return err
			}
			if string(key) == "createdAt" {
				s.CreatedAt = t
			} else {
				s.UpdatedAt = t
			}
			return nil
		default:
			return d.Skip()
		}
		v, err := decodeText(d)
		*dst = v
		return err
	})
}

func decodeStock(d *jx.Decoder, s *supplier.StockStatistics) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "totalProducts":
			s.TotalProducts, err = decodeInt(d)
		case "totalStock":
			s.TotalStock, err = decodeInt(d)
		case "activeProducts":
			s.ActiveProducts, err = decodeInt(d)
		case "inactiveProducts":
			s.InactiveProducts, err = decodeInt(d)
		case "totalStockValue":
			s.TotalStockValue, err = decodeDecimal(d)
		case "stockByCategory":
			s.StockByCategory, err = decodeCounts(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeSales(d *jx.Decoder, s *supplier.SalesStatistics) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "totalOrders":
			s.TotalOrders, err = decodeInt(d)
		case "totalItemsSold":
			s.TotalItemsSold, err = decodeInt(d)
		case "totalRevenue":
			s.TotalRevenue, err = decodeDecimal(d)
		case "averageOrderValue":
			s.AverageOrderValue, err = decodeDecimal(d)
		case "ordersByStatus":
			s.OrdersByStatus, err = decodeCounts(d)
		case "revenueByMonth":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s.RevenueByMonth = make(map[string]decimal.Decimal)
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				v, err := decodeDecimal(d)
				s.RevenueByMonth[string(key)] = v
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeCounts(d *jx.Decoder) (map[string]int, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	out := make(map[string]int)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		n, err := decodeInt(d)
		out[string(key)] = n
		return err
	})
	return out, err
}
