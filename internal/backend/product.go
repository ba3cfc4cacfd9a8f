package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/internal/domain/product"
)

const defaultPageSize = 10

var _ product.Catalog = (*Client)(nil)

// List returns a page of products. The backend exposes one endpoint per
// filter, so only one of category, brand, name, price range or supplier is
// applied, in that order of precedence.
func (c *Client) List(ctx context.Context, f product.Filters) (*product.Page, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	size := f.Size
	if size == 0 {
		size = defaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("size", strconv.Itoa(size))

	var path []string
	switch {
	case f.Category != "":
		path = []string{"products", "category", string(f.Category)}
	case f.Brand != "":
		path = []string{"products", "brand", f.Brand}
	case f.Name != "":
		path = []string{"products", "search"}
		q.Set("name", f.Name)
	case f.MinPrice != nil || f.MaxPrice != nil:
		path = []string{"products", "price-range"}
		minPrice, maxPrice := decimal.Zero, decimal.NewFromInt(1_000_000)
		if f.MinPrice != nil {
			minPrice = *f.MinPrice
		}
		if f.MaxPrice != nil {
			maxPrice = *f.MaxPrice
		}
		q.Set("minPrice", minPrice.String())
		q.Set("maxPrice", maxPrice.String())
	case f.SupplierID != "":
		path = []string{"products", "supplier", f.SupplierID}
	default:
		path = []string{"products"}
		if f.SortBy != "" {
			q.Set("sortBy", f.SortBy)
		}
		if f.SortDir != "" {
			q.Set("sortDir", string(f.SortDir))
		}
	}

	var page product.Page
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, func(d *jx.Decoder) error {
		return decodePage(d, &page)
	})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return &page, nil
}

// GetByID fetches a single product. Unknown ids yield product.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"products", id}}, func(d *jx.Decoder) error {
		return decodeProduct(d, &p)
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get product %s", id)
	}
	return &p, nil
}

func decodePage(d *jx.Decoder, p *product.Page) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "content":
			return d.Arr(func(d *jx.Decoder) error {
				var item product.Product
				if err := decodeProduct(d, &item); err != nil {
					return err
				}
				p.Content = append(p.Content, item)
				return nil
			})
		case "totalElements":
			p.TotalElements, err = decodeInt(d)
		case "totalPages":
			p.TotalPages, err = decodeInt(d)
		case "size":
			p.Size, err = decodeInt(d)
		case "number":
			p.Number, err = decodeInt(d)
		case "first":
			p.First, err = decodeBool(d)
		case "last":
			p.Last, err = decodeBool(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeProduct(d *jx.Decoder, p *product.Product) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = decodeText(d)
		case "name":
			p.Name, err = decodeText(d)
		case "description":
			p.Description, err = decodeText(d)
		case "price":
			p.Price, err = decodeDecimal(d)
		case "stock":
			p.Stock, err = decodeInt(d)
		case "category":
			var s string
			s, err = decodeText(d)
			p.Category = product.Category(s)
		case "brand":
			p.Brand, err = decodeText(d)
		case "model":
			p.Model, err = decodeText(d)
		case "year":
			p.Year, err = decodeText(d)
		case "images":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				p.Images = append(p.Images, s)
				return err
			})
		case "specifications":
			p.Specifications, err = decodeText(d)
		case "supplierId":
			p.SupplierID, err = decodeText(d)
		case "active":
			p.Active, err = decodeBool(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	s, err := decodeText(d)
	if err != nil || s == "" {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse decimal %q", s)
	}
	return v, nil
}

var _ product.Editor = (*Client)(nil)

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, userID string, in product.Input) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"products"},
		userID: userID,
		body:   encodeProductInput(in),
	}, func(d *jx.Decoder) error {
		return decodeProduct(d, &p)
	})
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &p, nil
}

// UpdateProduct replaces a product. Unknown ids yield product.ErrNotFound.
func (c *Client) UpdateProduct(ctx context.Context, userID, id string, in product.Input) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   []string{"products", id},
		userID: userID,
		body:   encodeProductInput(in),
	}, func(d *jx.Decoder) error {
		return decodeProduct(d, &p)
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update product %s", id)
	}
	return &p, nil
}

// DeleteProduct removes a product. Unknown ids yield product.ErrNotFound.
func (c *Client) DeleteProduct(ctx context.Context, userID, id string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   []string{"products", id},
		userID: userID,
	}, nil)
	if isStatus(err, http.StatusNotFound) {
		return product.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	return nil
}

func encodeProductInput(in product.Input) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(in.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(in.Description) })
		e.Field("price", func(e *jx.Encoder) { e.RawStr(in.Price.String()) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(in.Stock) })
		e.Field("category", func(e *jx.Encoder) { e.Str(string(in.Category)) })
		e.Field("brand", func(e *jx.Encoder) { e.Str(in.Brand) })
		e.Field("model", func(e *jx.Encoder) { e.Str(in.Model) })
		e.Field("year", func(e *jx.Encoder) { e.Str(in.Year) })
		e.Field("images", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, img := range in.Images {
					e.Str(img)
				}
			})
		})
		e.Field("specifications", func(e *jx.Encoder) { e.Str(in.Specifications) })
		if in.SupplierID != "" {
			e.Field("supplierId", func(e *jx.Encoder) { e.Str(in.SupplierID) })
		}
		e.Field("active", func(e *jx.Encoder) { e.Bool(in.Active) })
	})
	return e.Bytes()
}
