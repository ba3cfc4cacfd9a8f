package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/internal/domain/product"
)

func (h *Handler) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, c := range product.Categories() {
				e.Obj(func(e *jx.Encoder) {
					e.Field("name", func(e *jx.Encoder) { e.Str(string(c)) })
					e.Field("slug", func(e *jx.Encoder) { e.Str(c.Slug()) })
				})
			}
		})
	})
}

// listProducts proxies a filtered catalog listing. Categories are addressed
// by slug.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	f, err := pageFilters(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	q := r.URL.Query()
	if slug := q.Get("category"); slug != "" {
		c, ok := product.CategoryFromSlug(slug)
		if !ok {
			fail(w, r, invalidField("category", "unknown category "+slug))
			return
		}
		f.Category = c
	}
	f.Brand = q.Get("brand")
	f.Name = q.Get("name")
	f.SupplierID = q.Get("supplierId")
	f.SortBy = q.Get("sortBy")
	f.SortDir = product.SortDir(q.Get("sortDir"))
	for name, dst := range map[string]**decimal.Decimal{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			fail(w, r, invalidField(name, name+" must be a number"))
			return
		}
		*dst = &d
	}
	if err := f.Validate(); err != nil {
		fail(w, r, badRequest(err.Error()))
		return
	}

	page, err := h.catalog.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodePage(e, page) })
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProduct(e, *p) })
}

func encodePage(e *jx.Encoder, p *product.Page) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("content", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range p.Content {
					encodeProduct(e, item)
				}
			})
		})
		e.Field("totalElements", func(e *jx.Encoder) { e.Int(p.TotalElements) })
		e.Field("totalPages", func(e *jx.Encoder) { e.Int(p.TotalPages) })
		e.Field("size", func(e *jx.Encoder) { e.Int(p.Size) })
		e.Field("number", func(e *jx.Encoder) { e.Int(p.Number) })
		e.Field("first", func(e *jx.Encoder) { e.Bool(p.First) })
		e.Field("last", func(e *jx.Encoder) { e.Bool(p.Last) })
	})
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("price", func(e *jx.Encoder) { money(e, p.Price) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
		e.Field("category", func(e *jx.Encoder) { e.Str(string(p.Category)) })
		e.Field("brand", func(e *jx.Encoder) { e.Str(p.Brand) })
		e.Field("model", func(e *jx.Encoder) { e.Str(p.Model) })
		e.Field("year", func(e *jx.Encoder) { e.Str(p.Year) })
		e.Field("images", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, img := range p.Images {
					e.Str(img)
				}
			})
		})
		e.Field("specifications", func(e *jx.Encoder) { e.Str(p.Specifications) })
		e.Field("supplierId", func(e *jx.Encoder) { e.Str(p.SupplierID) })
		e.Field("active", func(e *jx.Encoder) { e.Bool(p.Active) })
	})
}
