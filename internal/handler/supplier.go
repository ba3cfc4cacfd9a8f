package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/autoparts-storefront/internal/domain/product"
	"github.com/xenking/autoparts-storefront/internal/domain/supplier"
)

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := h.suppliers.Suppliers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, s := range list {
				encodeSupplier(e, s)
			}
		})
	})
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	s, err := h.suppliers.Supplier(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSupplier(e, *s) })
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	s, err := h.suppliers.Profile(r.Context(), r.Header.Get(UserHeader))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSupplier(e, *s) })
}

func (h *Handler) registerSupplier(w http.ResponseWriter, r *http.Request) {
	in, err := decodeSupplierInput(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	s, err := h.suppliers.Register(r.Context(), r.Header.Get(UserHeader), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeSupplier(e, *s) })
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	in, err := decodeSupplierInput(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	s, err := h.suppliers.UpdateProfile(r.Context(), r.Header.Get(UserHeader), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSupplier(e, *s) })
}

func (h *Handler) unregisterSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.suppliers.Unregister(r.Context(), r.Header.Get(UserHeader)); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.suppliers.Dashboard(r.Context(), r.Header.Get(UserHeader))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("stockStatistics", func(e *jx.Encoder) {
				s := d.Stock
				e.Obj(func(e *jx.Encoder) {
					e.Field("totalProducts", func(e *jx.Encoder) { e.Int(s.TotalProducts) })
					e.Field("totalStock", func(e *jx.Encoder) { e.Int(s.TotalStock) })
					e.Field("activeProducts", func(e *jx.Encoder) { e.Int(s.ActiveProducts) })
					e.Field("inactiveProducts", func(e *jx.Encoder) { e.Int(s.InactiveProducts) })
					e.Field("totalStockValue", func(e *jx.Encoder) { money(e, s.TotalStockValue) })
					e.Field("stockByCategory", func(e *jx.Encoder) { encodeCounts(e, s.StockByCategory) })
				})
			})
			e.Field("salesStatistics", func(e *jx.Encoder) {
				s := d.Sales
				e.Obj(func(e *jx.Encoder) {
					e.Field("totalOrders", func(e *jx.Encoder) { e.Int(s.TotalOrders) })
					e.Field("totalItemsSold", func(e *jx.Encoder) { e.Int(s.TotalItemsSold) })
					e.Field("totalRevenue", func(e *jx.Encoder) { money(e, s.TotalRevenue) })
					e.Field("averageOrderValue", func(e *jx.Encoder) { money(e, s.AverageOrderValue) })
					e.Field("ordersByStatus", func(e *jx.Encoder) { encodeCounts(e, s.OrdersByStatus) })
					e.Field("revenueByMonth", func(e *jx.Encoder) {
						e.Arr(func(e *jx.Encoder) {
							for _, m := range s.Months() {
								e.Obj(func(e *jx.Encoder) {
									e.Field("month", func(e *jx.Encoder) { e.Str(m.Month) })
									e.Field("revenue", func(e *jx.Encoder) { money(e, m.Revenue) })
								})
							}
						})
					})
				})
			})
		})
	})
}

func (h *Handler) listOwnProducts(w http.ResponseWriter, r *http.Request) {
	f, err := pageFilters(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := h.suppliers.Products(r.Context(), r.Header.Get(UserHeader), f.Page, f.Size)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodePage(e, page) })
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	in, err := decodeProductInput(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.suppliers.CreateProduct(r.Context(), r.Header.Get(UserHeader), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeProduct(e, *p) })
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	in, err := decodeProductInput(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.suppliers.UpdateProduct(r.Context(), r.Header.Get(UserHeader), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProduct(e, *p) })
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.suppliers.DeleteProduct(r.Context(), r.Header.Get(UserHeader), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeSupplierInput(r *http.Request) (supplier.Input, error) {
	fields := make(map[string]string)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "name", "description", "email", "phone", "address", "city",
			"state", "zipCode", "country", "contactPerson":
			v, err := d.Str()
			fields[key] = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return supplier.Input{}, err
	}
	return supplier.NewInput(
		fields["name"], fields["description"], fields["email"], fields["phone"],
		fields["address"], fields["city"], fields["state"], fields["zipCode"],
		fields["country"], fields["contactPerson"],
	), nil
}

func decodeProductInput(r *http.Request) (product.Input, error) {
	var in product.Input
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			in.Name, err = d.Str()
		case "description":
			in.Description, err = d.Str()
		case "price":
			in.Price, err = decodeDecimal(d)
		case "stock":
			in.Stock, err = d.Int()
		case "category":
			var s string
			s, err = d.Str()
			in.Category = product.Category(s)
			if c, ok := product.CategoryFromSlug(s); ok {
				in.Category = c
			}
		case "brand":
			in.Brand, err = d.Str()
		case "model":
			in.Model, err = d.Str()
		case "year":
			in.Year, err = d.Str()
		case "images":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				in.Images = append(in.Images, s)
				return err
			})
		case "specifications":
			in.Specifications, err = d.Str()
		case "active":
			in.Active, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return in, err
}

func encodeSupplier(e *jx.Encoder, s supplier.Supplier) {
	e.Obj(func(e *jx.Encoder) {
		for _, f := range []struct{ key, value string }{
			{"id", s.ID},
			{"name", s.Name},
			{"description", s.Description},
			{"email", s.Email},
			{"phone", s.Phone},
			{"address", s.Address},
			{"city", s.City},
			{"state", s.State},
			{"zipCode", s.ZipCode},
			{"country", s.Country},
			{"contactPerson", s.ContactPerson},
		} {
			e.Field(f.key, func(e *jx.Encoder) { e.Str(f.value) })
		}
		if !s.CreatedAt.IsZero() {
			e.Field("createdAt", func(e *jx.Encoder) { e.Str(s.CreatedAt.Format(time.RFC3339)) })
		}
	})
}

func encodeCounts(e *jx.Encoder, m map[string]int) {
	e.Obj(func(e *jx.Encoder) {
		for k, v := range m {
			e.Field(k, func(e *jx.Encoder) { e.Int(v) })
		}
	})
}
