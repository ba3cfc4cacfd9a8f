package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/xenking/autoparts-storefront/internal/domain/plate"
	"github.com/xenking/autoparts-storefront/internal/domain/product"
	"github.com/xenking/autoparts-storefront/internal/domain/vehicle"
)

// parsePlate normalizes and validates a plate typed by the user.
func (h *Handler) parsePlate(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != "plate" {
			return d.Skip()
		}
		var err error
		raw, err = d.Str()
		return err
	}); err != nil {
		fail(w, r, err)
		return
	}

	p, err := plate.Parse(raw)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("plate", func(e *jx.Encoder) { e.Str(p.Value) })
			e.Field("format", func(e *jx.Encoder) { e.Str(string(p.Format)) })
		})
	})
}

// recommendations resolves the plate to a vehicle and lists catalog parts
// for its brand.
func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m, err := h.vehicles.Resolve(ctx, r.PathValue("plate"))
	if err != nil {
		fail(w, r, err)
		return
	}

	f, err := pageFilters(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	f.Brand = m.Brand

	page, err := h.catalog.List(ctx, f)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("vehicle", func(e *jx.Encoder) { encodeVehicle(e, m.Vehicle) })
			e.Field("plate", func(e *jx.Encoder) { e.Str(m.Plate.Value) })
			e.Field("format", func(e *jx.Encoder) { e.Str(string(m.Plate.Format)) })
			e.Field("brand", func(e *jx.Encoder) { e.Str(m.Brand) })
			e.Field("products", func(e *jx.Encoder) { encodePage(e, page) })
		})
	})
}

func pageFilters(r *http.Request) (product.Filters, error) {
	var f product.Filters
	q := r.URL.Query()
	for name, dst := range map[string]*int{"page": &f.Page, "size": &f.Size} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, invalidField(name, name+" must be a non-negative integer")
		}
		*dst = n
	}
	return f, nil
}

func encodeVehicle(e *jx.Encoder, v vehicle.Vehicle) {
	e.Obj(func(e *jx.Encoder) {
		for _, f := range []struct{ key, value string }{
			{"plate", v.Plate},
			{"name", v.Name},
			{"brand", v.Brand},
			{"model", v.Model},
			{"year", v.Year},
			{"color", v.Color},
			{"fuelType", v.FuelType},
			{"engine", v.Engine},
			{"chassis", v.Chassis},
			{"renavam", v.Renavam},
		} {
			e.Field(f.key, func(e *jx.Encoder) { e.Str(f.value) })
		}
	})
}
