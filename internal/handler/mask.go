package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/autoparts-storefront/pkg/mask"
)

// applyMask formats a CEP or phone value as the user types it.
func (h *Handler) applyMask(w http.ResponseWriter, r *http.Request) {
	kind, ok := mask.ParseKind(r.PathValue("kind"))
	if !ok {
		fail(w, r, &apiError{status: http.StatusNotFound, message: "unknown mask " + r.PathValue("kind")})
		return
	}

	var value string
	if err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != "value" {
			return d.Skip()
		}
		var err error
		value, err = d.Str()
		return err
	}); err != nil {
		fail(w, r, err)
		return
	}

	f := mask.New(kind, value)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("raw", func(e *jx.Encoder) { e.Str(f.Raw) })
			e.Field("display", func(e *jx.Encoder) { e.Str(f.Display()) })
			e.Field("valid", func(e *jx.Encoder) { e.Bool(f.Valid()) })
		})
	})
}
