package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) getWishlist(w http.ResponseWriter, r *http.Request) {
	_, s := h.session(w, r)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeIDs(e, s.Wishlist.IDs()) })
}

func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)
	id := r.PathValue("id")
	saved := s.Wishlist.Toggle(ctx, id)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("productId", func(e *jx.Encoder) { e.Str(id) })
			e.Field("saved", func(e *jx.Encoder) { e.Bool(saved) })
		})
	})
}

func (h *Handler) clearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, s := h.session(w, r)
	s.Wishlist.Clear(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func encodeIDs(e *jx.Encoder, ids []string) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("ids", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, id := range ids {
					e.Str(id)
				}
			})
		})
		e.Field("count", func(e *jx.Encoder) { e.Int(len(ids)) })
	})
}
