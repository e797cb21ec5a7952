package books

import (
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/query"
)

// List runs filter, search and ordering over all books. Encoded responses
// are cached per normalized query until the next catalog write.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := query.Parse(r.URL.Query())
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}

	ctx := r.Context()
	body, key, hit := h.Cache.Get(ctx, q)
	if hit {
		w.Header().Set("X-Cache", "HIT")
		httpx.WriteRaw(w, http.StatusOK, body)
		return
	}

	list, err := h.Store.ListBooks(ctx, q)
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}
	body, err = httpx.List(models.BookViews(list), len(list))
	if err != nil {
		apperr.Internal(w, r, err)
		return
	}
	h.Cache.Set(ctx, key, body)

	w.Header().Set("X-Cache", "MISS")
	httpx.WriteRaw(w, http.StatusOK, body)
}
