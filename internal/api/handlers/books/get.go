package books

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
)

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}
	b, err := h.Store.GetBook(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		apperr.NotFound(w, r)
		return
	}
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}
	httpx.OK(w, b.View())
}
