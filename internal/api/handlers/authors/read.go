package authors

import (
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	"github.com/5w1tchy/catalog-api/internal/models"
)

// List returns every author with its book count, ordered by name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListAuthors(r.Context())
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}
	views := make([]models.AuthorView, 0, len(list))
	for _, a := range list {
		views = append(views, a.View())
	}
	body, err := httpx.List(views, len(views))
	if err != nil {
		apperr.Internal(w, r, err)
		return
	}
	httpx.WriteRaw(w, http.StatusOK, body)
}

// Get returns one author with its books.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}
	a, err := h.Store.GetAuthor(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.OK(w, a.DetailView())
}
