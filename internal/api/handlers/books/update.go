package books

import (
	"errors"
	"log"
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	"github.com/5w1tchy/catalog-api/internal/api/middlewares"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
	"github.com/5w1tchy/catalog-api/internal/validate"
)

// Update serves PUT (every field required) and PATCH (only the fields sent
// are validated and changed).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !handlers.CanWrite(w, r, h.IsAuthenticated) {
		return
	}
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetBook(ctx, id); err != nil {
		writeLookupError(w, r, err)
		return
	}

	fields, err := httpx.DecodeObject(r, writableFields, readOnlyFields)
	if err != nil {
		handlers.WriteBodyError(w, r, err)
		return
	}
	req, err := parseBookRequest(fields, r.Method == http.MethodPut, h)
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}

	b, err := h.Store.UpdateBook(ctx, id, req.patch())
	switch {
	case errors.Is(err, catalog.ErrAuthorMissing):
		apperr.Handle(w, r, validate.AuthorMissing(*req.Author))
		return
	case err != nil:
		writeLookupError(w, r, err)
		return
	}
	h.Cache.Bump(ctx)

	log.Printf("[books] updated id=%d fields=%v by %s", b.ID, sentFields(fields), middlewares.ActorFrom(ctx))
	httpx.Updated(w, "Book updated successfully!", b.View())
}

func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		apperr.NotFound(w, r)
		return
	}
	apperr.Handle(w, r, err)
}
