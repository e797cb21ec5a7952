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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !handlers.CanWrite(w, r, h.IsAuthenticated) {
		return
	}

	fields, err := httpx.DecodeObject(r, writableFields, readOnlyFields)
	if err != nil {
		handlers.WriteBodyError(w, r, err)
		return
	}
	req, err := parseBookRequest(fields, true, h)
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}

	ctx := r.Context()
	b, err := h.Store.CreateBook(ctx, req.input())
	if errors.Is(err, catalog.ErrAuthorMissing) {
		apperr.Handle(w, r, validate.AuthorMissing(*req.Author))
		return
	}
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}
	h.Cache.Bump(ctx)

	log.Printf("[books] created id=%d by %s", b.ID, middlewares.ActorFrom(ctx))
	httpx.Created(w, "Book created successfully!", b.View())
}
