package authors

import (
	"log"
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	"github.com/5w1tchy/catalog-api/internal/api/middlewares"
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
	name, err := parseName(fields, true)
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}

	ctx := r.Context()
	a, err := h.Store.CreateAuthor(ctx, *name)
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}
	h.Cache.Bump(ctx)

	log.Printf("[authors] created id=%d by %s", a.ID, middlewares.ActorFrom(ctx))
	httpx.Created(w, "Author created successfully!", a.DetailView())
}

// Update serves PUT and PATCH. name is the only writable field, so PATCH
// without it changes nothing and returns the current record.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !handlers.CanWrite(w, r, h.IsAuthenticated) {
		return
	}
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	current, err := h.Store.GetAuthor(ctx, id)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	fields, err := httpx.DecodeObject(r, writableFields, readOnlyFields)
	if err != nil {
		handlers.WriteBodyError(w, r, err)
		return
	}
	name, err := parseName(fields, r.Method == http.MethodPut)
	if err != nil {
		apperr.Handle(w, r, err)
		return
	}
	if name == nil {
		httpx.Updated(w, "Author updated successfully!", current.DetailView())
		return
	}

	a, err := h.Store.UpdateAuthor(ctx, id, *name)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	h.Cache.Bump(ctx)

	log.Printf("[authors] updated id=%d by %s", a.ID, middlewares.ActorFrom(ctx))
	httpx.Updated(w, "Author updated successfully!", a.DetailView())
}

// Delete removes the author and, with it, all of its books.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !handlers.CanWrite(w, r, h.IsAuthenticated) {
		return
	}
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	removed, err := h.Store.DeleteAuthor(ctx, id)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	h.Cache.Bump(ctx)

	log.Printf("[authors] deleted id=%d books=%d by %s", id, removed, middlewares.ActorFrom(ctx))
	httpx.Deleted(w, "Author deleted successfully!")
}
