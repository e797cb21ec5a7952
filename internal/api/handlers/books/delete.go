package books

import (
	"log"
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
	"github.com/5w1tchy/catalog-api/internal/api/middlewares"
)

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !handlers.CanWrite(w, r, h.IsAuthenticated) {
		return
	}
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.Store.DeleteBook(ctx, id); err != nil {
		writeLookupError(w, r, err)
		return
	}
	h.Cache.Bump(ctx)

	log.Printf("[books] deleted id=%d by %s", id, middlewares.ActorFrom(ctx))
	httpx.Deleted(w, "Book deleted successfully!")
}
