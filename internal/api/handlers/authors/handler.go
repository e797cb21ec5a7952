// Package authors serves the author endpoints. Reads are open; writes need
// an authenticated caller and invalidate cached book lists, since book
// rows carry the author's name.
package authors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/cache/listcache"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
	"github.com/5w1tchy/catalog-api/internal/validate"
)

var (
	writableFields = []string{"name"}
	readOnlyFields = []string{"id", "book_count", "books", "description"}
)

type Handler struct {
	Store           catalog.AuthorStore
	Cache           *listcache.Cache
	IsAuthenticated handlers.AuthCheck
}

func New(store catalog.AuthorStore, cache *listcache.Cache, isAuth handlers.AuthCheck) *Handler {
	return &Handler{Store: store, Cache: cache, IsAuthenticated: isAuth}
}

// parseName decodes and validates the name field.
func parseName(fields map[string]json.RawMessage, required bool) (*string, error) {
	var errs validate.Errors
	name := handlers.String(fields, "name", &errs)
	errs.Merge(validate.AuthorName(name, required))
	return name, errs.Err()
}

func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		apperr.NotFound(w, r)
		return
	}
	apperr.Handle(w, r, err)
}
