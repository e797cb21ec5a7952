// Package books serves the book endpoints: an open filtered list and
// retrieve, and create/update/delete for authenticated callers.
package books

import (
	"time"

	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/cache/listcache"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
)

type Handler struct {
	Store           catalog.BookStore
	Cache           *listcache.Cache
	IsAuthenticated handlers.AuthCheck
	Now             func() time.Time
}

func New(store catalog.BookStore, cache *listcache.Cache, isAuth handlers.AuthCheck, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{Store: store, Cache: cache, IsAuthenticated: isAuth, Now: now}
}
