package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/5w1tchy/catalog-api/internal/api/httpx"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports store and cache reachability. Only the store decides the
// status code; the cache fails open.
func Health(store Pinger, cache Pinger, cacheEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		storeState := "ok"
		if err := store.Ping(ctx); err != nil {
			log.Printf("[health] store ping failed: %v", err)
			storeState, status, code = "unavailable", "unavailable", http.StatusServiceUnavailable
		}

		cacheState := "disabled"
		if cacheEnabled {
			cacheState = "ok"
			if err := cache.Ping(ctx); err != nil {
				log.Printf("[health] cache ping failed: %v", err)
				cacheState = "degraded"
			}
		}

		httpx.WriteJSON(w, code, map[string]string{
			"status": status,
			"store":  storeState,
			"cache":  cacheState,
		})
	}
}
