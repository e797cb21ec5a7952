package middlewares

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimit allows maxAttempts token requests per IP per window.
// With no Redis, or on a Redis error, requests pass.
func LoginRateLimit(rdb *redis.Client, maxAttempts int, window time.Duration) func(http.Handler) http.Handler {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" || rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 300*time.Millisecond)
			defer cancel()
			key := "rl:login:" + ip

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Printf("[LoginRateLimit] Redis error: %v (allowing request)\n", err)
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(maxAttempts) {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil || ttl <= 0 {
					ttl = window
				}
				tooManyRequests(w, r, int64((ttl+time.Second-1)/time.Second), "too many login attempts")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
