package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	jwtutil "github.com/5w1tchy/catalog-api/internal/security/jwt"
)

type AccessParser interface {
	ParseAccess(token string) (*jwtutil.AccessClaims, error)
}

// TokenVersions reports a user's current token version.
type TokenVersions interface {
	TokenVersion(ctx context.Context, userID int64) (int, error)
}

// OptionalAuth attaches the user id if a valid Bearer is present whose token
// version still matches the user's; otherwise the request continues as a guest.
func OptionalAuth(tokens AccessParser, versions TokenVersions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr, err := bearer(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.ParseAccess(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ver, err := versions.TokenVersion(r.Context(), uid)
			if err != nil || claims.TokenVersion != ver {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

// IsAuthenticated is the capability handlers consult before writes.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := UserIDFrom(ctx)
	return ok
}

func bearer(h string) (string, error) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", errors.New("no bearer")
	}
	return strings.TrimSpace(h[len(prefix):]), nil
}
