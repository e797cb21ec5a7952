package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5w1tchy/catalog-api/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestApplyMiddlewareOrder(t *testing.T) {
	var trail []string
	tag := func(name string) utils.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trail = append(trail, "handler")
	})

	h := utils.ApplyMiddleware(final, tag("outer"), nil, tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, trail)
}
