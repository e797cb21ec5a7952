package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/5w1tchy/catalog-api/internal/api/middlewares"
	"github.com/stretchr/testify/assert"
)

func TestHPP(t *testing.T) {
	var got string
	h := mw.HPP([]string{"title", "ordering"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
	}))

	req := httptest.NewRequest(http.MethodGet, "/books/?title=Dune&title=Emma&ordering=-title&debug=1", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "ordering=-title&title=Dune", got)
}
