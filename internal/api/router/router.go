package router

import (
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/api/handlers/authors"
	"github.com/5w1tchy/catalog-api/internal/api/handlers/books"
	"github.com/5w1tchy/catalog-api/internal/auth"
)

type Deps struct {
	Books   *books.Handler
	Authors *authors.Handler
	Auth    *auth.Handler
	Health  http.HandlerFunc

	// LoginLimit wraps the token endpoint; nil leaves it unlimited.
	LoginLimit func(http.Handler) http.Handler
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	// /books -> /books/, keeping the query string
	mux.HandleFunc("GET /books", slashRedirect)
	mux.HandleFunc("GET /authors", slashRedirect)

	// Books
	mux.HandleFunc("GET /books/{$}", d.Books.List)
	mux.HandleFunc("GET /books/{id}/{$}", d.Books.Get)
	mux.HandleFunc("POST /books/create/{$}", d.Books.Create)
	mux.HandleFunc("PUT /books/{id}/update/{$}", d.Books.Update)
	mux.HandleFunc("PATCH /books/{id}/update/{$}", d.Books.Update)
	mux.HandleFunc("DELETE /books/{id}/delete/{$}", d.Books.Delete)

	// Authors
	mux.HandleFunc("GET /authors/{$}", d.Authors.List)
	mux.HandleFunc("GET /authors/{id}/{$}", d.Authors.Get)
	mux.HandleFunc("POST /authors/create/{$}", d.Authors.Create)
	mux.HandleFunc("PUT /authors/{id}/update/{$}", d.Authors.Update)
	mux.HandleFunc("PATCH /authors/{id}/update/{$}", d.Authors.Update)
	mux.HandleFunc("DELETE /authors/{id}/delete/{$}", d.Authors.Delete)

	// Auth
	var token http.Handler = http.HandlerFunc(d.Auth.Token)
	if d.LoginLimit != nil {
		token = d.LoginLimit(token)
	}
	mux.Handle("POST /auth/token", token)

	if d.Health != nil {
		mux.HandleFunc("GET /healthz", d.Health)
	}

	return mux
}

func slashRedirect(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
