package utils

import "net/http"

type Middleware func(http.Handler) http.Handler

// ApplyMiddleware wraps handler with middlewares. The first middleware in the
// list is the outermost and sees the request first.
func ApplyMiddleware(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		handler = middlewares[i](handler)
	}
	return handler
}
