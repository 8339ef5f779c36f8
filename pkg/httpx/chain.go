package httpx

import "net/http"

type Middleware func(http.Handler) http.Handler

// Chain wraps h with m so that m[0] sees the request first.
func Chain(h http.Handler, m ...Middleware) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}
