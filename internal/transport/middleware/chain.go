package middleware

import "net/http"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that the first one sees the request first:
// Chain(a, b)(h) == a(b(h)). Nil entries are skipped, which lets callers
// leave out middleware that configuration turns off.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for i := range mws {
			if mw := mws[len(mws)-1-i]; mw != nil {
				h = mw(h)
			}
		}
		return h
	}
}
