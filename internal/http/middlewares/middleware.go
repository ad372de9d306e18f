// Package middlewares holds the HTTP middleware stack.
package middlewares

import "net/http"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares left to right: Chain(h, A, B) runs A first
// on the way in and last on the way out.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
