// Package mid contains the set of middleware functions.
package mid

import (
	"context"
	"net/http"
	"slices"

	"github.com/ixianlabs/dlt/foundation/web"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing
// and answers preflight requests directly. Passing "*" allows any origin;
// otherwise the request origin must match one of the specified origins or
// the headers are not set.
func Cors(origins ...string) web.Middleware {

	allowAny := slices.Contains(origins, "*")

	m := func(handler web.Handler) web.Handler {

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := "*"
			if !allowAny {
				origin = r.Header.Get("Origin")
				if !slices.Contains(origins, origin) {
					return handler(ctx, w, r)
				}
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
			w.Header().Add("Vary", "Origin")

			// Preflight requests are answered here, they never reach a
			// route handler.
			if r.Method == http.MethodOptions {
				return web.Respond(ctx, w, nil, http.StatusNoContent)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
