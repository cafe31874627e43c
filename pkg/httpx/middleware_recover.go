package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/jotterhq/jotter/pkg/slogx"
)

// RecoverMiddleware converts handler panics into a 500 envelope instead of
// tearing down the connection.
func RecoverMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slogx.FromContext(r.Context()).Error("handler panic",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					WriteError(w, http.StatusInternalServerError, CodeServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
