package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/jotterhq/jotter/pkg/httpx"
)

// HTTPMiddleware instruments every request passing through it. It must
// wrap the mux so the matched route pattern is available once the
// handler returns; labelling by pattern instead of raw path keeps the
// cardinality bounded.
func (c *Collector) HTTPMiddleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if i := strings.IndexByte(route, ' '); i >= 0 {
				route = route[i+1:]
			}
			if route == "" {
				route = "unmatched"
			}
			c.RecordHTTPRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
