package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// label cardinality bounded.
const unmatchedRoute = "unmatched"

// Recorder receives request measurements.
type Recorder interface {
	ObserveRequest(method, route string, code int, elapsed time.Duration)
	IncInFlight()
	DecInFlight()
	IncShed()
	IncTimeout()
}

// Metrics records count, latency and in-flight requests labelled by the
// chi route pattern.
func Metrics(rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec.IncInFlight()
			defer rec.DecInFlight()

			ww := newStatusResponseWriter(w)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			rec.ObserveRequest(r.Method, route, ww.status, time.Since(start))
		})
	}
}
