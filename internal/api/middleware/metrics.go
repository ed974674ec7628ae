package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestRecorder receives per-request measurements.
type RequestRecorder interface {
	RecordHTTPRequest(route, status string, seconds float64)
}

// MetricsMiddleware records the route pattern, status code and duration of
// every handled request. The chi route pattern is used instead of the raw
// path so metrics are not split by path parameters.
func MetricsMiddleware(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			recorder.RecordHTTPRequest(route, strconv.Itoa(ww.Status()), time.Since(start).Seconds())
		})
	}
}
