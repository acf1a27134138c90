package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mmynk/coffeeshop/internal/metrics"
)

// Metrics records request counts and latency per route template.
// Register it with (*mux.Router).Use so the matched route is known.
func Metrics(m *metrics.HTTP) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			m.ObserveRequest(routeName(r), r.Method, rw.statusCode, time.Since(start))
		})
	}
}

func routeName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return tpl
	}
	return "unknown"
}
