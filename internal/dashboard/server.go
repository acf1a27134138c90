// Package dashboard serves the interactive dashboard over a dataset loaded
// once at startup. Every endpoint is read-only.
package dashboard

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/coffeeshop/internal/metrics"
	"github.com/mmynk/coffeeshop/internal/middleware"
	"github.com/mmynk/coffeeshop/internal/report"
)

// Server routes dashboard requests.
type Server struct {
	data     *report.Dataset
	router   *mux.Router
	metrics  *metrics.HTTP
	gatherer prometheus.Gatherer
	limiter  *middleware.RateLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics to m and serves g at /metrics.
func WithMetrics(m *metrics.HTTP, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithRateLimiter limits the API and SSE endpoints per client.
func WithRateLimiter(rl *middleware.RateLimiter) Option {
	return func(s *Server) { s.limiter = rl }
}

// New creates a Server for data.
func New(data *report.Dataset, opts ...Option) *Server {
	s := &Server{
		data:   data,
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.SetDatasetSize(len(data.Transactions))
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	if s.metrics != nil {
		r.Use(mux.MiddlewareFunc(middleware.Metrics(s.metrics)))
	}

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	limited := func(h http.HandlerFunc) http.Handler {
		if s.limiter == nil {
			return h
		}
		return middleware.RateLimit(s.limiter)(h)
	}

	r.Handle("/sse/refresh", limited(s.handleRefresh)).Methods(http.MethodGet)
	r.HandleFunc("/charts/{file}", s.handleChart).Methods(http.MethodGet)

	for path, h := range map[string]http.HandlerFunc{
		"/api/summary":          s.handleSummary,
		"/api/daily-revenue":    s.handleDailyRevenue,
		"/api/hourly-traffic":   s.handleHourlyTraffic,
		"/api/top-products":     s.handleTopProducts,
		"/api/category-revenue": s.handleCategoryRevenue,
		"/api/weekday-aov":      s.handleWeekdayAverage,
		"/api/recent":           s.handleRecent,
	} {
		r.Handle(path, limited(h)).Methods(http.MethodGet)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
