package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig carries the dependencies for building the HTTP router.
type RouterConfig struct {
	Service Service
	Logger  *slog.Logger

	// Gatherer serves /metrics; nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer

	// RateLimit is the allowed requests per second across all endpoints
	// except /healthz and /metrics. Zero or negative disables limiting.
	RateLimit float64
}

// NewRouter builds the service router with all endpoints mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	h := NewHandler(cfg.Service, cfg.Logger)
	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), rateBurst(cfg.RateLimit))))
		}
		h.Register(r)
	})

	return r
}

func rateBurst(limit float64) int {
	if limit < 1 {
		return 1
	}
	return int(limit)
}
