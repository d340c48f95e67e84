package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guardpost/internal/login"
	"guardpost/internal/platform/health"
	"guardpost/internal/platform/metrics"
	"guardpost/internal/platform/middleware"
	reviewhandler "guardpost/internal/review/handler"
)

// NewRouter wires all public endpoints with middleware. The handlers stay
// thin; business logic lives in the services they delegate to.
func NewRouter(
	reviews *reviewhandler.Handler,
	logins *login.Handler,
	healthHandler *health.Handler,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	if m != nil {
		r.Use(latency(m))
	}

	reviews.Register(r)
	logins.Register(r)
	healthHandler.Register(r)

	r.Get("/", handleRoot)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// handleRoot is the landing page pointed at by the auth redirects. It only
// links to the sign-in route.
func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<html><body><a href="/login/discord">Sign in with Discord</a></body></html>`))
}

// latency records per-route request duration. The chi route pattern is only
// known after the handler ran, so the observation happens on the way out.
func latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			endpoint := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}
			m.ObserveEndpointLatency(endpoint, time.Since(start).Seconds())
		})
	}
}
