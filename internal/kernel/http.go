// Package kernel assembles the HTTP handler: global middleware, operational
// endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/nftlisting/app/routes"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
	"github.com/shashiranjanraj/nftlisting/pkg/metrics"
	"github.com/shashiranjanraj/nftlisting/pkg/middleware"
	"github.com/shashiranjanraj/nftlisting/pkg/reqid"
	"github.com/shashiranjanraj/nftlisting/pkg/response"
	"github.com/shashiranjanraj/nftlisting/pkg/router"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HTTPKernel owns the router.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router. health may be nil.
func NewHTTPKernel(svc routes.Services, health HealthCheck) *HTTPKernel {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery guards everything
	// below, the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins()...)))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(health))

	routes.RegisterAPI(r, svc)

	return &HTTPKernel{router: r}
}

// Handler returns the assembled http.Handler.
func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every registered route.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

func healthz(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
				response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
