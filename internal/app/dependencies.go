package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-register/internal/config"
	"github.com/noah-isme/toko-register/internal/health"
	"github.com/noah-isme/toko-register/internal/obs"
	"github.com/noah-isme/toko-register/internal/ratelimit"
	"github.com/noah-isme/toko-register/internal/register"
)

// Dependencies enumerates what the HTTP surface is assembled from.
type Dependencies struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Register *register.Service
	Limiter  ratelimit.Limiter
	Tracing  bool
	// Registry receives HTTP metrics and backs /metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds the chi router serving health, metrics and the register API.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	logger := deps.Logger

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if deps.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if cfg.MetricsEnabled {
		metrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), registerer)
		r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	healthHandler := health.Handler{
		Version: register.Version,
		Checks: map[string]health.Checker{
			"catalog": health.CheckFunc(func(context.Context) error {
				if deps.Register == nil {
					return errors.New("register service not configured")
				}
				if cfg.CatalogPath != "" && deps.Register.Catalog().Len() == 0 {
					return errors.New("catalog is empty")
				}
				return nil
			}),
		},
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	registerHandler := &register.Handler{Svc: deps.Register}
	r.Route("/api/v1", func(v chi.Router) {
		if cfg.MaxBodyBytes > 0 {
			v.Use(middleware.RequestSize(cfg.MaxBodyBytes))
		}
		if deps.Limiter != nil {
			v.Use(ratelimit.Handler{
				Limiter: deps.Limiter,
				OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
			}.Middleware)
		}
		registerHandler.Routes(v)
	})
	return r
}

// NewLimiter returns the per-client limiter configured by cfg, or nil when disabled.
func NewLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg == nil || cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	return ratelimit.NewMemoryLimiter(time.Minute, cfg.RateLimitPerMinute)
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
