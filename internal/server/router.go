package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Briancute/local-lead-finder/internal/handler"
	"github.com/Briancute/local-lead-finder/internal/metrics"
	"github.com/Briancute/local-lead-finder/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Root     *handler.Handler
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Leads    *handler.LeadHandler
	Template *handler.TemplateHandler
	Email    *handler.EmailHandler
}

// RouterConfig holds everything the router needs besides handlers.
type RouterConfig struct {
	Logger        *slog.Logger
	Tokens        middleware.TokenVerifier
	Metrics       metrics.Recorder
	Security      middleware.SecurityConfig
	CORS          middleware.CORSConfig
	AuthRateLimit middleware.RateLimitConfig
	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For and
	// X-Real-IP. Clients can set those headers freely, so this must stay
	// off unless a proxy in front overwrites them.
	TrustProxyHeaders bool
	// MetricsHandler serves /metrics. Nil leaves the route unmounted.
	MetricsHandler http.Handler
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	authCfg := middleware.AuthConfig{
		Logger: cfg.Logger,
		Tokens: cfg.Tokens,
	}

	// Global middleware
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.OptionalAuth(authCfg))
	r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

	// Health checks (no auth required)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// One limiter instance so register and login share a bucket.
	authLimit := middleware.RateLimitIP(cfg.AuthRateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", h.Auth.Register)
			r.With(authLimit).Post("/login", h.Auth.Login)
			r.With(middleware.RequireAuth(authCfg)).Get("/me", h.Auth.Me)
		})

		// Everything below is scoped to the caller.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authCfg))

			r.Route("/leads", func(r chi.Router) {
				r.Get("/search", h.Leads.Search)
				r.Get("/details/{placeId}", h.Leads.Details)
				r.Get("/export/csv", h.Leads.ExportCSV)
				r.Get("/", h.Leads.List)
				r.Post("/", h.Leads.Save)
				r.Patch("/{id}", h.Leads.Update)
				r.Delete("/{id}", h.Leads.Delete)
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", h.Template.List)
				r.Post("/", h.Template.Create)
				r.Patch("/{id}", h.Template.Update)
				r.Delete("/{id}", h.Template.Delete)
			})

			r.Route("/email", func(r chi.Router) {
				r.Post("/send", h.Email.Send)
				r.Post("/preview", h.Email.Preview)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	return r
}
