package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/config"
	"github.com/julesapp/crm-api/internal/http/handler"
	"github.com/julesapp/crm-api/internal/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/julesapp/crm-api/docs" // Import generated swagger docs
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Client     *handler.ClientHandler
	Project    *handler.ProjectHandler
	Task       *handler.TaskHandler
	Sale       *handler.SaleHandler
	Document   *handler.DocumentHandler
	Event      *handler.EventHandler
	Calendar   *handler.CalendarHandler
	Dashboard  *handler.DashboardHandler
	Navigation *handler.NavigationHandler
	Stream     *handler.StreamHandler
	// SPA is optional; when nil no front end is served
	SPA http.Handler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	registry       *prometheus.Registry
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	registry *prometheus.Registry,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		registry:       registry,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := rt.handlers

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.cfg.Metrics.Enabled && rt.registry != nil {
		r.Use(middleware.NewMetrics(rt.registry).Handler)
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)

	if rt.cfg.Metrics.Enabled && rt.registry != nil {
		r.Handle(rt.cfg.Metrics.Path, promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.With(rt.rateLimiter.LimitCredentials).Post("/auth/signup", h.Auth.SignUp)
		r.With(rt.rateLimiter.LimitCredentials).Post("/auth/login", h.Auth.Login)

		// Streams stay open, so they sit outside the request timeout
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Get("/stream/{collection}", h.Stream.Stream)
		})

		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)
			r.Use(timeout(rt.cfg.Server.RequestTimeoutDuration()))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.Client.List)
				r.Post("/", h.Client.Create)
				r.Get("/project-options", h.Client.ProjectOptions)
				r.Get("/{id}", h.Client.GetByID)
				r.Put("/{id}", h.Client.Update)
				r.Delete("/{id}", h.Client.Delete)
				r.Get("/{id}/contacts", h.Client.ListContacts)
				r.Post("/{id}/contacts", h.Client.CreateContact)
				r.Put("/{id}/contacts/{contactId}", h.Client.UpdateContact)
				r.Delete("/{id}/contacts/{contactId}", h.Client.DeleteContact)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Project.List)
				r.Post("/", h.Project.Create)
				r.Get("/{id}", h.Project.GetByID)
				r.Put("/{id}", h.Project.Update)
				r.Delete("/{id}", h.Project.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Task.List)
				r.Post("/", h.Task.Create)
				r.Get("/{id}", h.Task.GetByID)
				r.Put("/{id}", h.Task.Update)
				r.Delete("/{id}", h.Task.Delete)
				r.Post("/{id}/toggle", h.Task.Toggle)
				r.Post("/{id}/assign", h.Task.Assign)
				r.Post("/{id}/send", h.Task.SendAssignment)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", h.Sale.List)
				r.Post("/", h.Sale.Create)
				r.Get("/total", h.Sale.MonthlyTotal)
				r.Put("/{id}", h.Sale.Update)
				r.Delete("/{id}", h.Sale.Delete)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.Document.List)
				r.Post("/", h.Document.Upload)
				r.Get("/{id}", h.Document.GetByID)
				r.Get("/{id}/download", h.Document.Download)
				r.Put("/{id}", h.Document.Update)
				r.Delete("/{id}", h.Document.Delete)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.Event.List)
				r.Post("/", h.Event.Create)
				r.Get("/{id}", h.Event.GetByID)
				r.Put("/{id}", h.Event.Update)
				r.Delete("/{id}", h.Event.Delete)
			})

			r.Get("/calendar", h.Calendar.Get)
			r.Get("/dashboard", h.Dashboard.Get)
			r.Get("/navigation", h.Navigation.Menu)
		})
	})

	if h.SPA != nil {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.OptionalAuthenticate)
			r.Handle("/*", h.SPA)
		})
	}

	return r
}

// timeout bounds the request context. Handlers see ctx.Done() and the store calls abort.
func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
