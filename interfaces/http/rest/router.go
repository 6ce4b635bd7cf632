package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"breathe-backend/application/commands/bus"
	"breathe-backend/application/ports"
	querybus "breathe-backend/application/queries/bus"
	"breathe-backend/domain/technique"
	"breathe-backend/interfaces/http/rest/handlers"
	"breathe-backend/interfaces/http/rest/middleware"
	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/errors"
	"breathe-backend/pkg/observability"
)

// Dependencies are the collaborators the router hands to its handlers
type Dependencies struct {
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
	Catalog         *technique.Holder
	Clock           ports.Clock
	JWT             *auth.JWTService
	RateLimiter     auth.RateLimiter
	Collector       *observability.Collector
	Tracer          *observability.Tracer
	Logger          *zap.Logger
	Recommendations int
	EnableCORS      bool
	Debug           bool
	Breaker         middleware.CircuitBreakerConfig
}

// Router creates and configures the HTTP router
type Router struct {
	deps Dependencies
	errs *errors.ErrorHandler
}

// NewRouter creates a new router instance
func NewRouter(deps Dependencies) *Router {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Breaker.Name == "" {
		deps.Breaker.Name = "api"
	}
	return &Router{
		deps: deps,
		errs: errors.NewErrorHandler(deps.Logger, deps.Debug),
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errs.Middleware)
	router.Use(middleware.Logger(rt.deps.Logger))
	if rt.deps.Collector != nil {
		router.Use(middleware.Metrics(rt.deps.Collector))
	}
	if rt.deps.Tracer != nil {
		router.Use(middleware.Tracing(rt.deps.Tracer))
	}

	if rt.deps.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errs.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errs.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/health", rt.healthCheck)
	if rt.deps.Collector != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.deps.Collector.GetRegistry(), promhttp.HandlerOpts{}))
	}

	authHandler := handlers.NewAuthHandler(rt.deps.CommandBus, rt.deps.QueryBus, rt.deps.JWT, rt.errs, rt.deps.Logger)
	techniqueHandler := handlers.NewTechniqueHandler(rt.deps.Catalog, rt.deps.Recommendations, rt.errs, rt.deps.Logger)
	sessionHandler := handlers.NewSessionHandler(rt.deps.CommandBus, rt.deps.QueryBus, rt.deps.Clock, rt.errs, rt.deps.Logger)
	userHandler := handlers.NewUserHandler(rt.deps.CommandBus, rt.deps.QueryBus, rt.errs, rt.deps.Logger)

	router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.CircuitBreaker(rt.deps.Breaker, rt.errs, rt.deps.Logger))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/techniques", func(r chi.Router) {
			r.Get("/", techniqueHandler.ListTechniques)
			r.Get("/categories", techniqueHandler.ListCategories)
			r.Get("/recommend/{goal}", techniqueHandler.Recommend)
			r.Get("/{techniqueID}", techniqueHandler.GetTechnique)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.CircuitBreaker(rt.deps.Breaker, rt.errs, rt.deps.Logger))
			r.Use(middleware.Authenticate(rt.deps.JWT, rt.deps.RateLimiter, rt.errs, rt.deps.Logger))

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.RecordSession)
				r.Get("/", sessionHandler.ListSessions)
				r.Get("/stats", sessionHandler.GetStats)
				r.Get("/weekly", sessionHandler.GetWeekly)
				r.Get("/progress", sessionHandler.GetProgress)
				r.Get("/{sessionID}", sessionHandler.GetSession)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.GetMe)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Put("/settings", userHandler.UpdateSettings)
				r.Get("/favorites", userHandler.ListFavorites)
				r.Post("/favorites/{techniqueID}", userHandler.AddFavorite)
				r.Delete("/favorites/{techniqueID}", userHandler.RemoveFavorite)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
}
