// Package api provides the HTTP API server and handlers for the Worldmark application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/worldmarkapp/worldmark-server/internal/config"
	"github.com/worldmarkapp/worldmark-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Credential endpoints get a stricter per-IP limit than the rest of the API.
	authRateLimiter := NewRateLimiter(20, time.Minute, 10)
	router.Use(credentialRateLimit(authRateLimiter, logger))

	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             humaAPI,
		logger:          logger,
		authRateLimiter: authRateLimiter,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerWorldRoutes()
	s.registerTagRoutes()
	s.registerMetadataRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// credentialRateLimit applies the rate limiter to the credential endpoints
// only. Refresh and logout carry tokens, not passwords, and stay unlimited.
func credentialRateLimit(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	limited := map[string]bool{
		"/api/v1/auth/setup":    true,
		"/api/v1/auth/register": true,
		"/api/v1/auth/login":    true,
	}

	return func(next http.Handler) http.Handler {
		rateLimited := RateLimitMiddleware(limiter, logger)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limited[r.URL.Path] {
				rateLimited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
