package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/api/middleware"
	"github.com/Ibragim1996/stream-overlay/internal/handlers"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the overlay loads as an OBS browser source from anywhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/token", h.IssueToken)
		r.Get("/overlay/verify", h.VerifyToken)
		r.Post("/task", h.Task)
		r.Post("/events", h.PublishEvent)
		r.Post("/events/toggle", h.ToggleAudience)
		r.Get("/events/stream", h.StreamEvents)
		r.Get("/state", h.GetState)
		r.Post("/state", h.PatchState)
	})

	return r
}
