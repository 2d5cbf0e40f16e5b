/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser front end

AUTH:
  /api/auth/* and GET /api/leave-types are public; everything else sits
  behind the bearer-token middleware.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})
		r.Get("/leave-types", h.ListLeaveTypes)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Middleware)

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.SubmitLeave)
				r.Get("/", h.ListLeaves)
				r.Get("/{id}", h.GetLeave)
				r.Put("/{id}", h.TransitionLeave)
				r.Get("/employee/{id}", h.ListEmployeeLeaves)
			})

			r.Get("/leave-balance/{id}/report", h.BalanceReport)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/user/{id}", h.ListNotifications)
				r.Put("/{id}/read", h.MarkNotificationRead)
			})

			r.Get("/users", h.ListUsers)
		})
	})

	return r
}
