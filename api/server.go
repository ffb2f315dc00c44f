/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the HR frontend

ROUTE GROUPS:
  /api/incapacities/*   Record lifecycle
  /api/companies/*      Companies, rosters, per-company reports
  /api/reports/*        Batch report dispatch
  /api/email            Free-form email
  /api/health           Liveness

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
		// Incapacity routes. Fixed segments before the {id} wildcard.
		r.Route("/incapacities", func(r chi.Router) {
			r.Post("/", h.CreateIncapacity)
			r.Get("/pending-review", h.ListPendingReview)
			r.Get("/status/{status}", h.ListByStatus)
			r.Get("/user/{userID}", h.ListBySubject)
			r.Get("/{id}", h.GetIncapacity)
			r.Put("/{id}", h.UpdateIncapacity)
			r.Delete("/{id}", h.DeleteIncapacity)
			r.Post("/{id}/transition", h.TransitionIncapacity)
		})

		// Company routes
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.ListCompanies)
			r.Post("/", h.CreateCompany)
			r.Get("/{id}", h.GetCompany)
			r.Get("/{id}/employees", h.ListCompanyEmployees)
			r.Post("/{id}/employees", h.CreateEmployee)
			r.Get("/{id}/report", h.DownloadReport)
			r.Post("/{id}/report/send", h.SendCompanyReport)
		})

		// Batch report routes
		r.Route("/reports", func(r chi.Router) {
			r.Post("/send-all", h.SendAllReports)
		})

		r.Post("/email", h.SendEmail)
		r.Get("/health", h.Health)
	})

	return r
}
