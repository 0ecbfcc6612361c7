/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests from the console page

ROUTE GROUPS:
  /api/reference/*      Point list and reward list uploads
  /api/sales            Sales batch upload
  /api/classification   Role assignment
  /api/persons/*        Review, selection and row edits
  /api/export           Workbook download
  /api/session/*        Save and restore

SECURITY NOTE:
  No authentication. The console is meant to listen on 127.0.0.1 for the
  one operator working at that machine.

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
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/reference", func(r chi.Router) {
			r.Post("/points", h.UploadPointList)
			r.Post("/rewards", h.UploadRewardList)
		})

		r.Post("/sales", h.UploadSales)

		r.Route("/classification", func(r chi.Router) {
			r.Get("/", h.GetClassification)
			r.Post("/", h.ConfirmClassification)
			r.Delete("/", h.CancelClassification)
		})

		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", h.GetPerson)
				r.Post("/select", h.ToggleSelection)
				r.Post("/activate", h.ActivatePerson)
				r.Put("/stage1/{rowID}", h.SetStage1Status)
				r.Post("/stage2/{rowID}/toggle", h.ToggleStage2Deleted)
				r.Put("/stage2/{rowID}/reward", h.SetCustomReward)
			})
		})

		r.Get("/export", h.Export)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/", h.SaveSession)
			r.Post("/restore", h.RestoreSession)
		})
	})

	return r
}
