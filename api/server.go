/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the scheduling frontend

ROUTE GROUPS:
  /healthz              Liveness and store reachability
  /metrics              Prometheus scrape endpoint (when enabled)
  /api/towns, /api/teams, /api/umpires
  /api/games/*          Schedule
  /api/assignments/*    Staffing and pay
  /api/pay-rates/*      Rate log
  /api/reports/*        Weekly totals and coverage
  /api/scenarios        Sample data catalogue
  /api/admin/*          Recompute sweep and seeding

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions carries the deployment-specific parts of the router.
type RouterOptions struct {
	AllowedOrigins []string

	// Metrics is mounted at MetricsPath when non-nil.
	Metrics     http.Handler
	MetricsPath string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Healthz)
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/towns", func(r chi.Router) {
			r.Get("/", h.ListTowns)
			r.Post("/", h.CreateTown)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Post("/", h.CreateTeam)
		})

		r.Route("/umpires", func(r chi.Router) {
			r.Get("/", h.ListUmpires)
			r.Post("/", h.CreateUmpire)
			r.Get("/{id}", h.GetUmpire)
			r.Put("/{id}", h.UpdateUmpire)
			r.Get("/{id}/summary", h.GetUmpireSummary)
			r.Get("/{id}/assignments", h.GetUmpireAssignments)
			r.Get("/{id}/availability", h.GetAvailability)
			r.Put("/{id}/availability", h.SetAvailability)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.ListGames)
			r.Post("/", h.CreateGame)
			r.Get("/{id}", h.GetGame)
			r.Put("/{id}/schedule", h.RescheduleGame)
			r.Put("/{id}/complete", h.CompleteGame)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Get("/{id}", h.GetAssignment)
			r.Get("/{id}/amount", h.ComputeAmount)
			r.Put("/{id}/position", h.EditPosition)
			r.Put("/{id}/umpire", h.ReassignUmpire)
			r.Put("/{id}/paid", h.MarkPaid)
			r.Put("/{id}/pay", h.OverridePay)
			r.Delete("/{id}", h.RemoveAssignment)
		})

		r.Route("/pay-rates", func(r chi.Router) {
			r.Get("/", h.ListPayRates)
			r.Post("/", h.CreatePayRate)
			r.Put("/{id}", h.UpdatePayRate)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/weekly", h.WeeklyTotals)
			r.Get("/coverage", h.Coverage)
		})

		r.Get("/scenarios", h.ListScenarios)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/recompute", h.RecomputeStatus)
			r.Post("/recompute", h.Recompute)
			r.Post("/seed", h.LoadScenario)
		})
	})

	return r
}
