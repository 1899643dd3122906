// Package ui exposes the simulation service over HTTP: a chi JSON API for
// programmatic callers and a gin dashboard for people.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"teasim/app"
)

// App represents the JSON API application
type App struct {
	router      *chi.Mux
	simulations *app.SimulationService
}

// NewApp creates a new API application
func NewApp(simulations *app.SimulationService) *App {
	a := &App{
		router:      chi.NewRouter(),
		simulations: simulations,
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API surface
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/simulations", func(r chi.Router) {
		r.Post("/", a.handleRunSimulation)
		r.Get("/", a.handleListRuns)
		r.Get("/{id}", a.handleGetRun)
		r.Get("/{id}/report.md", a.handleRunReport)
		r.Get("/{id}/export.xlsx", a.handleRunExport)
		r.Delete("/{id}", a.handleDeleteRun)
	})
}

// Router returns the HTTP handler
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the API server
func (a *App) Start(addr string) error {
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
