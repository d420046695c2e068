package api

import (
	"net/http"
	"time"

	"cvrptw-solver/internal/api/handlers"
	"cvrptw-solver/internal/pipeline"
)

// NewRouter wires HTTP handlers against the shared Simulator and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// the concrete CSV/archive adapters behind the Simulator).
func NewRouter(sim *pipeline.Simulator, today time.Time, defaultStatusTime string) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Sim: sim}
	statusHandler := &handlers.StatusHandler{Sim: sim, Today: today, DefaultAt: defaultStatusTime}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/packages/status", statusHandler.Status)

	return loggingMiddleware(mux)
}
