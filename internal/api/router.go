package api

import (
	"net/http"
	"route-refiner/internal/api/handlers"
	"route-refiner/internal/config"
	"route-refiner/internal/platform/metrics"
	"route-refiner/internal/ports"
	"route-refiner/internal/tour"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.PackageRepository,
	provider ports.DistanceProvider,
	hub string,
	refine config.RefineConfig,
) http.Handler {
	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{
		Repo:       repo,
		Provider:   provider,
		DefaultHub: hub,
		Refine:     refine.Enabled,
		RefineOptions: tour.Options{
			Epsilon:   refine.Epsilon,
			MaxPasses: refine.MaxPasses,
		},
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/packages", pkgHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
