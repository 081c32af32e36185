package handlers

import (
	"log"
	"net/http"
	"route-refiner/internal/api/dto"
	"route-refiner/internal/platform/obs"
	"route-refiner/internal/ports"
)

// PackageHandler exposes read-only package retrieval endpoints.
type PackageHandler struct {
	Repo ports.PackageRepository
}

// List returns every stored package with its load and delivery timestamps.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	pkgs, err := h.Repo.ListPackages(r.Context())
	if err != nil {
		log.Printf("req_id=%s list packages failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewListPackagesResponse(pkgs))
}
