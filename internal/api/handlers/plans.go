package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"route-refiner/internal/api/dto"
	"route-refiner/internal/platform/obs"
	"route-refiner/internal/ports"
	"route-refiner/internal/services"
	"route-refiner/internal/tour"
	"strings"
	"time"
)

const (
	defaultTruckCount    = 3
	defaultTruckCapacity = 16
	maxRequestPasses     = 1000
)

type PlanHandler struct {
	Repo       ports.PackageRepository
	Provider   ports.DistanceProvider
	DefaultHub string
	// Refine and RefineOptions apply when the request does not override them.
	Refine        bool
	RefineOptions tour.Options
	// Now defaults to time.Now.
	Now func() time.Time
}

// Plan orchestrates package assignment and route planning for all trucks.
// It coordinates repository access, assignment heuristics, route construction
// and local-search refinement.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var body dto.PlanRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	req, err := h.serviceRequest(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plans, err := services.PlanDeliveries(r.Context(), req, h.Repo, h.Provider)
	if err != nil {
		log.Printf("req_id=%s plan deliveries failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewListPlansResponse(plans))
}

// serviceRequest applies defaults and bounds; its errors are safe to return to clients.
func (h *PlanHandler) serviceRequest(body dto.PlanRequest) (services.PlanDeliveriesRequest, error) {
	req := services.PlanDeliveriesRequest{
		Hub:           strings.TrimSpace(body.Hub),
		TruckCount:    body.TruckCount,
		TruckCapacity: body.TruckCapacity,
		ReturnToStart: body.ReturnToStart,
		Refine:        h.Refine,
		RefineOptions: h.RefineOptions,
	}

	if req.Hub == "" {
		req.Hub = strings.TrimSpace(h.DefaultHub)
	}
	if req.Hub == "" {
		return req, errors.New("hub is required")
	}

	if req.TruckCount == 0 {
		req.TruckCount = defaultTruckCount
	}
	if req.TruckCount < 1 || req.TruckCount > 10 {
		return req, errors.New("truck_count must be between 1 and 10")
	}

	if req.TruckCapacity == 0 {
		req.TruckCapacity = defaultTruckCapacity
	}
	if req.TruckCapacity < 1 || req.TruckCapacity > 100 {
		return req, errors.New("truck_capacity must be between 1 and 100")
	}

	if body.Refine != nil {
		req.Refine = *body.Refine
	}
	if body.MaxPasses != nil {
		if *body.MaxPasses < 0 || *body.MaxPasses > maxRequestPasses {
			return req, errors.New("max_passes must be between 0 and 1000")
		}
		req.RefineOptions.MaxPasses = *body.MaxPasses
	}

	switch {
	case body.DepartAt != nil:
		req.DepartAt = *body.DepartAt
	case h.Now != nil:
		req.DepartAt = h.Now()
	default:
		req.DepartAt = time.Now()
	}

	return req, nil
}
