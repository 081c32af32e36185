// Package dto holds the JSON shapes of the HTTP API.
package dto

import (
	"route-refiner/internal/domain"
	"time"
)

// PlanRequest fields left zero fall back to server defaults. Refine and
// MaxPasses override the configured local-search settings for this request.
type PlanRequest struct {
	Hub           string     `json:"hub"`
	DepartAt      *time.Time `json:"depart_at"`
	ReturnToStart bool       `json:"return_to_start"`
	TruckCount    int        `json:"truck_count"`
	TruckCapacity int        `json:"truck_capacity"`
	Refine        *bool      `json:"refine"`
	MaxPasses     *int       `json:"max_passes"`
}

type PlanStop struct {
	Destination string    `json:"destination"`
	ArriveAt    time.Time `json:"arrive_at"`
	PackageIDs  []int     `json:"package_ids"`
}

type Plan struct {
	TruckID              int        `json:"truck_id"`
	DepartAt             time.Time  `json:"depart_at"`
	TotalDistanceMeters  int        `json:"total_distance_meters"`
	TotalDurationSeconds int        `json:"total_duration_seconds"`
	Refined              bool       `json:"refined"`
	SavedMeters          int        `json:"saved_meters"`
	Stops                []PlanStop `json:"stops"`
}

type ListPlansResponse struct {
	Plans []Plan `json:"plans"`
}

func NewListPlansResponse(plans []*domain.RoutePlan) ListPlansResponse {
	res := ListPlansResponse{Plans: make([]Plan, 0, len(plans))}
	for _, p := range plans {
		stops := make([]PlanStop, 0, len(p.Stops))
		for _, s := range p.Stops {
			stops = append(stops, PlanStop{Destination: s.Destination, ArriveAt: s.ArriveAt, PackageIDs: s.PackageIDs})
		}
		res.Plans = append(res.Plans, Plan{
			TruckID:              p.TruckID,
			DepartAt:             p.DepartAt,
			TotalDistanceMeters:  p.TotalDistanceMeters,
			TotalDurationSeconds: p.TotalDurationSeconds,
			Refined:              p.Refined,
			SavedMeters:          p.SavedMeters,
			Stops:                stops,
		})
	}
	return res
}

type Package struct {
	PackageID   int        `json:"package_id"`
	Destination string     `json:"destination"`
	LoadedAt    *time.Time `json:"loaded_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

type ListPackagesResponse struct {
	Packages []Package `json:"packages"`
}

func NewListPackagesResponse(pkgs []*domain.Package) ListPackagesResponse {
	res := ListPackagesResponse{Packages: make([]Package, 0, len(pkgs))}
	for _, p := range pkgs {
		res.Packages = append(res.Packages, Package{
			PackageID:   p.PackageID,
			Destination: p.Destination,
			LoadedAt:    p.LoadedAt,
			DeliveredAt: p.DeliveredAt,
		})
	}
	return res
}
