package services

import (
	"context"
	"errors"
	"fmt"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
	"time"
)

// Plan a delivery route with nearest-neighbor, fetching distances from the
// provider one step at a time.
//
// Batched lookups are used when the provider supports them. Every fetched leg
// is kept so that stop times are computed without repeat calls.
func PlanRoute(
	ctx context.Context,
	truckID int,
	departAt time.Time,
	startLocation string,
	packages []*domain.Package,
	distanceProvider ports.DistanceProvider,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	if distanceProvider == nil {
		return nil, errors.New("plan route: distance provider must be non-nil")
	}

	seen := PairwiseDistances{}
	candidates := func(from string, to []string) (map[string]ports.DistanceResult, error) {
		res, err := fetchDistances(ctx, distanceProvider, from, to)
		if err != nil {
			return nil, err
		}
		for d, r := range res {
			seen.Set(from, d, r)
		}
		return res, nil
	}
	leg := func(from, to string) (ports.DistanceResult, error) {
		if r, ok := seen.Get(from, to); ok {
			return r, nil
		}
		r, err := distanceProvider.GetDistance(ctx, from, to)
		if err != nil {
			return ports.DistanceResult{}, fmt.Errorf("get distance from %q to %q: %w", from, to, err)
		}
		return r, nil
	}

	return planNearestNeighbor(truckID, departAt, startLocation, packages, candidates, leg, returnToStart)
}

// Create a RoutePlan for the currently loaded packages.
func PlanTruckRoute(
	ctx context.Context,
	truck *domain.Truck,
	departAt time.Time,
	distanceProvider ports.DistanceProvider,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	if truck == nil {
		return nil, errors.New("plan truck route: truck must be non-nil")
	}

	if truck.StartLocation == "" {
		return nil, fmt.Errorf("plan truck route: truck %d startLocation must be non-empty", truck.TruckID)
	}

	plan, err := PlanRoute(ctx, truck.TruckID, departAt, truck.StartLocation, truck.Packages, distanceProvider, returnToStart)
	if err != nil {
		return nil, fmt.Errorf("plan truck route: for truck %d: %w", truck.TruckID, err)
	}
	return plan, nil
}
