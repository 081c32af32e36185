package services

import (
	"context"
	"fmt"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
	"route-refiner/internal/tour"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxPairwiseFetches bounds concurrent origin rows fetched from the provider.
const maxPairwiseFetches = 5

type PlanDeliveriesRequest struct {
	Hub           string
	TruckCount    int
	TruckCapacity int
	DepartAt      time.Time
	ReturnToStart bool
	Refine        bool
	RefineOptions tour.Options
}

// PlanDeliveries assigns every stored package to a truck and plans each truck's
// route: nearest-neighbor construction, then optional local-search refinement.
// Package load and delivery times are stamped from the final plans.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.PackageRepository,
	provider ports.DistanceProvider,
) ([]*domain.RoutePlan, error) {
	pkgs, err := repo.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list package: %w", err)
	}

	pkgDest := make(map[string][]*domain.Package)
	for _, pkg := range pkgs {
		d := strings.TrimSpace(pkg.Destination)
		if d == "" {
			return nil, fmt.Errorf(
				"plan deliveries: package_id=%d has empty destination",
				pkg.PackageID,
			)
		}
		pkg.Destination = d
		pkgDest[d] = append(pkgDest[d], pkg)
	}

	destinations := make([]string, 0, len(pkgDest))
	for d := range pkgDest {
		destinations = append(destinations, d)
	}
	if len(destinations) == 0 {
		return []*domain.RoutePlan{}, nil
	}

	hubResults, err := fetchDistances(ctx, provider, req.Hub, destinations)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: hub distances: %w", err)
	}

	distances := make(map[string]ports.DistanceResult, len(destinations))
	pairwise := PairwiseDistances{}
	for _, d := range destinations {
		r, ok := hubResults[d]
		if !ok {
			return nil, fmt.Errorf("plan deliveries: missing hub distance for %q", d)
		}
		distances[d] = r
		pairwise.Set(req.Hub, d, r)
	}

	trucks := make([]*domain.Truck, 0, req.TruckCount)
	for i := 0; i < req.TruckCount; i++ {
		trucks = append(trucks, domain.NewTruck(i+1, req.TruckCapacity, req.Hub))
	}

	// Assign packages to trucks before computing individual routes.
	if err := AssignPackagesByDistance(trucks, pkgDest, distances, destinations); err != nil {
		return nil, fmt.Errorf("plan deliveries: assign packages: %w", err)
	}

	if err := fillPairwise(ctx, provider, req.Hub, destinations, pairwise); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	plans := make([]*domain.RoutePlan, 0, len(trucks))
	for _, truck := range trucks {
		plan, err := NearestNeighborRoute(ctx, truck, req.DepartAt, pairwise, req.ReturnToStart)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: plan nearest neighbor route: %w", err)
		}

		if req.Refine {
			plan, _, err = RefineRoute(ctx, plan, truck.StartLocation, pairwise, req.ReturnToStart, req.RefineOptions)
			if err != nil {
				return nil, fmt.Errorf("plan deliveries: %w", err)
			}
		}

		if err := truck.ApplyPlan(plan); err != nil {
			return nil, fmt.Errorf("plan deliveries: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// fillPairwise fetches every destination -> (hub and other destinations) row
// concurrently and stores the results in pairwise.
func fillPairwise(
	ctx context.Context,
	provider ports.DistanceProvider,
	hub string,
	destinations []string,
	pairwise PairwiseDistances,
) error {
	hubAndDests := append([]string{hub}, destinations...)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPairwiseFetches)

	for _, origin := range destinations {
		targets := make([]string, 0, len(hubAndDests)-1)
		for _, t := range hubAndDests {
			if t != origin {
				targets = append(targets, t)
			}
		}

		g.Go(func() error {
			res, err := fetchDistances(gctx, provider, origin, targets)
			if err != nil {
				return fmt.Errorf("get pairwise distances from %q: %w", origin, err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, t := range targets {
				r, ok := res[t]
				if !ok {
					return fmt.Errorf("missing pairwise distance from %q to %q", origin, t)
				}
				pairwise.Set(origin, t, r)
			}
			return nil
		})
	}

	return g.Wait()
}
