package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
	"slices"
	"time"
)

// candidatesFunc returns travel results from one location to several others.
type candidatesFunc func(from string, to []string) (map[string]ports.DistanceResult, error)

// legFunc returns the travel result for a single leg.
type legFunc func(from, to string) (ports.DistanceResult, error)

// Plan a delivery route using a greedy nearest-neighbor algorithm over a
// precomputed pairwise table.
//
// The algorithm minimizes immediate travel duration at each step.
// It does not attempt global route optimization; RefineRoute does that.
func NearestNeighborRoute(
	ctx context.Context,
	truck *domain.Truck,
	departAt time.Time,
	distances PairwiseDistances,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	if truck == nil {
		return nil, errors.New("plan route: truck must be non-nil")
	}

	lookup := func(from, to string) (ports.DistanceResult, error) {
		r, ok := distances.Get(from, to)
		if !ok {
			return ports.DistanceResult{}, fmt.Errorf("missing distance result from %q to %q", from, to)
		}
		return r, nil
	}
	candidates := func(from string, to []string) (map[string]ports.DistanceResult, error) {
		out := make(map[string]ports.DistanceResult, len(to))
		for _, d := range to {
			r, err := lookup(from, d)
			if err != nil {
				return nil, err
			}
			out[d] = r
		}
		return out, nil
	}

	return planNearestNeighbor(truck.TruckID, departAt, truck.StartLocation, truck.Packages, candidates, lookup, returnToStart)
}

func planNearestNeighbor(
	truckID int,
	departAt time.Time,
	startLocation string,
	packages []*domain.Package,
	candidates candidatesFunc,
	leg legFunc,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	if startLocation == "" {
		return nil, errors.New("plan route: startLocation must be non-empty")
	}

	byDestination, destinations := groupByDestination(packages)
	order, err := nearestNeighborOrder(startLocation, destinations, candidates)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	plan, err := buildPlan(truckID, departAt, startLocation, order, byDestination, leg, returnToStart)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	return plan, nil
}

// groupByDestination returns package ids per destination and the sorted destinations.
func groupByDestination(packages []*domain.Package) (map[string][]int, []string) {
	byDestination := make(map[string][]int)
	for _, pkg := range packages {
		byDestination[pkg.Destination] = append(byDestination[pkg.Destination], pkg.PackageID)
	}

	destinations := make([]string, 0, len(byDestination))
	for d := range byDestination {
		destinations = append(destinations, d)
	}
	slices.Sort(destinations)

	return byDestination, destinations
}

// nearestNeighborOrder visits destinations greedily by travel duration.
func nearestNeighborOrder(start string, destinations []string, candidates candidatesFunc) ([]string, error) {
	remaining := slices.Clone(destinations)
	order := make([]string, 0, len(destinations))
	current := start

	for len(remaining) > 0 {
		results, err := candidates(current, remaining)
		if err != nil {
			return nil, err
		}

		best := -1
		minDuration := math.MaxInt64
		// remaining is sorted, so strict < keeps the lexically smallest on ties.
		for i, d := range remaining {
			r, ok := results[d]
			if !ok {
				return nil, fmt.Errorf("missing distance result from %q to %q", current, d)
			}
			if r.DurationSeconds < minDuration {
				minDuration = r.DurationSeconds
				best = i
			}
		}

		current = remaining[best]
		order = append(order, current)
		remaining = slices.Delete(remaining, best, best+1)
	}

	return order, nil
}

// buildPlan walks order from start and accumulates arrival times and totals.
func buildPlan(
	truckID int,
	departAt time.Time,
	start string,
	order []string,
	byDestination map[string][]int,
	leg legFunc,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	plan := &domain.RoutePlan{
		TruckID:  truckID,
		DepartAt: departAt,
		Stops:    make([]domain.RouteStop, 0, len(order)),
	}
	if len(order) == 0 {
		return plan, nil
	}

	currentTime := departAt
	current := start
	advance := func(to string) error {
		r, err := leg(current, to)
		if err != nil {
			return err
		}
		currentTime = currentTime.Add(time.Duration(r.DurationSeconds) * time.Second)
		plan.TotalDurationSeconds += r.DurationSeconds
		plan.TotalDistanceMeters += r.DistanceMeters
		current = to
		return nil
	}

	for _, d := range order {
		if err := advance(d); err != nil {
			return nil, err
		}
		plan.Stops = append(plan.Stops, domain.RouteStop{
			Destination: d,
			ArriveAt:    currentTime,
			PackageIDs:  byDestination[d],
		})
	}

	// Optionally includes return leg to hub for total route metrics.
	if returnToStart {
		if err := advance(start); err != nil {
			return nil, fmt.Errorf("return leg: %w", err)
		}
	}

	return plan, nil
}
