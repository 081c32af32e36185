package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-refiner/internal/domain"
	"route-refiner/internal/platform/metrics"
	"route-refiner/internal/platform/obs"
	"route-refiner/internal/ports"
	"route-refiner/internal/tour"
)

// RefineStats reports what the local search did to one route.
type RefineStats struct {
	TwoOpt       tour.Result
	TwoHalfOpt   tour.Result
	BeforeMeters int
	AfterMeters  int
	Applied      bool
}

// routeNode is a tour location backed by the route's pairwise table.
type routeNode struct {
	name  string
	table PairwiseDistances
}

// DistanceTo relies on RefineRoute having checked that every pair is known.
func (n routeNode) DistanceTo(o routeNode) float64 {
	m, _ := n.table.Meters(n.name, o.name)
	return m
}

// RefineRoute improves a constructed route with 2-opt followed by Or-opt.
//
// The tour is the closed loop start -> stops -> start, priced with the
// symmetric meter distance from the table. Neither neighborhood moves the first
// or last position, so the route still leaves the start first and ends at the
// same final stop. Stop times and totals are rebuilt from the directed table.
// Directed legs can disagree with the symmetric price, so a refined plan is
// only returned when it is strictly shorter than the input; otherwise the input
// plan comes back unchanged. The input is also kept when a stop repeats the
// start or another stop.
func RefineRoute(
	ctx context.Context,
	plan *domain.RoutePlan,
	start string,
	distances PairwiseDistances,
	returnToStart bool,
	opts tour.Options,
) (_ *domain.RoutePlan, stats RefineStats, err error) {
	defer obs.Time(ctx, "refine")(&err)

	if plan == nil {
		return nil, stats, errors.New("refine route: plan must be non-nil")
	}
	stats.BeforeMeters = plan.TotalDistanceMeters
	stats.AfterMeters = plan.TotalDistanceMeters

	// Fewer than four tour nodes admit no move in either neighborhood.
	if len(plan.Stops) < 3 {
		return plan, stats, nil
	}

	if name, ok := repeatedLocation(start, plan.Stops); ok {
		log.Printf(
			"req_id=%s op=refine truck=%d kept=constructed repeated=%q",
			obs.RequestID(ctx), plan.TruckID, name,
		)
		return plan, stats, nil
	}

	nodes, err := routeNodes(start, plan.Stops, distances)
	if err != nil {
		return nil, stats, fmt.Errorf("refine route: truck %d: %w", plan.TruckID, err)
	}

	tr := tour.New(nodes)
	stats.TwoOpt = tour.TwoOpt(tr, opts)
	stats.TwoHalfOpt = tour.TwoHalfOpt(tr, opts)
	recordTourMetrics(stats)

	if stats.TwoOpt.Moves+stats.TwoHalfOpt.Moves == 0 {
		return plan, stats, nil
	}

	ordered := tr.Stops()
	if ordered[0].name != start {
		return nil, stats, fmt.Errorf("refine route: truck %d: start %q displaced by %q", plan.TruckID, start, ordered[0].name)
	}
	order := make([]string, 0, len(ordered)-1)
	for _, n := range ordered[1:] {
		order = append(order, n.name)
	}

	byDestination := make(map[string][]int, len(plan.Stops))
	for _, s := range plan.Stops {
		byDestination[s.Destination] = s.PackageIDs
	}

	leg := func(from, to string) (ports.DistanceResult, error) {
		r, ok := distances.Get(from, to)
		if !ok {
			return ports.DistanceResult{}, fmt.Errorf("missing distance result from %q to %q", from, to)
		}
		return r, nil
	}
	refined, err := buildPlan(plan.TruckID, plan.DepartAt, start, order, byDestination, leg, returnToStart)
	if err != nil {
		return nil, stats, fmt.Errorf("refine route: truck %d: %w", plan.TruckID, err)
	}

	if refined.TotalDistanceMeters >= plan.TotalDistanceMeters {
		log.Printf(
			"req_id=%s op=refine truck=%d kept=constructed before_m=%d candidate_m=%d",
			obs.RequestID(ctx), plan.TruckID, plan.TotalDistanceMeters, refined.TotalDistanceMeters,
		)
		return plan, stats, nil
	}

	refined.Refined = true
	refined.SavedMeters = plan.TotalDistanceMeters - refined.TotalDistanceMeters
	stats.AfterMeters = refined.TotalDistanceMeters
	stats.Applied = true
	metrics.RefineSavedMeters.Observe(float64(refined.SavedMeters))

	log.Printf(
		"req_id=%s op=refine truck=%d before_m=%d after_m=%d two_opt_moves=%d or_opt_moves=%d",
		obs.RequestID(ctx), plan.TruckID, stats.BeforeMeters, stats.AfterMeters,
		stats.TwoOpt.Moves, stats.TwoHalfOpt.Moves,
	)

	return refined, stats, nil
}

// repeatedLocation reports the first name that occurs twice in [start, stops...].
// A stop addressed at the start, or two stops at one address, has no place in
// a tour of distinct locations.
func repeatedLocation(start string, stops []domain.RouteStop) (string, bool) {
	seen := map[string]struct{}{start: {}}
	for _, s := range stops {
		if _, ok := seen[s.Destination]; ok {
			return s.Destination, true
		}
		seen[s.Destination] = struct{}{}
	}
	return "", false
}

// routeNodes builds [start, stops...] and checks the table covers every pair.
// Names must be distinct.
func routeNodes(start string, stops []domain.RouteStop, distances PairwiseDistances) ([]routeNode, error) {
	names := make([]string, 0, 1+len(stops))
	names = append(names, start)
	for _, s := range stops {
		names = append(names, s.Destination)
	}

	for i, a := range names {
		for _, b := range names[i+1:] {
			if _, ok := distances.Meters(a, b); !ok {
				return nil, fmt.Errorf("missing distance between %q and %q", a, b)
			}
		}
	}

	nodes := make([]routeNode, 0, len(names))
	for _, n := range names {
		nodes = append(nodes, routeNode{name: n, table: distances})
	}
	return nodes, nil
}

func recordTourMetrics(stats RefineStats) {
	metrics.TourMoves.WithLabelValues("two_opt").Add(float64(stats.TwoOpt.Moves))
	metrics.TourMoves.WithLabelValues("two_half_opt").Add(float64(stats.TwoHalfOpt.Moves))
	metrics.TourPasses.WithLabelValues("two_opt").Observe(float64(stats.TwoOpt.Passes))
	metrics.TourPasses.WithLabelValues("two_half_opt").Observe(float64(stats.TwoHalfOpt.Passes))
}
