package services

import (
	"cmp"
	"errors"
	"fmt"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
	"slices"
)

// AssignPackagesByDistance assigns packages to trucks using a simple heuristic.
//
// Destinations are sorted by hub distance (ties by name) and chunked across
// trucks, so each truck serves a contiguous band. Within a band the stop order
// is left to route construction and refinement. destinations is sorted in place.
func AssignPackagesByDistance(
	trucks []*domain.Truck,
	pkgDest map[string][]*domain.Package,
	distances map[string]ports.DistanceResult,
	destinations []string,
) error {
	if len(trucks) == 0 {
		return errors.New("assign packages: truck list must not be empty")
	}

	// Sort by hub distance so each truck receives a contiguous "band" of destinations.
	slices.SortFunc(destinations, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(distances[a].DistanceMeters, distances[b].DistanceMeters),
			cmp.Compare(a, b),
		)
	})

	nTrucks := len(trucks)
	nDests := len(destinations)

	// Ceiling division: distribute destinations as evenly as possible across trucks.
	chunkSize := (nDests + nTrucks - 1) / nTrucks

	for ti := 0; ti < nTrucks; ti++ {
		start := ti * chunkSize
		if start >= nDests {
			break
		}

		end := min(start+chunkSize, nDests)

		// Load all packages for this destination band onto the truck.
		// If capacity is exceeded, assignment fails fast rather than rebalancing.
		for _, d := range destinations[start:end] {
			for _, pkg := range pkgDest[d] {
				if err := trucks[ti].Load(pkg); err != nil {
					return fmt.Errorf("assign packages: truck %d: %w", trucks[ti].TruckID, err)
				}
			}
		}
	}

	return nil
}
