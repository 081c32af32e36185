package ports

import (
	"context"
	"route-refiner/internal/domain"
)

// Persistent store of origin->destination results, keyed by normalized address.
type DistanceCache interface {
	// Return cached results for the destinations that have one; misses are omitted.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// Persistent store of address -> coordinates lookups.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, coords map[string]domain.Coordinates) error
}

// Port: a boundary for retrieving Package entities from a data source.
type PackageRepository interface {
	// Retrieve all packages available for routing, ordered by id.
	ListPackages(ctx context.Context) ([]*domain.Package, error)
}
