package ports

import "context"

// Directed distance and travel duration from one location to another.
// Providers may return different results for the two directions of a pair.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}

// Optional extension of DistanceProvider that supports batched lookups.
// Route planning checks for it with a type assertion.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations, keyed by destination.
	GetDistances(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
}
