package services

import (
	"context"
	"route-refiner/internal/adapters/distance"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
	"sync/atomic"
)

// gridPoint places a location on a grid; fixtures use Manhattan distance,
// 100 m and 10 s per unit.
type gridPoint struct {
	name string
	x, y int
}

func gridPairs(points []gridPoint) []distance.MockPair {
	var pairs []distance.MockPair
	for i, a := range points {
		for _, b := range points[i+1:] {
			units := abs(a.x-b.x) + abs(a.y-b.y)
			pairs = append(pairs, distance.MockPair{From: a.name, To: b.name, Meters: units * 100, Seconds: units * 10})
		}
	}
	return distance.Symmetric(pairs)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// crossingRoute is a hub and five stops where nearest-neighbor visits
// E, B, C, D, A and local search shortens the loop to E, D, C, B, A.
var crossingRoute = []gridPoint{
	{"HUB", 0, 0},
	{"A", 0, 9},
	{"B", 1, 4},
	{"C", 6, 4},
	{"D", 5, 1},
	{"E", 0, 2},
}

func pairwiseFor(points []gridPoint) PairwiseDistances {
	p := PairwiseDistances{}
	for _, mp := range gridPairs(points) {
		p.Set(mp.From, mp.To, ports.DistanceResult{DistanceMeters: mp.Meters, DurationSeconds: mp.Seconds})
	}
	return p
}

func packagesFor(points []gridPoint) []*domain.Package {
	var pkgs []*domain.Package
	for i, p := range points[1:] {
		pkgs = append(pkgs, &domain.Package{PackageID: i + 1, Destination: p.name})
	}
	return pkgs
}

// matrixProvider adds batched lookups on top of the mock.
type matrixProvider struct {
	*distance.MockDistanceProvider
	batches atomic.Int64
}

func (m *matrixProvider) GetDistances(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	m.batches.Add(1)
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, err := m.GetDistance(ctx, origin, d)
		if err != nil {
			return nil, err
		}
		out[d] = r
	}
	return out, nil
}

type staticRepo struct {
	pkgs []*domain.Package
	err  error
}

func (r staticRepo) ListPackages(context.Context) ([]*domain.Package, error) {
	return r.pkgs, r.err
}
