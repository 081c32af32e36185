package services

import (
	"context"
	"fmt"
	"route-refiner/internal/ports"
)

// PairwiseDistances maps "origin|destination" to a directed travel result.
type PairwiseDistances map[string]ports.DistanceResult

func pairKey(from, to string) string { return from + "|" + to }

func (p PairwiseDistances) Get(from, to string) (ports.DistanceResult, bool) {
	r, ok := p[pairKey(from, to)]
	return r, ok
}

func (p PairwiseDistances) Set(from, to string, r ports.DistanceResult) {
	p[pairKey(from, to)] = r
}

// Meters returns a symmetric distance between a and b: the mean of both
// directions when both are known, otherwise whichever one is.
func (p PairwiseDistances) Meters(a, b string) (float64, bool) {
	if a == b {
		return 0, true
	}
	ab, okAB := p.Get(a, b)
	ba, okBA := p.Get(b, a)
	switch {
	case okAB && okBA:
		return float64(ab.DistanceMeters+ba.DistanceMeters) / 2, true
	case okAB:
		return float64(ab.DistanceMeters), true
	case okBA:
		return float64(ba.DistanceMeters), true
	}
	return 0, false
}

// fetchDistances returns results from origin to every target, batching when
// the provider supports it.
func fetchDistances(
	ctx context.Context,
	provider ports.DistanceProvider,
	origin string,
	targets []string,
) (map[string]ports.DistanceResult, error) {
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		res, err := mp.GetDistances(ctx, origin, targets)
		if err != nil {
			return nil, fmt.Errorf("get distances matrix from %q: %w", origin, err)
		}
		return res, nil
	}

	res := make(map[string]ports.DistanceResult, len(targets))
	for _, t := range targets {
		r, err := provider.GetDistance(ctx, origin, t)
		if err != nil {
			return nil, fmt.Errorf("get distance from %q to %q: %w", origin, t, err)
		}
		res[t] = r
	}
	return res, nil
}
