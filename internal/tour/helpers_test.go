package tour

import (
	"math"
	"math/rand/v2"
	"slices"
)

// point is a Euclidean location.
type point struct{ X, Y float64 }

func (p point) DistanceTo(o point) float64 { return math.Hypot(p.X-o.X, p.Y-o.Y) }

// cell is a grid location with Manhattan (integer-valued) distances.
type cell struct{ X, Y int }

func (c cell) DistanceTo(o cell) float64 {
	return float64(absInt(c.X-o.X) + absInt(c.Y-o.Y))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func line(xs ...int) []cell {
	out := make([]cell, 0, len(xs))
	for _, x := range xs {
		out = append(out, cell{X: x})
	}
	return out
}

func randomCells(seed uint64, n int) []cell {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]cell, n)
	for i := range out {
		out[i] = cell{X: r.IntN(50), Y: r.IntN(50)}
	}
	return out
}

func sortedCells(cs []cell) []cell {
	out := slices.Clone(cs)
	slices.SortFunc(out, func(a, b cell) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})
	return out
}

func hexagon() []point {
	h := math.Sqrt(3) / 2
	return []point{{1, 0}, {0.5, h}, {-0.5, h}, {-1, 0}, {-0.5, -h}, {0.5, -h}}
}
