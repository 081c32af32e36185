package tour

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoOptUncrossesSquare(t *testing.T) {
	tr := New([]point{{0, 0}, {1, 1}, {1, 0}, {0, 1}})
	before := PathLength(tr)

	res := TwoOpt(tr, DefaultOptions())

	assert.Equal(t, []point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, tr.Stops())
	assert.InDelta(t, 4.0, res.Length, 1e-12)
	assert.Less(t, res.Length, before)
	assert.Equal(t, 1, res.Moves)
	assert.Equal(t, 2, res.Passes)
	assert.True(t, res.Converged)
}

func TestTwoOptConvexPolygonUnchanged(t *testing.T) {
	in := hexagon()
	tr := New(in)

	res := TwoOpt(tr, DefaultOptions())

	assert.Equal(t, in, tr.Stops())
	assert.Zero(t, res.Moves)
	assert.Equal(t, 1, res.Passes)
	assert.InDelta(t, 6.0, res.Length, 1e-9)
}

func TestTwoOptShortToursAreNoOps(t *testing.T) {
	for n := 0; n < 4; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			in := line(5, 0, 9)[:min(n, 3)]
			tr := New(in)

			res := TwoOpt(tr, DefaultOptions())

			assert.Equal(t, in, tr.Stops())
			assert.Zero(t, res.Moves)
			assert.Zero(t, res.Passes)
			assert.True(t, res.Converged)
			assert.Equal(t, PathLength(New(in)), res.Length)
		})
	}
}

func TestTwoOptEpsilonRejectsSmallGains(t *testing.T) {
	tr := New([]point{{0, 0}, {1, 1}, {1, 0}, {0, 1}})

	// Uncrossing saves 2*sqrt(2)-2, about 0.83.
	res := TwoOpt(tr, Options{Epsilon: 1})

	assert.Zero(t, res.Moves)
	assert.InDelta(t, 2+2*math.Sqrt2, res.Length, 1e-12)
}

func TestTwoOptMaxPasses(t *testing.T) {
	tr := New([]point{{0, 0}, {1, 1}, {1, 0}, {0, 1}})

	res := TwoOpt(tr, Options{MaxPasses: 1})

	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, 1, res.Moves)
	assert.False(t, res.Converged)
	assert.InDelta(t, 4.0, res.Length, 1e-12)
}

func TestTwoOptProperties(t *testing.T) {
	opts := DefaultOptions()

	for seed := uint64(1); seed <= 40; seed++ {
		n := 4 + int(seed%27)
		t.Run(fmt.Sprintf("seed=%d/n=%d", seed, n), func(t *testing.T) {
			in := randomCells(seed, n)
			tr := New(in)
			before := PathLength(tr)

			res := TwoOpt(tr, opts)

			require.True(t, res.Converged)
			assert.Equal(t, n, tr.Len())
			assert.Equal(t, sortedCells(in), sortedCells(tr.Stops()), "stops must be a permutation of the input")
			assert.Equal(t, in[0], tr.At(0), "position 0 is never moved")
			assert.Equal(t, in[n-1], tr.At(n-1), "position n-1 is never moved")
			assert.LessOrEqual(t, res.Length, before)
			assert.Equal(t, PathLength(tr), res.Length)

			for i := 0; i < n; i++ {
				for j := i + 3; j < n; j++ {
					current := tr.dist(i, i+1) + tr.dist(j-1, j)
					candidate := tr.dist(i, j-1) + tr.dist(i+1, j)
					require.False(t, opts.improves(candidate, current), "pair (%d, %d) still improves", i, j)
				}
			}

			again := TwoOpt(tr, opts)
			assert.Zero(t, again.Moves)
			assert.Equal(t, 1, again.Passes)
			assert.Equal(t, res.Length, again.Length)
		})
	}
}
