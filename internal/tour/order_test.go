package tour

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each case needs several moves, and trying pairs or patterns in any other
// order ends somewhere else, so the expected orders pin the scan order: i
// ascending, j ascending, forward relocation before backward, every check
// against the order left by earlier moves in the same pass.
var scanOrderCases = []struct {
	in []cell

	twoOpt      []cell
	twoOptMoves int
	twoOptLen   float64

	// TwoHalfOpt run on the TwoOpt result.
	then      []cell
	thenMoves int
	thenLen   float64

	// TwoHalfOpt run on the input directly.
	alone      []cell
	aloneMoves int
	aloneLen   float64
}{
	{
		in:          []cell{{13, 16}, {6, 8}, {3, 11}, {0, 15}, {4, 6}, {12, 0}, {14, 18}, {2, 0}, {13, 7}, {14, 1}, {5, 8}, {18, 10}},
		twoOpt:      []cell{{13, 16}, {14, 18}, {14, 1}, {12, 0}, {13, 7}, {6, 8}, {4, 6}, {2, 0}, {0, 15}, {3, 11}, {5, 8}, {18, 10}},
		twoOptMoves: 8,
		twoOptLen:   106,
		then:        []cell{{13, 16}, {14, 18}, {13, 7}, {14, 1}, {12, 0}, {2, 0}, {4, 6}, {0, 15}, {3, 11}, {5, 8}, {6, 8}, {18, 10}},
		thenMoves:   3,
		thenLen:     94,
		alone:       []cell{{13, 16}, {14, 18}, {13, 7}, {6, 8}, {5, 8}, {0, 15}, {3, 11}, {4, 6}, {2, 0}, {12, 0}, {14, 1}, {18, 10}},
		aloneMoves:  12,
		aloneLen:    94,
	},
	{
		in:          []cell{{4, 6}, {10, 13}, {14, 19}, {19, 11}, {15, 3}, {5, 17}, {1, 6}, {8, 0}, {11, 14}, {10, 4}, {0, 2}, {3, 7}},
		twoOpt:      []cell{{4, 6}, {1, 6}, {0, 2}, {8, 0}, {15, 3}, {10, 4}, {10, 13}, {19, 11}, {14, 19}, {11, 14}, {5, 17}, {3, 7}},
		twoOptMoves: 9,
		twoOptLen:   98,
		then:        []cell{{4, 6}, {1, 6}, {0, 2}, {8, 0}, {10, 4}, {15, 3}, {19, 11}, {14, 19}, {11, 14}, {10, 13}, {5, 17}, {3, 7}},
		thenMoves:   3,
		thenLen:     88,
		alone:       []cell{{4, 6}, {5, 17}, {10, 13}, {11, 14}, {14, 19}, {19, 11}, {15, 3}, {10, 4}, {8, 0}, {0, 2}, {1, 6}, {3, 7}},
		aloneMoves:  9,
		aloneLen:    88,
	},
	{
		in:          []cell{{2, 10}, {19, 1}, {11, 13}, {13, 7}, {3, 7}, {7, 12}, {14, 4}, {11, 10}, {12, 4}, {1, 11}, {15, 10}, {0, 9}},
		twoOpt:      []cell{{2, 10}, {15, 10}, {19, 1}, {14, 4}, {12, 4}, {13, 7}, {11, 10}, {11, 13}, {7, 12}, {3, 7}, {1, 11}, {0, 9}},
		twoOptMoves: 12,
		twoOptLen:   74,
		then:        []cell{{2, 10}, {3, 7}, {12, 4}, {19, 1}, {14, 4}, {13, 7}, {15, 10}, {11, 10}, {11, 13}, {7, 12}, {1, 11}, {0, 9}},
		thenMoves:   3,
		thenLen:     68,
		alone:       []cell{{2, 10}, {3, 7}, {12, 4}, {19, 1}, {14, 4}, {13, 7}, {15, 10}, {11, 10}, {11, 13}, {7, 12}, {1, 11}, {0, 9}},
		aloneMoves:  15,
		aloneLen:    68,
	},
}

func TestTwoOptFollowsScanOrder(t *testing.T) {
	for k, tc := range scanOrderCases {
		t.Run(fmt.Sprintf("case=%d", k), func(t *testing.T) {
			tr := New(tc.in)

			res := TwoOpt(tr, DefaultOptions())
			require.Equal(t, tc.twoOpt, tr.Stops())
			assert.Equal(t, tc.twoOptMoves, res.Moves)
			assert.Equal(t, tc.twoOptLen, res.Length)

			res = TwoHalfOpt(tr, DefaultOptions())
			assert.Equal(t, tc.then, tr.Stops())
			assert.Equal(t, tc.thenMoves, res.Moves)
			assert.Equal(t, tc.thenLen, res.Length)
		})
	}
}

func TestTwoHalfOptFollowsScanOrder(t *testing.T) {
	for k, tc := range scanOrderCases {
		t.Run(fmt.Sprintf("case=%d", k), func(t *testing.T) {
			tr := New(tc.in)

			res := TwoHalfOpt(tr, DefaultOptions())
			assert.Equal(t, tc.alone, tr.Stops())
			assert.Equal(t, tc.aloneMoves, res.Moves)
			assert.Equal(t, tc.aloneLen, res.Length)
			assert.True(t, res.Converged)
		})
	}
}

func TestTwoHalfOptMaxPasses(t *testing.T) {
	tr := New(scanOrderCases[0].in)

	res := TwoHalfOpt(tr, Options{Epsilon: 1e-9, MaxPasses: 1})

	assert.Equal(t, []cell{{13, 16}, {5, 8}, {6, 8}, {13, 7}, {14, 18}, {0, 15}, {3, 11}, {4, 6}, {2, 0}, {12, 0}, {14, 1}, {18, 10}}, tr.Stops())
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, 8, res.Moves)
	assert.False(t, res.Converged)
	assert.Equal(t, 112.0, res.Length)
}

// In the unit square visited 00, 01, 10, 11 every move in either
// neighborhood costs exactly what it saves.
func TestTiesAreNotMoves(t *testing.T) {
	square := []cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	zero := Options{Epsilon: 0}

	tr := New(square)
	res := TwoOpt(tr, zero)
	assert.Zero(t, res.Moves)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, square, tr.Stops())

	res = TwoHalfOpt(tr, zero)
	assert.Zero(t, res.Moves)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, square, tr.Stops())
}
