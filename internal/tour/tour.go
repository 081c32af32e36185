package tour

import (
	"fmt"
	"slices"
)

// Location is anything that can report its distance to another location of the
// same kind. Distances must be symmetric and non-negative.
type Location[L any] interface {
	DistanceTo(other L) float64
}

// Tour is a cyclic visiting order: the last stop connects back to the first.
//
// A Tour owns its backing slice. The only mutations it offers are segment
// reversal and single-stop relocation, so it is always a permutation of the
// stops it was created with.
type Tour[L Location[L]] struct {
	stops []L
}

// New copies stops into a new Tour.
func New[L Location[L]](stops []L) *Tour[L] {
	return &Tour[L]{stops: slices.Clone(stops)}
}

func (t *Tour[L]) Len() int { return len(t.stops) }

// At returns the stop at position p, taken modulo the tour length.
func (t *Tour[L]) At(p int) L {
	n := len(t.stops)
	return t.stops[((p%n)+n)%n]
}

// Stops returns a copy of the current order.
func (t *Tour[L]) Stops() []L { return slices.Clone(t.stops) }

// Reverse reverses positions [i, j] in place.
func (t *Tour[L]) Reverse(i, j int) {
	t.checkRange("reverse", i, j)
	slices.Reverse(t.stops[i : j+1])
}

// Move removes the stop at from and reinserts it at to. Stops between the two
// positions shift by one slot toward from.
func (t *Tour[L]) Move(from, to int) {
	t.checkIndex("move", from)
	t.checkIndex("move", to)

	l := t.stops[from]
	switch {
	case from < to:
		copy(t.stops[from:to], t.stops[from+1:to+1])
	case from > to:
		copy(t.stops[to+1:from+1], t.stops[to:from])
	}
	t.stops[to] = l
}

// dist is the length of the edge between positions p and q.
func (t *Tour[L]) dist(p, q int) float64 {
	return t.At(p).DistanceTo(t.At(q))
}

func (t *Tour[L]) checkIndex(op string, p int) {
	if p < 0 || p >= len(t.stops) {
		panic(fmt.Sprintf("tour: %s: position %d out of range [0, %d)", op, p, len(t.stops)))
	}
}

func (t *Tour[L]) checkRange(op string, i, j int) {
	t.checkIndex(op, i)
	t.checkIndex(op, j)
	if i > j {
		panic(fmt.Sprintf("tour: %s: inverted range [%d, %d]", op, i, j))
	}
}

// PathLength returns the total cyclic length of t, closing edge included.
// Tours with fewer than two stops have length 0.
func PathLength[L Location[L]](t *Tour[L]) float64 {
	n := t.Len()
	if n < 2 {
		return 0
	}

	var total float64
	for p := 0; p < n; p++ {
		total += t.dist(p, p+1)
	}
	return total
}
