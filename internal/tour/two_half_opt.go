package tour

// TwoHalfOpt drives t to a local optimum under single-stop relocation (Or-opt).
//
// It covers the two moves edge reversal cannot express:
//
//	A-B-C..D-E  ->  A-C..D-B-E   (B moves forward, in front of E)
//	A-B..C-D-E  ->  A-D-B..C-E   (D moves backward, behind A)
//
// Both are checked for every pair (i, j) with j >= i+3, in that order, against
// the current order. Relative order of all other stops is preserved. It is meant
// to run on a tour TwoOpt has already converged.
func TwoHalfOpt[L Location[L]](t *Tour[L], opts Options) Result {
	n := t.Len()
	return search(t, opts, func() int {
		moves := 0
		for i := 0; i < n; i++ {
			for j := i + 3; j < n; j++ {
				if relocate(t, opts, i+1, j-1) {
					moves++
				}
				if relocate(t, opts, j-1, i) {
					moves++
				}
			}
		}
		return moves
	})
}

// relocate moves the stop at from into the edge (gap, gap+1) when that is
// shorter. The three edges priced are distinct as long as from+1 <= gap or
// gap+1 <= from-1.
func relocate[L Location[L]](t *Tour[L], opts Options, from, gap int) bool {
	removed := t.dist(from-1, from) + t.dist(from, from+1) + t.dist(gap, gap+1)
	added := t.dist(from-1, from+1) + t.dist(gap, from) + t.dist(from, gap+1)
	if !opts.improves(added, removed) {
		return false
	}

	if from < gap {
		t.Move(from, gap)
	} else {
		t.Move(from, gap+1)
	}
	return true
}
