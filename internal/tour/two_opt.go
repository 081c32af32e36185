package tour

// TwoOpt drives t to a local optimum under edge reversal.
//
// For every pair of edges (i, i+1) and (j-1, j) with j >= i+3 it checks whether
// reconnecting them as (i, j-1) and (i+1, j) is shorter and, if so, reverses
// the segment [i+1, j-1]. Improving pairs are applied as soon as they are found,
// so later pairs in the same pass see the updated order. Passes repeat until one
// makes no change. Tours with fewer than four stops are left untouched.
func TwoOpt[L Location[L]](t *Tour[L], opts Options) Result {
	n := t.Len()
	return search(t, opts, func() int {
		moves := 0
		for i := 0; i < n; i++ {
			for j := i + 3; j < n; j++ {
				current := t.dist(i, i+1) + t.dist(j-1, j)
				candidate := t.dist(i, j-1) + t.dist(i+1, j)
				if opts.improves(candidate, current) {
					t.Reverse(i+1, j-1)
					moves++
				}
			}
		}
		return moves
	})
}
