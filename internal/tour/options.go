package tour

// Options controls the acceptance rule and the pass budget shared by the
// local-search optimizers.
type Options struct {
	// Epsilon is the minimum gain for a move to be accepted. A move is applied
	// only when candidate < current - Epsilon.
	Epsilon float64
	// MaxPasses caps the number of full neighborhood passes. Zero runs until a
	// pass makes no change.
	MaxPasses int
}

// DefaultOptions accepts any improvement larger than float rounding noise.
// Integer-valued distances improve by at least 1, so they are never rejected.
func DefaultOptions() Options {
	return Options{Epsilon: 1e-9}
}

// Result summarises one optimizer call.
type Result struct {
	// Length is the total cyclic length of the tour after the call.
	Length float64
	// Moves counts accepted moves.
	Moves int
	// Passes counts full passes, including the final pass that found nothing.
	Passes int
	// Converged reports whether the last pass made no change.
	Converged bool
}

func (o Options) improves(candidate, current float64) bool {
	return candidate < current-o.Epsilon
}

func (o Options) passAllowed(done int) bool {
	return o.MaxPasses <= 0 || done < o.MaxPasses
}

// search drives pass until it reports no change or the pass budget runs out.
func search[L Location[L]](t *Tour[L], opts Options, pass func() int) Result {
	var res Result
	if t.Len() < 4 {
		res.Converged = true
		res.Length = PathLength(t)
		return res
	}

	for opts.passAllowed(res.Passes) {
		res.Passes++
		moves := pass()
		res.Moves += moves
		if moves == 0 {
			res.Converged = true
			break
		}
	}

	res.Length = PathLength(t)
	return res
}
