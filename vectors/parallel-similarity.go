package vectors

import (
	"golang.org/x/sync/errgroup"
)

const (
	partDot = iota
	partMagnitudeA
	partMagnitudeB
)

// computeStagger, when set, runs at the start of each sub-computation. Tests
// use it to randomize completion order and prove the join is order-independent.
var computeStagger func(part int)

// ParallelCosineSimilarity computes CosineSimilarity with the dot product and
// the two magnitudes evaluated concurrently. All three sub-computations are
// joined before the combine step, so their completion order never changes the
// result. A dimension mismatch in the dot product fails the whole call.
func ParallelCosineSimilarity(a, b Vector) (float64, error) {
	var (
		dot  float64
		magA float64
		magB float64
	)

	g := errgroup.Group{}
	g.Go(func() error {
		if computeStagger != nil {
			computeStagger(partDot)
		}
		var err error
		dot, err = Dot(a, b)
		return err
	})
	g.Go(func() error {
		if computeStagger != nil {
			computeStagger(partMagnitudeA)
		}
		magA = Magnitude(a)
		return nil
	})
	g.Go(func() error {
		if computeStagger != nil {
			computeStagger(partMagnitudeB)
		}
		magB = Magnitude(b)
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return combineCosine(dot, magA, magB), nil
}
