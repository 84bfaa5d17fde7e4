package fibonacci

import (
	"context"
	"math/big"
)

// FFTDoubling is the fast-doubling loop pinned to the transform engine
// for every product, regardless of operand size. It exists to benchmark
// the transform path and to cross-validate the adaptive strategy; for
// very large indices it is also simply the fastest choice.
type FFTDoubling struct{}

// Name identifies the algorithm in the registry and UI.
func (c *FFTDoubling) Name() string {
	return "FFT-Based Doubling"
}

// CalculateCore runs the doubling loop with the transform-only strategy.
// Doubling-level parallelism stays off: the transform recursion already
// forks internally and stacking both levels oversubscribes the pool.
func (c *FFTDoubling) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error) {
	s := AcquireState()
	defer ReleaseState(s)

	loop := newDoublingLoop(&FFTOnlyStrategy{}, nil)
	return loop.Run(ctx, reporter, n, normalizeOptions(opts), s, false)
}
