package fibonacci

import (
	"context"
	"math/big"
	"runtime"
)

// FastDoubling computes F(n) by the doubling identities
//
//	F(2k)   = F(k)·(2·F(k+1) − F(k))
//	F(2k+1) = F(k+1)² + F(k)²
//
// derived from squaring the Q-matrix power form. Multiplication cost
// dominates, so the loop delegates every product to the adaptive
// strategy, parallelizes the three products of a step above the parallel
// threshold, and reuses a pooled CalculationState across computations.
type FastDoubling struct{}

// Name identifies the algorithm in the registry and UI.
func (fd *FastDoubling) Name() string {
	return "Fast Doubling (adaptive, parallel)"
}

// CalculateCore runs the doubling loop with the adaptive multiplication
// strategy, wiring in a threshold manager when dynamic tuning is on.
func (fd *FastDoubling) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error) {
	s := AcquireState()
	defer ReleaseState(s)

	normalized := normalizeOptions(opts)
	useParallel := runtime.GOMAXPROCS(0) > 1 && normalized.ParallelThreshold > 0

	var manager *ThresholdManager
	if normalized.EnableDynamicThresholds {
		interval := normalized.DynamicAdjustmentInterval
		if interval <= 0 {
			interval = DynamicAdjustmentInterval
		}
		manager = NewThresholdManagerFromConfig(ThresholdConfig{
			InitialFFTThreshold:      normalized.FFTThreshold,
			InitialParallelThreshold: normalized.ParallelThreshold,
			AdjustmentInterval:       interval,
			Enabled:                  true,
		})
	}

	loop := newDoublingLoop(&AdaptiveStrategy{}, manager)
	return loop.Run(ctx, reporter, n, normalized, s, useParallel)
}

// shouldParallelize decides whether a doubling step's products go to
// separate goroutines. While operands sit in FFT territory the transform
// engine is already saturating cores, so doubling-level parallelism is
// suppressed until far past the crossover; below it, the plain parallel
// threshold applies.
func shouldParallelize(opts Options, fkBits, fk1Bits int) bool {
	maxBits := fk1Bits
	if fkBits > maxBits {
		maxBits = fkBits
	}
	if opts.FFTThreshold > 0 && maxBits > opts.FFTThreshold {
		return maxBits > ParallelFFTThreshold
	}
	threshold := opts.ParallelThreshold
	if threshold == 0 {
		threshold = DefaultParallelThreshold
	}
	return maxBits > threshold
}
