package calibration

import (
	"context"
	"time"

	"github.com/agbru/fibengine/internal/fibonacci"
)

const maxDuration = time.Duration(1<<63 - 1)

// trialRunner times real calculations against candidate thresholds.
// Each trial gets a slice of the overall budget so a pathological
// candidate cannot stall the whole calibration.
type trialRunner struct {
	ctx      context.Context
	perTrial time.Duration
}

func newTrialRunner(ctx context.Context, budget time.Duration) *trialRunner {
	perTrial := budget / 6
	if perTrial < 2*time.Second {
		perTrial = 2 * time.Second
	}
	return &trialRunner{ctx: ctx, perTrial: perTrial}
}

func (r *trialRunner) runTrial(calc fibonacci.Calculator, opts fibonacci.Options) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()

	start := time.Now()
	_, err := calc.Calculate(ctx, nil, 0, fibonacci.CalibrationN, opts)
	return time.Since(start), err
}

// bestParallel probes the quick parallel candidates and returns the
// fastest, or the fallback when every trial failed.
func (r *trialRunner) bestParallel(calc fibonacci.Calculator, fallback int) (threshold int, elapsed time.Duration) {
	best, bestDur := fallback, maxDuration
	for _, cand := range QuickParallelCandidates() {
		dur, err := r.runTrial(calc, fibonacci.Options{ParallelThreshold: cand})
		if err != nil {
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return best, bestDur
}

// bestFFT probes the quick transform candidates with the parallel
// threshold already fixed.
func (r *trialRunner) bestFFT(calc fibonacci.Calculator, parallelThreshold, fallback int) (threshold int, elapsed time.Duration) {
	best, bestDur := fallback, maxDuration
	for _, cand := range QuickFFTCandidates() {
		dur, err := r.runTrial(calc, fibonacci.Options{ParallelThreshold: parallelThreshold, FFTThreshold: cand})
		if err != nil {
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return best, bestDur
}

// bestStrassen probes the quick matrix-product candidates; meaningful
// only with a matrix-based calculator.
func (r *trialRunner) bestStrassen(calc fibonacci.Calculator, parallelThreshold, fallback int) (threshold int, elapsed time.Duration) {
	best, bestDur := fallback, maxDuration
	for _, cand := range QuickStrassenCandidates() {
		dur, err := r.runTrial(calc, fibonacci.Options{ParallelThreshold: parallelThreshold, StrassenThreshold: cand})
		if err != nil {
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return best, bestDur
}
