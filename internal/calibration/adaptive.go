// Package calibration tunes the engine's algorithm-switch thresholds to
// the machine it runs on. It offers three levels of effort: heuristic
// estimates from hardware characteristics, a ~150ms micro-benchmark, and
// a full trial run over candidate thresholds. Results persist as a YAML
// profile so later runs skip the benchmarks.
package calibration

import (
	"runtime"
	"sort"
)

// ParallelCandidates returns the parallel thresholds worth trying on
// this machine. More cores justify probing lower thresholds, where the
// goroutine overhead is amortized over more concurrent work.
func ParallelCandidates() []int {
	numCPU := runtime.NumCPU()

	candidates := []int{0} // sequential baseline
	switch {
	case numCPU == 1:
		return candidates
	case numCPU <= 4:
		return append(candidates, 512, 1024, 2048, 4096)
	case numCPU <= 8:
		return append(candidates, 256, 512, 1024, 2048, 4096, 8192)
	case numCPU <= 16:
		return append(candidates, 256, 512, 1024, 2048, 4096, 8192, 16384)
	default:
		return append(candidates, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768)
	}
}

// QuickParallelCandidates is the reduced set probed during startup
// auto-calibration.
func QuickParallelCandidates() []int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return []int{0}
	case numCPU <= 4:
		return []int{0, 2048, 4096}
	case numCPU <= 8:
		return []int{0, 2048, 4096, 8192}
	default:
		return []int{0, 2048, 4096, 8192, 16384}
	}
}

// FFTCandidates returns the transform thresholds worth trying. The
// crossover against Karatsuba depends on the memory hierarchy more than
// on core count, so the word size picks the range.
func FFTCandidates() []int {
	if wordBits() == 64 {
		return []int{0, 500_000, 750_000, 1_000_000, 1_500_000, 2_000_000}
	}
	return []int{0, 250_000, 500_000, 750_000, 1_000_000}
}

// QuickFFTCandidates is the reduced set for startup auto-calibration.
func QuickFFTCandidates() []int {
	return []int{0, 750_000, 1_000_000, 1_500_000}
}

// StrassenCandidates returns the 2x2 matrix-product thresholds worth
// trying. With enough cores the seven sub-products run concurrently,
// which moves the break-even point down.
func StrassenCandidates() []int {
	if runtime.NumCPU() >= 4 {
		return []int{0, 192, 256, 384, 512, 768, 1024}
	}
	return []int{0, 256, 512, 1024, 2048, 3072}
}

// QuickStrassenCandidates is the reduced set for startup
// auto-calibration.
func QuickStrassenCandidates() []int {
	return []int{192, 256, 384, 512}
}

// EstimateOptimalThresholds returns heuristic thresholds without running
// any benchmark. Used as the fallback when benchmarking is unavailable
// and as the seed the benchmarks refine.
func EstimateOptimalThresholds() (parallel, fft, strassen int) {
	return estimateParallelThreshold(), estimateFFTThreshold(), estimateStrassenThreshold()
}

func estimateParallelThreshold() int {
	switch numCPU := runtime.NumCPU(); {
	case numCPU == 1:
		return 0
	case numCPU <= 2:
		return 8192
	case numCPU <= 4:
		return 4096
	case numCPU <= 8:
		return 2048
	case numCPU <= 16:
		return 1024
	default:
		return 512
	}
}

func estimateFFTThreshold() int {
	if wordBits() == 64 {
		return 500_000
	}
	return 250_000
}

func estimateStrassenThreshold() int {
	if runtime.NumCPU() >= 4 {
		return 256
	}
	return 3072
}

func wordBits() int {
	return 32 << (^uint(0) >> 63)
}

// ClampThresholds forces each threshold into its sane range. Profiles
// written by older versions or other machines can carry values the
// engine would misbehave on.
func ClampThresholds(parallel, fft, strassen int) (int, int, int) {
	return clamp(parallel, 0, 65_536), clamp(fft, 0, 10_000_000), clamp(strassen, 0, 10_000)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CandidateSet groups the candidate lists for one calibration pass.
type CandidateSet struct {
	Parallel []int
	FFT      []int
	Strassen []int
}

// FullCandidateSet returns the candidates for an exhaustive calibration.
func FullCandidateSet() CandidateSet {
	return CandidateSet{
		Parallel: ParallelCandidates(),
		FFT:      FFTCandidates(),
		Strassen: StrassenCandidates(),
	}
}

// QuickCandidateSet returns the candidates for startup auto-calibration.
func QuickCandidateSet() CandidateSet {
	return CandidateSet{
		Parallel: QuickParallelCandidates(),
		FFT:      QuickFFTCandidates(),
		Strassen: QuickStrassenCandidates(),
	}
}

// Sort orders every candidate list ascending.
func (c *CandidateSet) Sort() {
	sort.Ints(c.Parallel)
	sort.Ints(c.FFT)
	sort.Ints(c.Strassen)
}
