package calibration

import (
	"context"
	"math/big"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/fibengine/internal/bigfft"
)

const (
	microBenchIterations = 3
	microBenchTimeout    = 150 * time.Millisecond
)

// microBenchSizes are operand sizes in words, spanning the ranges where
// the engine switches algorithms: well below the parallel threshold,
// around it, around the transform threshold, and well above.
var microBenchSizes = []int{500, 2000, 8000, 16000}

// MicroBenchmark times raw multiplications at a few operand sizes to
// locate the crossover points without running a full computation.
type MicroBenchmark struct {
	Sizes      []int
	Iterations int
	Timeout    time.Duration
}

// Estimate is the outcome of a micro-benchmark pass. Confidence below
// 0.5 means the probes were inconclusive and the caller should fall
// back to a full calibration or the heuristic defaults.
type Estimate struct {
	ParallelThreshold int
	FFTThreshold      int
	Confidence        float64
	Elapsed           time.Duration
}

type probeResult struct {
	words        int
	viaTransform bool
	parallel     bool
	elapsed      time.Duration
	err          error
}

// NewMicroBenchmark returns a benchmark with the default probe plan.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		Sizes:      microBenchSizes,
		Iterations: microBenchIterations,
		Timeout:    microBenchTimeout,
	}
}

// Run executes the probe plan and derives threshold estimates from the
// timings. It respects ctx and its own Timeout; an exhausted budget
// yields a zero-confidence estimate rather than an error.
func (mb *MicroBenchmark) Run(ctx context.Context) (Estimate, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	results := mb.probeAll(ctx)

	est := mb.analyze(results)
	est.Elapsed = time.Since(start)
	return est, nil
}

func (mb *MicroBenchmark) probeAll(ctx context.Context) []probeResult {
	type plan struct {
		words        int
		viaTransform bool
		parallel     bool
	}

	plans := make([]plan, 0, len(mb.Sizes)*4)
	for _, words := range mb.Sizes {
		plans = append(plans,
			plan{words, false, false},
			plan{words, false, true},
			plan{words, true, false},
			plan{words, true, true},
		)
	}

	var (
		mu      sync.Mutex
		results []probeResult
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, runtime.NumCPU())

	for _, p := range plans {
		wg.Add(1)
		go func(p plan) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
			}

			elapsed, err := mb.probe(ctx, p.words, p.viaTransform)

			mu.Lock()
			results = append(results, probeResult{
				words:        p.words,
				viaTransform: p.viaTransform,
				parallel:     p.parallel,
				elapsed:      elapsed,
				err:          err,
			})
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return results
}

func (mb *MicroBenchmark) probe(ctx context.Context, words int, viaTransform bool) (time.Duration, error) {
	x := syntheticOperand(words)
	y := syntheticOperand(words)

	// Warm-up pass so allocation noise stays out of the timings.
	_ = timedMul(x, y, viaTransform)

	var total time.Duration
	for i := 0; i < mb.Iterations; i++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		start := time.Now()
		_ = timedMul(x, y, viaTransform)
		total += time.Since(start)
	}
	return total / time.Duration(mb.Iterations), nil
}

// syntheticOperand builds a deterministic operand of the given word
// count with a non-uniform bit pattern. The pattern is masked to the
// platform word size before the big.Word conversion.
func syntheticOperand(words int) *big.Int {
	limbs := make([]big.Word, words)
	for i := range limbs {
		pattern := 0xAAAAAAAAAAAAAAAA ^ uint64(i*0x1234567)
		limbs[i] = big.Word(pattern & uint64(^big.Word(0)))
	}
	return new(big.Int).SetBits(limbs)
}

func timedMul(x, y *big.Int, viaTransform bool) *big.Int {
	if viaTransform {
		res, _ := bigfft.Mul(x, y)
		return res
	}
	return new(big.Int).Mul(x, y)
}

func (mb *MicroBenchmark) analyze(results []probeResult) Estimate {
	est := Estimate{
		FFTThreshold:      500_000,
		ParallelThreshold: 4096,
		Confidence:        0.5,
	}

	if len(results) == 0 {
		est.Confidence = 0
		return est
	}

	bySize := make(map[int][]probeResult)
	for _, r := range results {
		if r.err == nil {
			bySize[r.words] = append(bySize[r.words], r)
		}
	}

	if crossover := transformCrossover(bySize); crossover > 0 {
		est.FFTThreshold = crossover
		est.Confidence += 0.2
	}
	if crossover := parallelCrossover(bySize); crossover > 0 {
		est.ParallelThreshold = crossover
		est.Confidence += 0.2
	}
	if est.Confidence > 1 {
		est.Confidence = 1
	}
	return est
}

// transformCrossover finds the smallest bit size at which the transform
// path beat plain multiplication.
func transformCrossover(bySize map[int][]probeResult) int {
	var crossover int

	for words, results := range bySize {
		var plainTotal, fftTotal time.Duration
		var plainCount, fftCount int

		for _, r := range results {
			if r.viaTransform {
				fftTotal += r.elapsed
				fftCount++
			} else {
				plainTotal += r.elapsed
				plainCount++
			}
		}

		if plainCount == 0 || fftCount == 0 {
			continue
		}
		if fftTotal/time.Duration(fftCount) < plainTotal/time.Duration(plainCount) {
			bits := words * wordBits()
			if crossover == 0 || bits < crossover {
				crossover = bits
			}
		}
	}

	if crossover == 0 {
		return 1_000_000
	}
	// Require a clear win before the crossover itself.
	return crossover * 9 / 10
}

// parallelCrossover finds the smallest bit size at which the parallel
// probes showed at least a 10% improvement.
func parallelCrossover(bySize map[int][]probeResult) int {
	if runtime.NumCPU() <= 1 {
		return 0
	}

	var crossover int

	for words, results := range bySize {
		var seqTotal, parTotal time.Duration
		var seqCount, parCount int

		for _, r := range results {
			if r.viaTransform {
				continue
			}
			if r.parallel {
				parTotal += r.elapsed
				parCount++
			} else {
				seqTotal += r.elapsed
				seqCount++
			}
		}

		if seqCount == 0 || parCount == 0 {
			continue
		}
		avgSeq := seqTotal / time.Duration(seqCount)
		avgPar := parTotal / time.Duration(parCount)
		if avgPar < avgSeq*9/10 {
			bits := words * wordBits()
			if crossover == 0 || bits < crossover {
				crossover = bits
			}
		}
	}

	if crossover == 0 {
		return 4096
	}
	return crossover
}

// QuickEstimate runs the default micro-benchmark. Designed to finish in
// roughly 150ms at startup.
func QuickEstimate(ctx context.Context) (Estimate, error) {
	return NewMicroBenchmark().Run(ctx)
}

// QuickEstimateWithDefaults runs the micro-benchmark and falls back to
// the supplied defaults when the result is inconclusive.
func QuickEstimateWithDefaults(ctx context.Context, defaultFFT, defaultParallel int) (fft, parallel int) {
	est, err := QuickEstimate(ctx)
	if err != nil || est.Confidence < 0.3 {
		return defaultFFT, defaultParallel
	}
	return est.FFTThreshold, est.ParallelThreshold
}
