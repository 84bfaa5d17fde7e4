package fibonacci

// Tuning defaults. All three size thresholds are expressed in bits of the
// larger operand and were fixed by benchmarking; the dynamic threshold
// manager may move the FFT and parallel values at runtime.
const (
	// DefaultParallelThreshold is the operand size above which the three
	// products of a doubling step run on separate goroutines.
	DefaultParallelThreshold = 4096

	// DefaultFFTThreshold is the operand size above which multiplication
	// routes through the Fermat-number transform instead of Karatsuba.
	DefaultFFTThreshold = 500_000

	// DefaultStrassenThreshold is the matrix-entry size above which the
	// 2x2 product switches from 8 multiplications to the 7-multiplication
	// Winograd decomposition.
	DefaultStrassenThreshold = 3072

	// DefaultKaratsubaThreshold is the operand size above which the
	// explicit Karatsuba in internal/bigfft beats math/big's multiply.
	DefaultKaratsubaThreshold = 2048

	// ParallelFFTThreshold suppresses doubling-level parallelism while
	// the transform engine is saturating cores itself. Only far above
	// the FFT crossover does stacking both levels pay again.
	ParallelFFTThreshold = 10_000_000

	// CalibrationN is the index used by calibration runs: large enough
	// to exercise the transform engine, small enough to finish quickly.
	CalibrationN = 10_000_000
)

// ProgressReportThreshold is the minimum progress delta emitted to
// observers. First and last steps always report, so call volume is
// bounded at roughly a hundred notifications per computation.
const ProgressReportThreshold = 0.01
