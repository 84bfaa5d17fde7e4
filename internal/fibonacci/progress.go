package fibonacci

// ProgressUpdate carries one progress sample to a consumer, tagged with
// the calculator index so concurrent computations stay separable.
type ProgressUpdate struct {
	CalculatorIndex int
	Value           float64
}

// ProgressReporter is the callback the core loops use to report progress.
// Values are in [0, 1] and monotonically non-decreasing per computation.
type ProgressReporter func(progress float64)

// powersOf4 holds 4^0..4^63, enough for any uint64 index.
var powersOf4 [64]float64

func init() {
	powersOf4[0] = 1
	for i := 1; i < len(powersOf4); i++ {
		powersOf4[i] = powersOf4[i-1] * 4
	}
}

// progressTracker models the work of a doubling computation as a
// geometric series: the operands double each iteration, so a step's cost
// grows like 4^i (quadratic multiply on twice-as-long inputs). Progress
// is the prefix sum over that series, which by construction never
// exceeds 1 and never decreases.
type progressTracker struct {
	report ProgressReporter
	powers []float64
	total  float64
	done   float64
	last   float64
	steps  int
}

func newProgressTracker(report ProgressReporter, numBits int) *progressTracker {
	t := &progressTracker{report: report, steps: numBits, last: -1}
	if numBits <= 0 {
		return t
	}
	if numBits <= len(powersOf4) {
		t.powers = powersOf4[:numBits]
	} else {
		t.powers = make([]float64, numBits)
		copy(t.powers, powersOf4[:])
		for i := len(powersOf4); i < numBits; i++ {
			t.powers[i] = t.powers[i-1] * 4
		}
	}
	// Geometric sum 4^0 + ... + 4^(numBits-1).
	t.total = (t.powers[numBits-1]*4 - 1) / 3
	return t
}

// step records completion of the step with ascending index i (0 is the
// cheapest first step, steps-1 the final one). Reports are throttled to
// ProgressReportThreshold, except for the first and last step.
func (t *progressTracker) step(i int) {
	if t.total <= 0 {
		return
	}
	t.done += t.powers[i]
	progress := t.done / t.total
	if progress-t.last >= ProgressReportThreshold || i == 0 || i == t.steps-1 {
		t.report(progress)
		t.last = progress
	}
}
