package fibonacci

import (
	"sync"
	"time"
)

// Dynamic threshold tuning. The manager watches per-iteration timings,
// partitions them by the path taken, and nudges the FFT and parallel
// thresholds when one path is measurably faster per bit. A hysteresis
// margin keeps nearly-equal policies from oscillating.
const (
	// DynamicAdjustmentInterval is the number of iterations between
	// threshold analyses.
	DynamicAdjustmentInterval = 5

	// MinMetricsForAdjustment gates analysis until the ring holds
	// enough samples to partition meaningfully.
	MinMetricsForAdjustment = 3

	// MaxMetricsHistory fixes the ring buffer capacity.
	MaxMetricsHistory = 20

	// FFTSpeedupThreshold is the per-bit speedup the transform path
	// must show before the FFT threshold is lowered toward it.
	FFTSpeedupThreshold = 1.2

	// ParallelSpeedupThreshold is the analogous gate for the parallel
	// threshold.
	ParallelSpeedupThreshold = 1.1

	// HysteresisMargin is the minimum relative change applied to a
	// threshold; smaller proposals are discarded.
	HysteresisMargin = 0.15

	// minFFTThresholdBits and minParallelThresholdBits floor the tuned
	// values; the ceiling is a fixed multiple of the original.
	minFFTThresholdBits      = 100_000
	minParallelThresholdBits = 1024
)

// IterationMetric is one sample of the iteration telemetry ring.
type IterationMetric struct {
	BitLen       int
	Duration     time.Duration
	UsedFFT      bool
	UsedParallel bool
}

// ThresholdStats is a diagnostic snapshot of the manager.
type ThresholdStats struct {
	CurrentFFT          int
	CurrentParallel     int
	OriginalFFT         int
	OriginalParallel    int
	MetricsCollected    int
	IterationsProcessed int
}

// ThresholdConfig configures a ThresholdManager.
type ThresholdConfig struct {
	InitialFFTThreshold      int
	InitialParallelThreshold int
	AdjustmentInterval       int
	Enabled                  bool
}

// ThresholdManager owns the telemetry ring and the tuned thresholds. It
// is mutated only by the iteration loop that owns it; diagnostic readers
// go through the lock.
type ThresholdManager struct {
	mu sync.RWMutex

	currentFFT       int
	currentParallel  int
	originalFFT      int
	originalParallel int

	// pending thresholds accumulate analysis steps between applications.
	// A single 10% step never clears the 15% hysteresis margin; letting
	// steps compound is what makes consistent evidence eventually win.
	pendingFFT      int
	pendingParallel int

	metrics     [MaxMetricsHistory]IterationMetric
	metricCount int // total ever recorded
	head        int // next ring slot

	iterations int
	interval   int
}

// NewThresholdManager starts a manager at the given thresholds.
func NewThresholdManager(fftThreshold, parallelThreshold int) *ThresholdManager {
	return &ThresholdManager{
		currentFFT:       fftThreshold,
		currentParallel:  parallelThreshold,
		originalFFT:      fftThreshold,
		originalParallel: parallelThreshold,
		pendingFFT:       fftThreshold,
		pendingParallel:  parallelThreshold,
		interval:         DynamicAdjustmentInterval,
	}
}

// NewThresholdManagerFromConfig returns nil when tuning is disabled, so
// callers can pass the result straight into the loop.
func NewThresholdManagerFromConfig(cfg ThresholdConfig) *ThresholdManager {
	if !cfg.Enabled {
		return nil
	}
	m := NewThresholdManager(cfg.InitialFFTThreshold, cfg.InitialParallelThreshold)
	if cfg.AdjustmentInterval > 0 {
		m.interval = cfg.AdjustmentInterval
	}
	return m
}

// RecordIteration appends one timing sample to the ring.
func (m *ThresholdManager) RecordIteration(bitLen int, d time.Duration, usedFFT, usedParallel bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics[m.head] = IterationMetric{
		BitLen:       bitLen,
		Duration:     d,
		UsedFFT:      usedFFT,
		UsedParallel: usedParallel,
	}
	m.head = (m.head + 1) % MaxMetricsHistory
	m.metricCount++
	m.iterations++
}

// Thresholds returns the current pair.
func (m *ThresholdManager) Thresholds() (fft, parallel int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentFFT, m.currentParallel
}

// ShouldAdjust re-analyzes the ring every interval iterations and applies
// any proposal that clears the hysteresis margin. It reports the current
// thresholds and whether they changed.
func (m *ThresholdManager) ShouldAdjust() (newFFT, newParallel int, adjusted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.iterations%m.interval != 0 || m.metricCount < MinMetricsForAdjustment {
		return m.currentFFT, m.currentParallel, false
	}

	active := m.activeMetrics()
	m.pendingFFT = m.analyzeFFT(active)
	m.pendingParallel = m.analyzeParallel(active)

	fftChanged := significantChange(m.currentFFT, m.pendingFFT)
	parallelChanged := significantChange(m.currentParallel, m.pendingParallel)
	if fftChanged {
		m.currentFFT = m.pendingFFT
	}
	if parallelChanged {
		m.currentParallel = m.pendingParallel
	}
	return m.currentFFT, m.currentParallel, fftChanged || parallelChanged
}

// activeMetrics copies the valid ring entries; order is irrelevant for
// averaging and the ring is small.
func (m *ThresholdManager) activeMetrics() []IterationMetric {
	count := m.metricCount
	if count > MaxMetricsHistory {
		count = MaxMetricsHistory
	}
	out := make([]IterationMetric, count)
	copy(out, m.metrics[:count])
	return out
}

// splitAvgTimePerBit partitions metrics by pred and returns the average
// nanoseconds-per-bit of each side (0 when a side is empty).
func splitAvgTimePerBit(metrics []IterationMetric, pred func(IterationMetric) bool) (in, out float64) {
	var inTime, outTime time.Duration
	var inBits, outBits int64
	for _, s := range metrics {
		if pred(s) {
			inTime += s.Duration
			inBits += int64(s.BitLen)
		} else {
			outTime += s.Duration
			outBits += int64(s.BitLen)
		}
	}
	if inBits > 0 {
		in = float64(inTime.Nanoseconds()) / float64(inBits)
	}
	if outBits > 0 {
		out = float64(outTime.Nanoseconds()) / float64(outBits)
	}
	return in, out
}

func (m *ThresholdManager) analyzeFFT(metrics []IterationMetric) int {
	fft, direct := splitAvgTimePerBit(metrics, func(s IterationMetric) bool { return s.UsedFFT })
	if fft == 0 || direct == 0 {
		return m.pendingFFT
	}
	ratio := direct / fft
	switch {
	case ratio > FFTSpeedupThreshold:
		// The transform path is winning; admit smaller operands.
		return clampThreshold(m.pendingFFT*9/10, minFFTThresholdBits, m.originalFFT*2)
	case ratio < 1/FFTSpeedupThreshold:
		return clampThreshold(m.pendingFFT*11/10, minFFTThresholdBits, m.originalFFT*2)
	default:
		return m.pendingFFT
	}
}

func (m *ThresholdManager) analyzeParallel(metrics []IterationMetric) int {
	par, seq := splitAvgTimePerBit(metrics, func(s IterationMetric) bool { return s.UsedParallel })
	if par == 0 || seq == 0 {
		return m.pendingParallel
	}
	ratio := seq / par
	switch {
	case ratio > ParallelSpeedupThreshold:
		return clampThreshold(m.pendingParallel*8/10, minParallelThresholdBits, m.originalParallel*4)
	case ratio < 1/ParallelSpeedupThreshold:
		return clampThreshold(m.pendingParallel*12/10, minParallelThresholdBits, m.originalParallel*4)
	default:
		return m.pendingParallel
	}
}

func clampThreshold(v, floor, ceil int) int {
	if v < floor {
		return floor
	}
	if v > ceil {
		return ceil
	}
	return v
}

// significantChange applies the hysteresis margin.
func significantChange(oldVal, newVal int) bool {
	if oldVal == 0 {
		return newVal != 0
	}
	change := float64(newVal-oldVal) / float64(oldVal)
	if change < 0 {
		change = -change
	}
	return change > HysteresisMargin
}

// GetStats snapshots the manager for diagnostic consumers.
func (m *ThresholdManager) GetStats() ThresholdStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := m.metricCount
	if count > MaxMetricsHistory {
		count = MaxMetricsHistory
	}
	return ThresholdStats{
		CurrentFFT:          m.currentFFT,
		CurrentParallel:     m.currentParallel,
		OriginalFFT:         m.originalFFT,
		OriginalParallel:    m.originalParallel,
		MetricsCollected:    count,
		IterationsProcessed: m.iterations,
	}
}

// Reset drops all telemetry and restores the original thresholds.
func (m *ThresholdManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentFFT = m.originalFFT
	m.currentParallel = m.originalParallel
	m.pendingFFT = m.originalFFT
	m.pendingParallel = m.originalParallel
	m.metricCount = 0
	m.head = 0
	m.iterations = 0
}
