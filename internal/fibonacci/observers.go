package fibonacci

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ChannelObserver forwards updates to a channel, for consumers that pull
// progress from a select loop. Sends are non-blocking: when the channel
// is full the sample is dropped and the consumer catches up on the next
// one. Values above 1.0 are clamped at this boundary.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

// NewChannelObserver wraps ch; a nil channel yields a no-op observer.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(calcIndex int, progress float64) {
	if o.ch == nil {
		return
	}
	if progress > 1.0 {
		progress = 1.0
	}
	select {
	case o.ch <- ProgressUpdate{CalculatorIndex: calcIndex, Value: progress}:
	default:
	}
}

// LoggingObserver logs progress through zerolog, throttled to a minimum
// delta per calculator so the log stays readable.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	mu        sync.Mutex
	lastLog   map[int]float64
}

// NewLoggingObserver logs whenever progress advances by at least
// threshold (default 10%) or completes.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[int]float64),
	}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(calcIndex int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last := o.lastLog[calcIndex]
	if progress < 1.0 && progress-last < o.threshold && !(last == 0 && progress > 0) {
		return
	}
	o.logger.Debug().
		Int("calculator", calcIndex).
		Float64("progress", progress).
		Msg("calculation progress")
	o.lastLog[calcIndex] = progress
}

var progressGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "fibonacci_calculation_progress",
		Help: "Current progress of Fibonacci calculations (0.0 to 1.0)",
	},
	[]string{"calculator_index"},
)

// MetricsObserver exports progress as a Prometheus gauge.
type MetricsObserver struct {
	gauge *prometheus.GaugeVec
}

// NewMetricsObserver returns an observer bound to the shared gauge.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{gauge: progressGauge}
}

// Update implements ProgressObserver.
func (o *MetricsObserver) Update(calcIndex int, progress float64) {
	o.gauge.WithLabelValues(strconv.Itoa(calcIndex)).Set(progress)
}

// ResetMetrics clears the gauge before a new batch of computations.
func (o *MetricsObserver) ResetMetrics() {
	o.gauge.Reset()
}

var (
	_ ProgressObserver = (*ChannelObserver)(nil)
	_ ProgressObserver = (*LoggingObserver)(nil)
	_ ProgressObserver = (*MetricsObserver)(nil)
)
