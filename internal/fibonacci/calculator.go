// Package fibonacci computes exact Fibonacci numbers for arbitrarily large
// indices. Several independent algorithms (fast doubling, matrix
// exponentiation, transform-only doubling) share one Calculator contract so
// that callers can cross-validate their results. The package layers memory
// pooling, bounded parallelism, adaptive threshold tuning and optional
// modular reduction under that contract.
package fibonacci

import (
	"context"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fibengine/internal/bigfft"
)

// MaxFibUint64 is the largest index whose value fits in a uint64:
// F(93) = 12200160415121876738, while F(94) overflows.
const MaxFibUint64 = 93

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibonacci_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fibonacci_calculation_duration_seconds",
			Help: "The duration of Fibonacci calculations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Calculator is the public compute contract. Implementations are safe for
// concurrent use, honor context cancellation cooperatively, and either
// return a complete verified value or an error, never a partial result.
type Calculator interface {
	// Calculate computes F(n). Progress updates are delivered on
	// progressChan (which may be nil) tagged with calcIndex so that
	// concurrent computations stay distinguishable.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error)

	// Name returns the display name of the algorithm.
	Name() string
}

// coreCalculator is the internal contract of a bare algorithm, free of the
// cross-cutting concerns the decorator adds.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error)
	Name() string
}

// FibCalculator decorates a coreCalculator with the shared outer layer:
// option validation, the native-width fast path, observer snapshotting,
// metrics, tracing and pool pre-warming.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator wraps a core algorithm into the public Calculator
// contract. A nil core is a programming error and panics.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fibonacci: coreCalculator must not be nil")
	}
	return &FibCalculator{core: core}
}

// Name returns the wrapped algorithm's name.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate adapts channel-based progress reporting onto the
// observer-based path.
func (c *FibCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, n, opts)
}

// CalculateWithObservers computes F(n), notifying the subject's observers
// of progress. The observer list is frozen once before the iteration loop
// starts; the hot loop then notifies a private snapshot without further
// synchronization.
func (c *FibCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (result *big.Int, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracer := otel.Tracer("fibonacci")
	ctx, span := tracer.Start(ctx, "Calculate", trace.WithAttributes(
		attribute.String("algorithm", c.core.Name()),
		attribute.Int64("n", int64(n)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algo := c.core.Name()
		calculationsTotal.WithLabelValues(algo, status).Inc()
		calculationDuration.WithLabelValues(algo).Observe(duration)
		log.Debug().
			Str("algo", algo).
			Uint64("n", n).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.Freeze(calcIndex)
	} else {
		reporter = func(float64) {}
	}

	mod := effectiveModulus(opts)

	if n <= MaxFibUint64 {
		reporter(1.0)
		v := fibSmall(n)
		if mod != nil {
			v.Mod(v, mod)
		}
		return v, nil
	}

	configureTransformCache(opts)
	if mod == nil {
		// Modular runs stay O(digits of m); warming for n would
		// overshoot by orders of magnitude.
		bigfft.EnsurePoolsWarmed(n)
	}

	result, err = c.core.CalculateCore(ctx, reporter, n, opts)
	if err == nil && result != nil {
		reporter(1.0)
	}
	return result, err
}

// fibSmall computes F(n) for n <= MaxFibUint64 by native-width iterative
// addition, bypassing big-integer arithmetic entirely.
func fibSmall(n uint64) *big.Int {
	var a, b uint64 = 0, 1
	for i := uint64(0); i < n; i++ {
		a, b = b, a+b
	}
	return new(big.Int).SetUint64(a)
}
