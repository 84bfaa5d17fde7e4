package fibonacci

import (
	"context"
	"fmt"
	"math/big"

	"github.com/agbru/fibengine/internal/bigfft"
)

// setOrReturn copies result into z when a destination was supplied,
// otherwise hands result through.
func setOrReturn(z, result *big.Int) *big.Int {
	if z != nil {
		z.Set(result)
		return z
	}
	return result
}

// MultiplicationStrategy selects how the doubling loop multiplies. The
// three policies differ only in when they route through the transform
// engine; the loop structure above them is identical.
type MultiplicationStrategy interface {
	// Multiply computes x*y into z (which may be nil or reused) and
	// returns the destination actually used.
	Multiply(z, x, y *big.Int, opts Options) (*big.Int, error)

	// Square computes x² into z. Squaring halves the partial-product
	// work of a general multiply and transforms the operand only once.
	Square(z, x *big.Int, opts Options) (*big.Int, error)

	// Name identifies the strategy in diagnostics.
	Name() string

	// ExecuteStep runs the three products of one doubling step,
	// T3 = FK·T4, T1 = FK1², T2 = FK², letting the strategy share work
	// between them (a single forward transform per operand, for one).
	// Cancellation is honored before any parallel work forks.
	ExecuteStep(ctx context.Context, s *CalculationState, opts Options, inParallel bool) error
}

// smartMultiply picks the multiplication tier from operand sizes:
// transform engine above the FFT threshold, explicit Karatsuba above the
// Karatsuba threshold, math/big below.
func smartMultiply(z, x, y *big.Int, fftThreshold, karatsubaThreshold int) (*big.Int, error) {
	bx, by := x.BitLen(), y.BitLen()
	if fftThreshold > 0 && bx > fftThreshold && by > fftThreshold {
		return bigfft.MulTo(z, x, y)
	}
	if z == nil {
		z = new(big.Int)
	}
	if karatsubaThreshold > 0 && bx > karatsubaThreshold && by > karatsubaThreshold {
		return bigfft.KaratsubaMultiplyTo(z, x, y), nil
	}
	return z.Mul(x, y), nil
}

// smartSquare is smartMultiply's squaring twin.
func smartSquare(z, x *big.Int, fftThreshold, karatsubaThreshold int) (*big.Int, error) {
	bx := x.BitLen()
	if fftThreshold > 0 && bx > fftThreshold {
		return bigfft.SqrTo(z, x)
	}
	if z == nil {
		z = new(big.Int)
	}
	if karatsubaThreshold > 0 && bx > karatsubaThreshold {
		return bigfft.KaratsubaSqrTo(z, x), nil
	}
	return z.Mul(x, x), nil
}

// AdaptiveStrategy dispatches per operand size between direct
// multiplication and the transform engine. This is the default policy.
type AdaptiveStrategy struct{}

func (s *AdaptiveStrategy) Name() string { return "adaptive" }

func (s *AdaptiveStrategy) Multiply(z, x, y *big.Int, opts Options) (*big.Int, error) {
	return smartMultiply(z, x, y, opts.FFTThreshold, opts.KaratsubaThreshold)
}

func (s *AdaptiveStrategy) Square(z, x *big.Int, opts Options) (*big.Int, error) {
	return smartSquare(z, x, opts.FFTThreshold, opts.KaratsubaThreshold)
}

func (s *AdaptiveStrategy) ExecuteStep(ctx context.Context, state *CalculationState, opts Options, inParallel bool) error {
	if opts.FFTThreshold > 0 && state.FK1.BitLen() > opts.FFTThreshold {
		return doublingStepSharedTransform(ctx, state, inParallel)
	}
	return runStepProducts(ctx, s, state, opts, inParallel)
}

// FFTOnlyStrategy always routes through the transform engine, regardless
// of operand size. Useful for benchmarking the transform and for inputs
// large enough that it always wins.
type FFTOnlyStrategy struct{}

func (s *FFTOnlyStrategy) Name() string { return "fft-only" }

func (s *FFTOnlyStrategy) Multiply(z, x, y *big.Int, opts Options) (*big.Int, error) {
	res, err := bigfft.Mul(x, y)
	if err != nil {
		return nil, fmt.Errorf("fft multiply: %w", err)
	}
	return setOrReturn(z, res), nil
}

func (s *FFTOnlyStrategy) Square(z, x *big.Int, opts Options) (*big.Int, error) {
	res, err := bigfft.Sqr(x)
	if err != nil {
		return nil, fmt.Errorf("fft square: %w", err)
	}
	return setOrReturn(z, res), nil
}

func (s *FFTOnlyStrategy) ExecuteStep(ctx context.Context, state *CalculationState, opts Options, inParallel bool) error {
	return doublingStepSharedTransform(ctx, state, inParallel)
}

// KaratsubaStrategy never touches the transform engine. Its main use is
// cross-checking the transform path in tests and benchmarks.
type KaratsubaStrategy struct{}

func (s *KaratsubaStrategy) Name() string { return "direct" }

func (s *KaratsubaStrategy) Multiply(z, x, y *big.Int, opts Options) (*big.Int, error) {
	if z == nil {
		z = new(big.Int)
	}
	return z.Mul(x, y), nil
}

func (s *KaratsubaStrategy) Square(z, x *big.Int, opts Options) (*big.Int, error) {
	if z == nil {
		z = new(big.Int)
	}
	return z.Mul(x, x), nil
}

func (s *KaratsubaStrategy) ExecuteStep(ctx context.Context, state *CalculationState, opts Options, inParallel bool) error {
	return runStepProducts(ctx, s, state, opts, inParallel)
}
