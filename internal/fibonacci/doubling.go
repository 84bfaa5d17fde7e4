package fibonacci

import (
	"context"
	"fmt"
	"math/big"
	"math/bits"
	"time"
)

// runStepProducts executes the three products of a doubling step with the
// given strategy: the cross product T3 = FK·T4 and the squares T1 = FK1²,
// T2 = FK². Destinations are disjoint and sources are read-only, so the
// parallel path needs no locking.
func runStepProducts(ctx context.Context, strategy MultiplicationStrategy, s *CalculationState, opts Options, inParallel bool) error {
	if !inParallel {
		var err error
		if s.T3, err = strategy.Multiply(s.T3, s.FK, s.T4, opts); err != nil {
			return fmt.Errorf("multiply FK*T4: %w", err)
		}
		if s.T1, err = strategy.Square(s.T1, s.FK1, opts); err != nil {
			return fmt.Errorf("square FK1: %w", err)
		}
		if s.T2, err = strategy.Square(s.T2, s.FK, opts); err != nil {
			return fmt.Errorf("square FK: %w", err)
		}
		return nil
	}

	sqrs := []sqrTask{
		{dest: &s.T1, x: s.FK1, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &s.T2, x: s.FK, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
	}
	muls := []mulTask{
		{dest: &s.T3, x: s.FK, y: s.T4, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
	}
	return runTasks(ctx, sqrs, muls, true)
}

// doublingLoop drives the bit-at-a-time fast-doubling iteration for a
// pluggable multiplication strategy, with optional runtime threshold
// retuning.
type doublingLoop struct {
	strategy MultiplicationStrategy
	manager  *ThresholdManager
}

func newDoublingLoop(strategy MultiplicationStrategy, manager *ThresholdManager) *doublingLoop {
	return &doublingLoop{strategy: strategy, manager: manager}
}

// Run iterates the bits of n from most significant to least. Each
// iteration applies the doubling identities
//
//	F(2k)   = F(k)·(2·F(k+1) − F(k))
//	F(2k+1) = F(k+1)² + F(k)²
//
// then rotates buffer roles so the new pair becomes current without
// copying, and performs an extra addition rotation when the bit is set.
// Under a modulus the working pair is reduced once per iteration, keeping
// operands bounded by the modulus size.
func (l *doublingLoop) Run(ctx context.Context, reporter ProgressReporter, n uint64, opts Options, s *CalculationState, useParallel bool) (*big.Int, error) {
	numBits := bits.Len64(n)
	tracker := newProgressTracker(reporter, numBits)
	current := normalizeOptions(opts)
	mod := effectiveModulus(opts)

	for i := numBits - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fast doubling canceled at bit %d/%d: %w", i, numBits-1, err)
		}

		var iterStart time.Time
		if l.manager != nil {
			iterStart = time.Now()
		}

		// T4 takes the doubled-term operand 2·FK1 − FK. Steal the
		// larger backing buffer between T1 and T4 first: T4's next
		// content is a full-size operand while T1's is dead.
		if cap(s.T1.Bits()) > cap(s.T4.Bits()) {
			s.T1, s.T4 = s.T4, s.T1
		}
		s.T4.Lsh(s.FK1, 1).Sub(s.T4, s.FK)

		fkBits := s.FK.BitLen()
		fk1Bits := s.FK1.BitLen()
		usedFFT := fkBits > current.FFTThreshold
		inParallel := useParallel && shouldParallelize(current, fkBits, fk1Bits)

		if err := l.strategy.ExecuteStep(ctx, s, current, inParallel); err != nil {
			return nil, fmt.Errorf("doubling step at bit %d/%d: %w", i, numBits-1, err)
		}

		// T1 = FK1² + FK² = F(2k+1); T3 already holds F(2k).
		s.T1.Add(s.T1, s.T2)
		s.rotateDoubled()

		if (n>>uint(i))&1 == 1 {
			s.T4.Add(s.FK, s.FK1)
			s.rotateAdvanced()
		}

		if mod != nil {
			s.FK.Mod(s.FK, mod)
			s.FK1.Mod(s.FK1, mod)
		}

		if l.manager != nil {
			l.manager.RecordIteration(fkBits, time.Since(iterStart), usedFFT, inParallel)
			if fft, par, adjusted := l.manager.ShouldAdjust(); adjusted {
				current.FFTThreshold = fft
				current.ParallelThreshold = par
			}
		}

		tracker.step(numBits - 1 - i)
	}
	return s.takeResult(), nil
}
