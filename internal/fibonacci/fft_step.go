package fibonacci

import (
	"context"
	"math/big"
	"sync"

	"github.com/agbru/fibengine/internal/bigfft"
	"github.com/agbru/fibengine/internal/parallel"
)

// doublingStepSharedTransform computes the three products of a doubling
// step through the transform engine while transforming each operand
// exactly once: FK, FK1 and T4 go forward once, the transform-domain
// values are reused for the point-wise multiply and the two squares, and
// only the three inverse transforms remain per-product. This halves
// transform cost versus three end-to-end multiplications.
//
// Destinations: T3 = FK·T4, T1 = FK1², T2 = FK².
func doublingStepSharedTransform(ctx context.Context, s *CalculationState, inParallel bool) error {
	// T4 = 2·FK1 − FK may be negative under modular reduction; the
	// polynomial slicing works on magnitudes, so the sign is restored
	// on T3 afterwards.
	negT4 := s.T4.Sign() < 0

	// One parameter set sized for the largest product keeps the three
	// transform-domain values compatible for point-wise operations. The
	// size must cover every operand: modular reduction can leave FK
	// longer than FK1, so FK1 alone is not a bound.
	words := len(s.FK1.Bits())
	if w := len(s.FK.Bits()); w > words {
		words = w
	}
	if w := len(s.T4.Bits()); w > words {
		words = w
	}
	targetWords := 2*words + 2
	k, m := bigfft.GetFFTParams(targetWords)
	n := bigfft.ValueSize(k, m, 2)

	pFK := bigfft.PolyFromInt(s.FK, k, m)
	vFK, err := pFK.Transform(n)
	if err != nil {
		return err
	}
	pFK1 := bigfft.PolyFromInt(s.FK1, k, m)
	vFK1, err := pFK1.Transform(n)
	if err != nil {
		return err
	}
	pT4 := bigfft.PolyFromInt(s.T4, k, m)
	vT4, err := pT4.Transform(n)
	if err != nil {
		return err
	}

	restoreSign := func() {
		if negT4 {
			s.T3.Neg(s.T3)
		}
	}

	if !inParallel {
		if err := invProduct(&vFK, &vT4, m, s.T3, false); err != nil {
			return err
		}
		if err := invProduct(&vFK1, nil, m, s.T1, true); err != nil {
			return err
		}
		if err := invProduct(&vFK, nil, m, s.T2, true); err != nil {
			return err
		}
		restoreSign()
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// The FK transform feeds both the cross product and its own square;
	// point-wise operations scratch their receiver, so each goroutine
	// gets a private clone.
	vFKMul := vFK.Clone()
	vFKSqr := vFK.Clone()

	var wg sync.WaitGroup
	var ec parallel.ErrorCollector
	wg.Add(3)
	go func() {
		defer wg.Done()
		ec.SetError(invProduct(&vFKMul, &vT4, m, s.T3, false))
	}()
	go func() {
		defer wg.Done()
		ec.SetError(invProduct(&vFK1, nil, m, s.T1, true))
	}()
	go func() {
		defer wg.Done()
		ec.SetError(invProduct(&vFKSqr, nil, m, s.T2, true))
	}()
	wg.Wait()
	if err := ec.Err(); err != nil {
		return err
	}
	restoreSign()
	return nil
}

// invProduct performs one point-wise product (or square when square is
// true) on transform-domain values and inverse-transforms the result
// into dst.
func invProduct(v, w *bigfft.PolValues, m int, dst *big.Int, square bool) error {
	var prod bigfft.PolValues
	var err error
	if square {
		prod, err = v.Sqr()
	} else {
		prod, err = v.Mul(w)
	}
	if err != nil {
		return err
	}
	p, err := prod.InvTransform()
	if err != nil {
		return err
	}
	p.M = m
	p.IntToBigInt(dst)
	return nil
}
