package fibonacci

import (
	"math/big"
	"testing"
)

func TestStateResetSeedsPair(t *testing.T) {
	t.Parallel()

	s := AcquireState()
	defer ReleaseState(s)

	if s.FK.Sign() != 0 {
		t.Errorf("FK = %s, want 0", s.FK)
	}
	if s.FK1.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("FK1 = %s, want 1", s.FK1)
	}
}

func TestRotateDoubled(t *testing.T) {
	t.Parallel()

	s := AcquireState()
	defer ReleaseState(s)

	// After a step, T3 holds F(2k) and T1 holds F(2k+1).
	s.T3.SetInt64(21)
	s.T1.SetInt64(34)
	oldFK, oldFK1, oldT2 := s.FK, s.FK1, s.T2

	s.rotateDoubled()

	if s.FK.Int64() != 21 || s.FK1.Int64() != 34 {
		t.Errorf("pair = (%s, %s), want (21, 34)", s.FK, s.FK1)
	}
	// Displaced buffers must survive as scratch, not be dropped.
	if s.T2 != oldFK || s.T3 != oldFK1 || s.T1 != oldT2 {
		t.Error("displaced buffers were not recycled into scratch slots")
	}
}

func TestRotateAdvanced(t *testing.T) {
	t.Parallel()

	s := AcquireState()
	defer ReleaseState(s)

	s.FK.SetInt64(21)
	s.FK1.SetInt64(34)
	s.T4.SetInt64(55) // caller computed FK + FK1
	oldFK := s.FK

	s.rotateAdvanced()

	if s.FK.Int64() != 34 || s.FK1.Int64() != 55 {
		t.Errorf("pair = (%s, %s), want (34, 55)", s.FK, s.FK1)
	}
	if s.T4 != oldFK {
		t.Error("old FK buffer should rotate into T4")
	}
}

func TestTakeResultDetachesBuffer(t *testing.T) {
	t.Parallel()

	s := AcquireState()
	s.FK.SetInt64(12345)

	r := s.takeResult()
	if r.Int64() != 12345 {
		t.Fatalf("takeResult = %s, want 12345", r)
	}
	if s.FK == r {
		t.Error("state still references the extracted buffer")
	}
	if s.FK.Sign() != 0 {
		t.Error("replacement buffer should be zero")
	}

	// Mutating the state after release must not reach the result.
	s.FK.SetInt64(999)
	ReleaseState(s)
	if r.Int64() != 12345 {
		t.Error("result aliased state memory")
	}
}

func TestReleaseStateDropsOversized(t *testing.T) {
	t.Parallel()

	s := AcquireState()
	s.T2.Lsh(big.NewInt(1), MaxPooledBitLen+1)
	if !oversized(s.T2) {
		t.Fatal("test buffer should exceed the pool cap")
	}
	// Returning it must not panic; the state is silently discarded.
	ReleaseState(s)
	ReleaseState(nil)
}

func TestStatePoolRoundTrip(t *testing.T) {
	t.Parallel()

	s1 := AcquireState()
	s1.FK.SetInt64(77)
	s1.FK1.SetInt64(88)
	ReleaseState(s1)

	// Whatever the pool hands out next must be reset, whether or not it
	// is the same object.
	s2 := AcquireState()
	defer ReleaseState(s2)
	if s2.FK.Sign() != 0 || s2.FK1.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("acquired state not reset: (%s, %s)", s2.FK, s2.FK1)
	}
}
