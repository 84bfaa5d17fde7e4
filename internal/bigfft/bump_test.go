package bigfft

import (
	"math/big"
	"testing"
)

func TestBumpAllocatorCarving(t *testing.T) {
	t.Parallel()
	ba := AcquireBumpAllocator(100)
	defer ReleaseBumpAllocator(ba)

	a := ba.Alloc(10)
	if len(a) != 10 {
		t.Fatalf("len %d, want 10", len(a))
	}
	if ba.Used() != 10 || ba.Remaining() != 90 {
		t.Errorf("used/remaining = %d/%d, want 10/90", ba.Used(), ba.Remaining())
	}

	b := ba.Alloc(90)
	if ba.Used() != 100 || ba.Remaining() != 0 {
		t.Errorf("used/remaining = %d/%d, want 100/0", ba.Used(), ba.Remaining())
	}

	// Adjacent carves must not overlap.
	a[9] = 1
	if b[0] != 0 {
		t.Errorf("allocations overlap")
	}
}

func TestBumpAllocatorFallback(t *testing.T) {
	t.Parallel()
	ba := AcquireBumpAllocator(16)
	defer ReleaseBumpAllocator(ba)

	ba.Alloc(16)
	used := ba.Used()

	// Exhausted arena falls through to the heap.
	s := ba.Alloc(8)
	if len(s) != 8 {
		t.Fatalf("fallback len %d, want 8", len(s))
	}
	if ba.Used() != used {
		t.Errorf("fallback advanced the offset: %d -> %d", used, ba.Used())
	}
}

func TestBumpAllocatorResetZeroes(t *testing.T) {
	t.Parallel()
	ba := AcquireBumpAllocator(32)
	defer ReleaseBumpAllocator(ba)

	a := ba.Alloc(32)
	for i := range a {
		a[i] = ^big.Word(0)
	}
	ba.Reset()
	if ba.Used() != 0 {
		t.Fatalf("used %d after Reset", ba.Used())
	}

	b := ba.Alloc(32)
	if &a[0] != &b[0] {
		t.Errorf("Reset did not rewind to the same region")
	}
	for i, w := range b {
		if w != 0 {
			t.Errorf("word %d not zeroed after reuse: %d", i, w)
		}
	}
}

func TestBumpAllocatorFermatSlices(t *testing.T) {
	t.Parallel()
	ba := AcquireBumpAllocator(64)
	defer ReleaseBumpAllocator(ba)

	f := ba.AllocFermat(5)
	if len(f) != 6 {
		t.Errorf("residue len %d, want 6", len(f))
	}

	K, n := 4, 3
	fermats, bits := ba.AllocFermatSlice(K, n)
	if len(fermats) != K || len(bits) != K*(n+1) {
		t.Fatalf("slice shape %d/%d, want %d/%d", len(fermats), len(bits), K, K*(n+1))
	}
	for i := range fermats {
		if &fermats[i][0] != &bits[i*(n+1)] {
			t.Errorf("residue %d not contiguous with the backing buffer", i)
		}
	}
}

func TestBumpAllocatorReuse(t *testing.T) {
	t.Parallel()
	ba := AcquireBumpAllocator(64)
	ba.Alloc(10)
	ReleaseBumpAllocator(ba)

	ba2 := AcquireBumpAllocator(32)
	if ba2.Used() != 0 {
		t.Errorf("reacquired arena has used %d", ba2.Used())
	}
	if ba2.Remaining() != 32 {
		t.Errorf("reacquired arena remaining %d, want 32", ba2.Remaining())
	}
	ReleaseBumpAllocator(ba2)

	// Growing requests resize the region.
	ba3 := AcquireBumpAllocator(256)
	if ba3.Remaining() != 256 {
		t.Errorf("grown arena remaining %d, want 256", ba3.Remaining())
	}
	ReleaseBumpAllocator(ba3)

	// Releasing nil must not panic.
	ReleaseBumpAllocator(nil)
}

func TestEstimateBumpCapacity(t *testing.T) {
	t.Parallel()
	if got := EstimateBumpCapacity(0); got != 0 {
		t.Errorf("capacity for empty operands = %d", got)
	}
	if got := EstimateBumpCapacity(-5); got != 0 {
		t.Errorf("capacity for negative size = %d", got)
	}
	for _, wordLen := range []int{1, 100, 10_000, 1_000_000} {
		got := EstimateBumpCapacity(wordLen)
		// The arena must at least cover the two sets of transform
		// coefficients, which span twice the operand words.
		if got < 2*wordLen {
			t.Errorf("wordLen=%d: capacity %d below %d", wordLen, got, 2*wordLen)
		}
	}
}

func TestBumpAllocatorAdapter(t *testing.T) {
	t.Parallel()
	ba := AcquireBumpAllocator(128)
	defer ReleaseBumpAllocator(ba)
	ad := NewBumpAllocatorAdapter(ba)

	f, cleanup := ad.AllocFermatTemp(7)
	if len(f) != 8 {
		t.Errorf("temp len %d, want 8", len(f))
	}
	cleanup() // no-op

	fermats, bits, cleanup := ad.AllocFermatSlice(4, 7)
	defer cleanup()
	if len(fermats) != 4 || len(bits) != 4*8 {
		t.Errorf("slice shape %d/%d, want 4/32", len(fermats), len(bits))
	}
	if ba.Used() != 8+32 {
		t.Errorf("arena used %d, want 40", ba.Used())
	}
}
