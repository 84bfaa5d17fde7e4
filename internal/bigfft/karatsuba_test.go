package bigfft

import (
	"fmt"
	"math/big"
	"sync"
	"testing"
)

func TestKaratsubaSmall(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x, y, want int64
	}{
		{0, 0, 0},
		{0, 7, 0},
		{1, 1, 1},
		{2, 3, 6},
		{100, 200, 20000},
		{12345, 67890, 838102050},
		{-5, 3, -15},
		{5, -3, -15},
		{-7, -8, 56},
	}
	for _, tt := range tests {
		got := KaratsubaMultiply(big.NewInt(tt.x), big.NewInt(tt.y))
		if got.Cmp(big.NewInt(tt.want)) != 0 {
			t.Errorf("KaratsubaMultiply(%d, %d) = %s, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestKaratsubaMatchesBigInt(t *testing.T) {
	t.Parallel()
	for _, bits := range []uint{100, 1000, 5000, 50000} {
		bits := bits
		t.Run(fmt.Sprintf("%dbits", bits), func(t *testing.T) {
			t.Parallel()
			x := randomInt(t, bits)
			y := randomInt(t, bits)
			want := new(big.Int).Mul(x, y)
			if got := KaratsubaMultiply(x, y); got.Cmp(want) != 0 {
				t.Errorf("product mismatch at %d bits", bits)
			}
		})
	}
}

func TestKaratsubaAsymmetric(t *testing.T) {
	t.Parallel()
	// Length ratios that route through the blocked path.
	cases := []struct{ xbits, ybits uint }{
		{50000, 500},
		{500, 50000},
		{100000, 64},
		{10000, 3000},
	}
	for _, c := range cases {
		x := randomInt(t, c.xbits)
		y := randomInt(t, c.ybits)
		want := new(big.Int).Mul(x, y)
		if got := KaratsubaMultiply(x, y); got.Cmp(want) != 0 {
			t.Errorf("%d-bit x %d-bit product mismatch", c.xbits, c.ybits)
		}
	}
}

func TestKaratsubaMultiplyToAliasing(t *testing.T) {
	t.Parallel()
	x := randomInt(t, 10000)
	y := randomInt(t, 10000)
	want := new(big.Int).Mul(x, y)

	z := new(big.Int).Set(x)
	res := KaratsubaMultiplyTo(z, z, y)
	if res != z {
		t.Errorf("result is not the destination")
	}
	if z.Cmp(want) != 0 {
		t.Errorf("aliased destination product mismatch")
	}
}

func TestKaratsubaSqr(t *testing.T) {
	t.Parallel()
	for _, bits := range []uint{0, 1, 64, 1000, 30000} {
		x := randomInt(t, bits)
		want := new(big.Int).Mul(x, x)
		if got := KaratsubaSqr(x); got.Cmp(want) != 0 {
			t.Errorf("square mismatch at %d bits", bits)
		}

		neg := new(big.Int).Neg(x)
		if got := KaratsubaSqr(neg); got.Cmp(want) != 0 {
			t.Errorf("negative square mismatch at %d bits", bits)
		}
	}

	z := new(big.Int)
	x := randomInt(t, 5000)
	want := new(big.Int).Mul(x, x)
	if got := KaratsubaSqrTo(z, x); got != z || z.Cmp(want) != 0 {
		t.Errorf("SqrTo mismatch")
	}
}

// TestKaratsubaThreshold swaps the crossover and is therefore not
// parallel.
func TestKaratsubaThreshold(t *testing.T) {
	saved := GetKaratsubaThreshold()
	defer SetKaratsubaThreshold(saved)

	SetKaratsubaThreshold(4)
	if got := GetKaratsubaThreshold(); got != 4 {
		t.Errorf("threshold = %d, want 4", got)
	}

	// A tiny threshold forces deep recursion on modest operands.
	x := randomInt(t, 2000)
	y := randomInt(t, 2000)
	want := new(big.Int).Mul(x, y)
	if got := KaratsubaMultiply(x, y); got.Cmp(want) != 0 {
		t.Errorf("deep recursion product mismatch")
	}

	SetKaratsubaThreshold(0)
	if got := GetKaratsubaThreshold(); got != 1 {
		t.Errorf("threshold clamped to %d, want 1", got)
	}
}

func TestKaratsubaParallel(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("large operands in short mode")
	}
	// Above the parallel threshold so half-products fork.
	bits := uint((DefaultParallelKaratsubaThreshold + 500) * _W)
	x := randomInt(t, bits)
	y := randomInt(t, bits)
	want := new(big.Int).Mul(x, y)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := KaratsubaMultiply(x, y); got.Cmp(want) != 0 {
				t.Errorf("parallel product mismatch")
			}
		}()
	}
	wg.Wait()
}

func BenchmarkKaratsuba(b *testing.B) {
	for _, bits := range []uint{1 << 14, 1 << 17} {
		x := randomInt(b, bits)
		y := randomInt(b, bits)
		b.Run(fmt.Sprintf("%dbits", bits), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				KaratsubaMultiply(x, y)
			}
		})
	}
}
