package bigfft

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"testing"
)

// randomInt returns a uniformly random integer below 2^bits.
func randomInt(t testing.TB, bits uint) *big.Int {
	t.Helper()
	limit := new(big.Int).Lsh(big.NewInt(1), bits)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		t.Fatalf("rand.Int: %v", err)
	}
	return v
}

func TestMulSmall(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x, y, want string
	}{
		{"0", "0", "0"},
		{"0", "12345", "0"},
		{"1", "1", "1"},
		{"2", "3", "6"},
		{"-2", "3", "-6"},
		{"-2", "-3", "6"},
		{"999999999", "999999999", "999999998000000001"},
		{"18446744073709551615", "18446744073709551615", "340282366920938463426481119284349108225"},
	}
	for _, tt := range tests {
		x, _ := new(big.Int).SetString(tt.x, 10)
		y, _ := new(big.Int).SetString(tt.y, 10)
		want, _ := new(big.Int).SetString(tt.want, 10)

		got, err := Mul(x, y)
		if err != nil {
			t.Fatalf("Mul(%s, %s): %v", tt.x, tt.y, err)
		}
		if got.Cmp(want) != 0 {
			t.Errorf("Mul(%s, %s) = %s, want %s", tt.x, tt.y, got, want)
		}
	}
}

// TestMulForcedFFT lowers the size cutoff so small operands run through
// the transform, then cross-checks against big.Int. Not parallel: it
// swaps a package global.
func TestMulForcedFFT(t *testing.T) {
	saved := fftThreshold
	fftThreshold = 10
	defer func() { fftThreshold = saved }()

	for _, words := range []int{11, 12, 16, 50, 200, 1000} {
		bits := uint(words * _W)
		for iter := 0; iter < 3; iter++ {
			x := randomInt(t, bits)
			y := randomInt(t, bits)
			want := new(big.Int).Mul(x, y)

			got, err := Mul(x, y)
			if err != nil {
				t.Fatalf("Mul: %v", err)
			}
			if got.Cmp(want) != 0 {
				t.Errorf("words=%d: product mismatch (%d-bit vs %d-bit operands)",
					words, x.BitLen(), y.BitLen())
			}

			sq, err := Sqr(x)
			if err != nil {
				t.Fatalf("Sqr: %v", err)
			}
			if wantSq := new(big.Int).Mul(x, x); sq.Cmp(wantSq) != 0 {
				t.Errorf("words=%d: square mismatch for %d-bit operand", words, x.BitLen())
			}
		}
	}
}

// TestMulForcedFFTSigns checks sign propagation on the transform path.
func TestMulForcedFFTSigns(t *testing.T) {
	saved := fftThreshold
	fftThreshold = 10
	defer func() { fftThreshold = saved }()

	x := randomInt(t, 2048)
	y := randomInt(t, 2048)
	negX := new(big.Int).Neg(x)
	negY := new(big.Int).Neg(y)

	cases := []struct{ a, b *big.Int }{
		{x, y}, {negX, y}, {x, negY}, {negX, negY},
	}
	for _, c := range cases {
		want := new(big.Int).Mul(c.a, c.b)
		got, err := Mul(c.a, c.b)
		if err != nil {
			t.Fatalf("Mul: %v", err)
		}
		if got.Cmp(want) != 0 {
			t.Errorf("sign mismatch: got sign %d, want sign %d", got.Sign(), want.Sign())
		}

		z := new(big.Int)
		got, err = MulTo(z, c.a, c.b)
		if err != nil {
			t.Fatalf("MulTo: %v", err)
		}
		if got.Cmp(want) != 0 {
			t.Errorf("MulTo sign mismatch: got sign %d, want sign %d", got.Sign(), want.Sign())
		}

		sq, err := SqrTo(new(big.Int), c.a)
		if err != nil {
			t.Fatalf("SqrTo: %v", err)
		}
		if sq.Sign() < 0 {
			t.Errorf("SqrTo returned a negative square")
		}
	}
}

func TestMulLarge(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("large operands in short mode")
	}
	// Above the real cutoff, so the transform runs with production
	// parameters.
	bits := uint((fftThreshold + 100) * _W)
	x := randomInt(t, bits)
	y := randomInt(t, bits)

	want := new(big.Int).Mul(x, y)
	got, err := Mul(x, y)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if got.Cmp(want) != 0 {
		t.Errorf("product mismatch at %d bits", bits)
	}

	wantSq := new(big.Int).Mul(x, x)
	gotSq, err := Sqr(x)
	if err != nil {
		t.Fatalf("Sqr: %v", err)
	}
	if gotSq.Cmp(wantSq) != 0 {
		t.Errorf("square mismatch at %d bits", bits)
	}
}

func TestMulToReusesStorage(t *testing.T) {
	saved := fftThreshold
	fftThreshold = 10
	defer func() { fftThreshold = saved }()

	x := randomInt(t, 4096)
	y := randomInt(t, 4096)
	want := new(big.Int).Mul(x, y)

	// Pre-size the destination above the result size.
	z := new(big.Int).Lsh(big.NewInt(1), 10000)
	res, err := MulTo(z, x, y)
	if err != nil {
		t.Fatalf("MulTo: %v", err)
	}
	if res != z {
		t.Errorf("MulTo did not return its destination")
	}
	if z.Cmp(want) != 0 {
		t.Errorf("MulTo result mismatch")
	}

	res, err = SqrTo(z, x)
	if err != nil {
		t.Fatalf("SqrTo: %v", err)
	}
	if wantSq := new(big.Int).Mul(x, x); res.Cmp(wantSq) != 0 {
		t.Errorf("SqrTo result mismatch")
	}
}

// TestMulConcurrent hammers the transform from several goroutines to
// exercise the shared semaphore and pools under the race detector.
func TestMulConcurrent(t *testing.T) {
	saved := fftThreshold
	fftThreshold = 10
	defer func() { fftThreshold = saved }()

	x := randomInt(t, 50000)
	y := randomInt(t, 50000)
	want := new(big.Int).Mul(x, y)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				got, err := Mul(x, y)
				if err != nil {
					t.Errorf("Mul: %v", err)
					return
				}
				if got.Cmp(want) != 0 {
					t.Errorf("concurrent product mismatch")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFFTSizeFor(t *testing.T) {
	t.Parallel()
	prevK := uint(0)
	for _, words := range []int{1, 10, 64, 1000, 5000, 20000, 1 << 16, 1 << 20, 1 << 24} {
		k, m := fftSizeFor(words)
		if k < prevK {
			t.Errorf("order not monotonic: words=%d gives k=%d after k=%d", words, k, prevK)
		}
		prevK = k
		// The 1<<k chunks must cover the result.
		if m<<k <= words {
			t.Errorf("words=%d: m=%d chunks of order %d do not cover the result", words, m, k)
		}
	}
}

func TestValueSize(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		k uint
		m int
	}{
		{3, 1}, {3, 100}, {5, 50}, {8, 1000}, {10, 4000}, {14, 100000},
	} {
		n := valueSize(tc.k, tc.m, 2)
		bits := n * _W
		if bits < 2*tc.m*_W+int(tc.k) {
			t.Errorf("k=%d m=%d: ring of %d bits cannot hold convolution coefficients", tc.k, tc.m, bits)
		}
		granule := 1 << (tc.k - 2)
		if granule < _W {
			granule = _W
		}
		if bits%granule != 0 {
			t.Errorf("k=%d m=%d: %d bits is not a multiple of %d", tc.k, tc.m, bits, granule)
		}
	}
}

func TestPolyRoundTrip(t *testing.T) {
	t.Parallel()
	for _, bits := range []uint{1, 64, 100, 1000, 10000} {
		x := randomInt(t, bits)
		k, m := fftSizeFor(len(x.Bits()) * 2)
		p := PolyFromInt(x, k, m)
		got := new(big.Int)
		p.IntToBigInt(got)
		if got.Cmp(x) != 0 {
			t.Errorf("bits=%d: slicing round trip mismatch", bits)
		}
	}
}

func TestPolyRoundTripZero(t *testing.T) {
	t.Parallel()
	p := PolyFromInt(new(big.Int), 4, 3)
	if v := p.Int(); v != nil {
		t.Errorf("zero round trip: got %v, want nil", v)
	}
}

func BenchmarkMulFFT(b *testing.B) {
	for _, bits := range []uint{1 << 17, 1 << 20} {
		x := randomInt(b, bits)
		y := randomInt(b, bits)
		b.Run(fmt.Sprintf("%dbits", bits), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Mul(x, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSqrFFT(b *testing.B) {
	for _, bits := range []uint{1 << 17, 1 << 20} {
		x := randomInt(b, bits)
		b.Run(fmt.Sprintf("%dbits", bits), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Sqr(x); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
