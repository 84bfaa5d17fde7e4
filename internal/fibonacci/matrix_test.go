package fibonacci

import (
	"context"
	"math/big"
	"math/rand"
	"testing"
)

func randomMatrix(rng *rand.Rand, bits int) *matrix {
	m := newMatrix()
	for _, e := range []*big.Int{m.a, m.b, m.c, m.d} {
		e.Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return m
}

// mulReference is the textbook product, computed with fresh math/big
// values and no scratch sharing.
func mulReference(m1, m2 *matrix) *matrix {
	out := newMatrix()
	out.a.Add(new(big.Int).Mul(m1.a, m2.a), new(big.Int).Mul(m1.b, m2.c))
	out.b.Add(new(big.Int).Mul(m1.a, m2.b), new(big.Int).Mul(m1.b, m2.d))
	out.c.Add(new(big.Int).Mul(m1.c, m2.a), new(big.Int).Mul(m1.d, m2.c))
	out.d.Add(new(big.Int).Mul(m1.c, m2.b), new(big.Int).Mul(m1.d, m2.d))
	return out
}

func matricesEqual(m1, m2 *matrix) bool {
	return m1.a.Cmp(m2.a) == 0 && m1.b.Cmp(m2.b) == 0 &&
		m1.c.Cmp(m2.c) == 0 && m1.d.Cmp(m2.d) == 0
}

func TestMultiplyKernelsAgree(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	st := acquireMatrixState()
	defer releaseMatrixState(st)

	for _, bits := range []int{8, 64, 500, 5000} {
		m1 := randomMatrix(rng, bits)
		m2 := randomMatrix(rng, bits)
		want := mulReference(m1, m2)

		for _, inParallel := range []bool{false, true} {
			classic := newMatrix()
			if err := multiplyClassic(context.Background(), classic, m1, m2, st, normalizeOptions(Options{}), inParallel); err != nil {
				t.Fatalf("classic (%d bits): %v", bits, err)
			}
			if !matricesEqual(classic, want) {
				t.Errorf("classic kernel wrong at %d bits (parallel=%v)", bits, inParallel)
			}

			winograd := newMatrix()
			if err := multiplyWinograd(context.Background(), winograd, m1, m2, st, normalizeOptions(Options{}), inParallel); err != nil {
				t.Fatalf("winograd (%d bits): %v", bits, err)
			}
			if !matricesEqual(winograd, want) {
				t.Errorf("winograd kernel wrong at %d bits (parallel=%v)", bits, inParallel)
			}
		}
	}
}

func TestMultiplyDispatchOnThreshold(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	st := acquireMatrixState()
	defer releaseMatrixState(st)

	// Either side of the Strassen threshold must produce the reference
	// result through multiplyMatrices.
	for _, bits := range []int{DefaultStrassenThreshold / 2, DefaultStrassenThreshold * 2} {
		m1 := randomMatrix(rng, bits)
		m2 := randomMatrix(rng, bits)
		want := mulReference(m1, m2)

		dest := newMatrix()
		if err := multiplyMatrices(context.Background(), dest, m1, m2, st, normalizeOptions(Options{}), false); err != nil {
			t.Fatal(err)
		}
		if !matricesEqual(dest, want) {
			t.Errorf("dispatch wrong at %d bits", bits)
		}
	}
}

func TestSquareSymmetricMatrix(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	st := acquireMatrixState()
	defer releaseMatrixState(st)

	for _, bits := range []int{16, 300, 4000} {
		m := randomMatrix(rng, bits)
		m.c.Set(m.b) // powers of Q are symmetric
		want := mulReference(m, m)

		for _, inParallel := range []bool{false, true} {
			dest := newMatrix()
			if err := squareSymmetricMatrix(context.Background(), dest, m, st, normalizeOptions(Options{}), inParallel); err != nil {
				t.Fatal(err)
			}
			if !matricesEqual(dest, want) {
				t.Errorf("symmetric square wrong at %d bits (parallel=%v)", bits, inParallel)
			}
		}
	}
}

func TestMatrixSetters(t *testing.T) {
	t.Parallel()

	m := newMatrix()
	m.SetBaseQ()
	if m.a.Int64() != 1 || m.b.Int64() != 1 || m.c.Int64() != 1 || m.d.Int64() != 0 {
		t.Error("SetBaseQ produced wrong entries")
	}
	m.SetIdentity()
	if m.a.Int64() != 1 || m.b.Int64() != 0 || m.c.Int64() != 0 || m.d.Int64() != 1 {
		t.Error("SetIdentity produced wrong entries")
	}
}

func TestMaxMatrixBits(t *testing.T) {
	t.Parallel()

	m := newMatrix()
	m.a.SetInt64(1)
	m.c.Lsh(big.NewInt(1), 100)
	if got := maxMatrixBits(m); got != 101 {
		t.Errorf("maxMatrixBits = %d, want 101", got)
	}

	m2 := newMatrix()
	m2.d.Lsh(big.NewInt(1), 200)
	if got := maxPairBits(m, m2); got != 201 {
		t.Errorf("maxPairBits = %d, want 201", got)
	}
}
