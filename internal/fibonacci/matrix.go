package fibonacci

import (
	"context"
	"fmt"
	"math/big"
	"math/bits"
	"runtime"
	"sync"
)

// matrix is a 2x2 matrix of big integers,
//
//	[ a b ]
//	[ c d ]
//
// used to carry powers of the Fibonacci base matrix Q = [[1,1],[1,0]].
type matrix struct{ a, b, c, d *big.Int }

func newMatrix() *matrix {
	return &matrix{a: new(big.Int), b: new(big.Int), c: new(big.Int), d: new(big.Int)}
}

// SetIdentity makes the receiver the multiplicative identity.
func (m *matrix) SetIdentity() {
	m.a.SetInt64(1)
	m.b.SetInt64(0)
	m.c.SetInt64(0)
	m.d.SetInt64(1)
}

// SetBaseQ makes the receiver the Fibonacci base matrix Q; Q^n carries
// F(n+1), F(n), F(n), F(n-1).
func (m *matrix) SetBaseQ() {
	m.a.SetInt64(1)
	m.b.SetInt64(1)
	m.c.SetInt64(1)
	m.d.SetInt64(0)
}

// reduce takes every entry mod mod.
func (m *matrix) reduce(mod *big.Int) {
	m.a.Mod(m.a, mod)
	m.b.Mod(m.b, mod)
	m.c.Mod(m.c, mod)
	m.d.Mod(m.d, mod)
}

func (m *matrix) anyOversized() bool {
	return oversized(m.a) || oversized(m.b) || oversized(m.c) || oversized(m.d)
}

// matrixState owns every buffer a matrix exponentiation touches: the
// accumulated result, the running power, a swap target, and the scratch
// integers of the 2x2 product kernels. The Winograd decomposition needs
// 7 product slots and 8 pre-computed sums; symmetric squaring needs 5
// temporaries. Sized for the worst kernel, nothing in the hot path
// allocates.
type matrixState struct {
	res, pow, tmp *matrix

	prod [8]*big.Int // product destinations (classic kernel uses all 8)
	sum  [8]*big.Int // Winograd pre-computation sums/differences
	scr  [5]*big.Int // symmetric-squaring and assembly temporaries
}

// Reset seeds the state for a new run: res = I, pow = Q.
func (s *matrixState) Reset() {
	s.res.SetIdentity()
	s.pow.SetBaseQ()
}

var matrixStatePool = sync.Pool{
	New: func() any {
		s := &matrixState{
			res: newMatrix(),
			pow: newMatrix(),
			tmp: newMatrix(),
		}
		for i := range s.prod {
			s.prod[i] = new(big.Int)
		}
		for i := range s.sum {
			s.sum[i] = new(big.Int)
		}
		for i := range s.scr {
			s.scr[i] = new(big.Int)
		}
		return s
	},
}

// acquireMatrixState returns a reset state from the pool; release with
// releaseMatrixState, preferably via defer.
func acquireMatrixState() *matrixState {
	s := matrixStatePool.Get().(*matrixState)
	s.Reset()
	return s
}

// releaseMatrixState returns s to the pool, unless any buffer has grown
// past MaxPooledBitLen, in which case the whole state is dropped.
func releaseMatrixState(s *matrixState) {
	if s == nil {
		return
	}
	if s.res.anyOversized() || s.pow.anyOversized() || s.tmp.anyOversized() {
		return
	}
	for _, z := range s.prod {
		if oversized(z) {
			return
		}
	}
	for _, z := range s.sum {
		if oversized(z) {
			return
		}
	}
	for _, z := range s.scr {
		if oversized(z) {
			return
		}
	}
	matrixStatePool.Put(s)
}

// MatrixExponentiation computes F(n) as an entry of Q^(n-1), raising the
// base matrix by binary exponentiation. Each squaring of the symmetric
// power matrix costs 3 squarings plus 1 multiply, and odd-bit products
// switch to the 7-multiplication Winograd kernel above the Strassen
// threshold. Slower than fast doubling by a constant factor, it serves
// as the independent cross-check algorithm.
type MatrixExponentiation struct{}

// Name identifies the algorithm in the registry and UI.
func (c *MatrixExponentiation) Name() string {
	return "Matrix Exponentiation (Strassen-Winograd)"
}

// CalculateCore runs the binary exponentiation loop on pooled state.
func (c *MatrixExponentiation) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error) {
	if n == 0 {
		return big.NewInt(0), nil
	}

	st := acquireMatrixState()
	defer releaseMatrixState(st)
	return runMatrixLoop(ctx, reporter, n, normalizeOptions(opts), st)
}

// runMatrixLoop walks the bits of n-1 from least to most significant,
// multiplying the power into the result on set bits and squaring the
// power between bits. F(n) is the (0,0) entry of the accumulated Q^(n-1).
// Under a modulus every matrix entry is reduced each iteration.
func runMatrixLoop(ctx context.Context, reporter ProgressReporter, n uint64, opts Options, st *matrixState) (*big.Int, error) {
	exponent := n - 1
	numBits := bits.Len64(exponent)
	tracker := newProgressTracker(reporter, numBits)
	mod := effectiveModulus(opts)
	useParallel := runtime.GOMAXPROCS(0) > 1 && opts.ParallelThreshold > 0

	for i := 0; i < numBits; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("matrix exponentiation canceled at bit %d/%d: %w", i, numBits-1, err)
		}

		inParallel := useParallel && maxMatrixBits(st.pow) > opts.ParallelThreshold

		if (exponent>>uint(i))&1 == 1 {
			if err := multiplyMatrices(ctx, st.tmp, st.res, st.pow, st, opts, inParallel); err != nil {
				return nil, fmt.Errorf("matrix product at bit %d/%d: %w", i, numBits-1, err)
			}
			st.res, st.tmp = st.tmp, st.res
		}

		// The last squaring would only feed bits beyond the exponent.
		if i < numBits-1 {
			if err := squareSymmetricMatrix(ctx, st.tmp, st.pow, st, opts, inParallel); err != nil {
				return nil, fmt.Errorf("matrix squaring at bit %d/%d: %w", i, numBits-1, err)
			}
			st.pow, st.tmp = st.tmp, st.pow
		}

		if mod != nil {
			st.res.reduce(mod)
			st.pow.reduce(mod)
		}

		// Work grows with the bit index here (LSB first), so the step
		// index feeds the tracker directly.
		tracker.step(i)
	}

	// Ownership transfer keeps the pool safe: the result entry leaves the
	// state and a fresh zero takes its place.
	r := st.res.a
	st.res.a = new(big.Int)
	return r, nil
}
