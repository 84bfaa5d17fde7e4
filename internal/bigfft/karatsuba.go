package bigfft

import (
	"math/big"
	"sync"
)

// DefaultKaratsubaThreshold is the operand size in words below which
// the schoolbook product beats the recursive split.
const DefaultKaratsubaThreshold = 32

// DefaultParallelKaratsubaThreshold is the operand size in words above
// which the two independent half-products are worth running on separate
// goroutines.
const DefaultParallelKaratsubaThreshold = 4096

// MaxKaratsubaParallelDepth caps parallel recursion depth; deeper
// levels run sequentially.
const MaxKaratsubaParallelDepth = 3

var (
	karatsubaThreshold         = DefaultKaratsubaThreshold
	karatsubaParallelThreshold = DefaultParallelKaratsubaThreshold
)

// SetKaratsubaThreshold overrides the schoolbook crossover, mainly for
// calibration runs.
func SetKaratsubaThreshold(threshold int) {
	if threshold < 1 {
		threshold = 1
	}
	karatsubaThreshold = threshold
}

// GetKaratsubaThreshold returns the current schoolbook crossover.
func GetKaratsubaThreshold() int {
	return karatsubaThreshold
}

var bigIntPool = sync.Pool{
	New: func() any { return new(big.Int) },
}

func acquireBigInt() *big.Int { return bigIntPool.Get().(*big.Int) }

func releaseBigInt(x *big.Int) {
	x.SetInt64(0)
	bigIntPool.Put(x)
}

// KaratsubaMultiply returns x*y computed by the explicit Karatsuba
// split. It exists for the strategy layer that must never route through
// the transform.
func KaratsubaMultiply(x, y *big.Int) *big.Int {
	return KaratsubaMultiplyTo(new(big.Int), x, y)
}

// KaratsubaMultiplyTo computes x*y into z, reusing z's storage.
func KaratsubaMultiplyTo(z, x, y *big.Int) *big.Int {
	if x.Sign() == 0 || y.Sign() == 0 {
		return z.SetInt64(0)
	}

	xAbs := acquireBigInt()
	yAbs := acquireBigInt()
	xAbs.Abs(x)
	yAbs.Abs(y)
	defer releaseBigInt(xAbs)
	defer releaseBigInt(yAbs)

	negative := x.Sign() != y.Sign()
	z.SetBits(karatsuba(xAbs.Bits(), yAbs.Bits(), 0))
	if negative {
		z.Neg(z)
	}
	return z
}

// KaratsubaSqr returns x².
func KaratsubaSqr(x *big.Int) *big.Int {
	return KaratsubaSqrTo(new(big.Int), x)
}

// KaratsubaSqrTo computes x² into z. The three recursive products
// become three squares, which shares more work than the general split.
func KaratsubaSqrTo(z, x *big.Int) *big.Int {
	if x.Sign() == 0 {
		return z.SetInt64(0)
	}
	xAbs := acquireBigInt()
	xAbs.Abs(x)
	defer releaseBigInt(xAbs)

	z.SetBits(karatsubaSqr(xAbs.Bits(), 0))
	return z
}

// karatsuba multiplies natural numbers by splitting at half the longer
// operand: z = z0 + (z1 << k) + (z2 << 2k) with
// z1 = (x0+x1)(y0+y1) - z0 - z2. The two independent half-products may
// run in parallel under the shared transform semaphore.
func karatsuba(x, y nat, depth int) nat {
	n, m := len(x), len(y)
	if n < m {
		x, y = y, x
		n, m = m, n
	}

	if m == 0 {
		return nil
	}
	if n <= karatsubaThreshold {
		return multiplyNaive(x, y)
	}
	if n > 2*m {
		return multiplyAsymmetric(x, y, depth)
	}

	k := n / 2
	x0, x1 := x[:k], x[k:]
	y0, y1 := y[:k], y[k:]
	if len(y) <= k {
		y0, y1 = y, nil
	}

	var z0, z2 nat
	if depth < MaxKaratsubaParallelDepth && n >= karatsubaParallelThreshold {
		select {
		case getSemaphore() <- struct{}{}:
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-getSemaphore() }()
				z2 = karatsuba(x1, y1, depth+1)
			}()
			z0 = karatsuba(x0, y0, depth+1)
			wg.Wait()
		default:
			z0 = karatsuba(x0, y0, depth+1)
			z2 = karatsuba(x1, y1, depth+1)
		}
	} else {
		z0 = karatsuba(x0, y0, depth+1)
		z2 = karatsuba(x1, y1, depth+1)
	}

	z1 := karatsuba(natAdd(x0, x1), natAdd(y0, y1), depth+1)
	z1 = natSub(z1, z0)
	z1 = natSub(z1, z2)

	return assemble(z0, z1, z2, k)
}

func karatsubaSqr(x nat, depth int) nat {
	n := len(x)
	if n <= karatsubaThreshold {
		xi := new(big.Int).SetBits(x)
		return new(big.Int).Mul(xi, xi).Bits()
	}

	k := n / 2
	x0, x1 := x[:k], x[k:]

	z0 := karatsubaSqr(x0, depth+1)
	z2 := karatsubaSqr(x1, depth+1)

	z1 := karatsubaSqr(natAdd(x0, x1), depth+1)
	z1 = natSub(z1, z0)
	z1 = natSub(z1, z2)

	return assemble(z0, z1, z2, k)
}

// multiplyNaive delegates small products to math/big.
func multiplyNaive(x, y nat) nat {
	xi := new(big.Int).SetBits(x)
	yi := new(big.Int).SetBits(y)
	return new(big.Int).Mul(xi, yi).Bits()
}

// multiplyAsymmetric slices the longer operand into m-word blocks so
// the recursion always sees balanced operands.
func multiplyAsymmetric(x, y nat, depth int) nat {
	m := len(y)
	result := make(nat, len(x)+m)
	for i := 0; i < len(x); i += m {
		end := i + m
		if end > len(x) {
			end = len(x)
		}
		part := karatsuba(x[i:end], y, depth+1)
		addAt(result, part, i)
	}
	return trim(result)
}

func natAdd(x, y nat) nat {
	if len(x) < len(y) {
		x, y = y, x
	}
	if len(y) == 0 {
		return x
	}
	z := make(nat, len(x)+1)
	c := addVV(z[:len(y)], x[:len(y)], y)
	if len(x) > len(y) {
		c = addVW(z[len(y):len(x)], x[len(y):], c)
	}
	z[len(x)] = c
	return trim(z)
}

// natSub computes x-y assuming x >= y.
func natSub(x, y nat) nat {
	z := make(nat, len(x))
	if len(y) == 0 {
		copy(z, x)
		return z
	}
	c := subVV(z[:len(y)], x[:len(y)], y)
	if len(x) > len(y) {
		subVW(z[len(y):], x[len(y):], c)
	}
	return trim(z)
}

func addAt(z, x nat, shift int) {
	if len(x) == 0 {
		return
	}
	n, m := len(z), len(x)
	if shift+m > n {
		panic("addAt: out of bounds")
	}
	c := addVV(z[shift:shift+m], z[shift:shift+m], x)
	if c != 0 && shift+m < n {
		addVW(z[shift+m:], z[shift+m:], c)
	}
}

// assemble combines z0 + z1·B + z2·B² where B = 2^(k*_W).
func assemble(z0, z1, z2 nat, k int) nat {
	size := len(z2) + 2*k
	if s := len(z1) + k; s > size {
		size = s
	}
	if s := len(z0); s > size {
		size = s
	}
	res := make(nat, size+1)
	copy(res, z0)
	addAt(res, z1, k)
	addAt(res, z2, 2*k)
	return trim(res)
}
