package bigfft

import (
	"math/big"
	"math/bits"
)

// Arithmetic modulo 2^(n*_W)+1.

// A fermat of length n+1 words represents a residue modulo 2^(n*_W)+1.
// After norm the top word is 0 or 1, so a residue has at most two
// representatives and all operations may produce either of them.
type fermat nat

func (z fermat) String() string { return nat(z).String() }

// basicMulThreshold is the operand length in words below which the
// schoolbook product is faster than delegating to math/big.
const basicMulThreshold = 30

// norm reduces the top word back into {0, 1}, folding its excess into
// the low words. 2^(n*_W) == -1, so subtracting c from the top word and
// from z[0] together is a no-op modulo the ring.
func (z fermat) norm() {
	n := len(z) - 1
	c := z[n]
	if c == 0 {
		return
	}
	if z[0] >= c {
		z[n] = 0
		z[0] -= c
		return
	}
	// z[0] < c: borrow ripples.
	subVW(z, z, c)
	if c > 1 {
		z[n] -= c - 1
	}
	// Add back the final 1.
	if z[n] == 1 {
		z[n] = 0
		return
	}
	addVW(z, z, 1)
}

// Shift sets z to x·2^k mod 2^(n*_W)+1. A shift by n*_W is a negation,
// so the rotation wraps with a sign flip and no multiplication is ever
// needed: split into word and bit parts, rotate words with borrow
// fixups, then shift the remaining bits.
func (z fermat) Shift(x fermat, k int) {
	if len(z) != len(x) {
		panic("Shift: len(z) != len(x)")
	}
	n := len(x) - 1
	k %= 2 * n * _W
	if k < 0 {
		k += 2 * n * _W
	}
	neg := false
	if k >= n*_W {
		k -= n * _W
		neg = true
	}

	kw, kb := k/_W, k%_W

	z[n] = 1 // pre-pay the -1 added back below
	if !neg {
		for i := 0; i < kw; i++ {
			z[i] = 0
		}
		// x = a·2^((n-kw)*_W) + b, so x<<k = (b<<k) - a.
		copy(z[kw:], x[:n-kw])
		b := subVV(z[:kw+1], z[:kw+1], x[n-kw:])
		if z[kw+1] > 0 {
			z[kw+1] -= b
		} else {
			subVW(z[kw+1:], z[kw+1:], b)
		}
	} else {
		for i := kw + 1; i < n; i++ {
			z[i] = 0
		}
		// Negated rotation: low words come from x's high part.
		copy(z[:kw+1], x[n-kw:n+1])
		b := subVV(z[kw:n], z[kw:n], x[:n-kw])
		z[n] -= b
	}
	// Undo the pre-paid -1.
	if z[n] > 0 {
		z[n]--
	} else if z[0] < ^big.Word(0) {
		z[0]++
	} else {
		addVW(z, z, 1)
	}
	shlVU(z, z, uint(kb))
	z.norm()
}

// ShiftHalf sets z to x·2^(k/2). Half-bit shifts multiply by
// sqrt(2) = 2^(3n/4) - 2^(n/4) mod 2^n+1, which costs two shifts and a
// subtraction into the caller-provided tmp.
func (z fermat) ShiftHalf(x fermat, k int, tmp fermat) {
	n := len(z) - 1
	if k%2 == 0 {
		z.Shift(x, k/2)
		return
	}
	u := (k - 1) / 2
	a := u + (3*_W/4)*n
	b := u + (_W/4)*n
	z.Shift(x, a)
	tmp.Shift(x, b)
	z.Sub(z, tmp)
}

// Add sets z to x+y mod 2^(n*_W)+1.
func (z fermat) Add(x, y fermat) fermat {
	if len(z) != len(x) {
		panic("Add: len(z) != len(x)")
	}
	addVV(z, x, y) // top words are 0 or 1, no carry out
	z.norm()
	return z
}

// Sub sets z to x-y mod 2^(n*_W)+1.
func (z fermat) Sub(x, y fermat) fermat {
	if len(z) != len(x) {
		panic("Sub: len(z) != len(x)")
	}
	n := len(y) - 1
	b := subVV(z[:n], x[:n], y[:n])
	b += y[n]
	// A borrow of b means subtracting b·2^(n*_W), i.e. adding b.
	z[n] = x[n]
	if z[0] <= ^big.Word(0)-b {
		z[0] += b
	} else {
		addVW(z, z, b)
	}
	z.norm()
	return z
}

// Mul sets z to x·y mod 2^(n*_W)+1. z must have capacity for the 2n+2
// word raw product. Small operands use the schoolbook product; larger
// ones delegate to math/big. Either way the raw product
// z = lo + 2^(n*_W)·hi reduces to lo - hi plus the overflow word.
func (z fermat) Mul(x, y fermat) fermat {
	if len(x) != len(y) {
		panic("Mul: len(x) != len(y)")
	}
	n := len(x) - 1
	if n < basicMulThreshold {
		z = z[:2*n+2]
		basicMul(z, x, y)
		z = z[:2*n+1]
	} else {
		var xi, yi, zi big.Int
		xi.SetBits(x)
		yi.SetBits(y)
		zi.SetBits(z)
		zb := zi.Mul(&xi, &yi).Bits()
		if len(zb) <= n {
			// Short product, no folding needed.
			copy(z, zb)
			for i := len(zb); i < len(z); i++ {
				z[i] = 0
			}
			return z
		}
		z = zb
	}
	return z.fold(n)
}

// Sqr sets z to x² mod 2^(n*_W)+1. The schoolbook path computes only
// the upper triangle of partial products and doubles it, roughly
// halving the word multiplies of the general product.
func (z fermat) Sqr(x fermat) fermat {
	n := len(x) - 1
	if n < basicMulThreshold {
		z = z[:2*n+2]
		basicSqr(z, x)
		z = z[:2*n+1]
	} else {
		var xi, zi big.Int
		xi.SetBits(x)
		zi.SetBits(z)
		zb := zi.Mul(&xi, &xi).Bits()
		if len(zb) <= n {
			copy(z, zb)
			for i := len(zb); i < len(z); i++ {
				z[i] = 0
			}
			return z
		}
		z = zb
	}
	return z.fold(n)
}

// fold reduces the raw product z (at most 2n+1 words) modulo
// 2^(n*_W)+1: z = z[:n] - z[n:2n] + z[2n].
func (z fermat) fold(n int) fermat {
	if len(z) > 2*n+1 {
		panic("fold: product too long")
	}
	c1 := big.Word(0)
	if len(z) > 2*n {
		c1 = addVW(z[:n], z[:n], z[2*n])
	}
	c2 := big.Word(0)
	if len(z) >= 2*n {
		c2 = subVV(z[:n], z[:n], z[n:2*n])
	} else {
		m := len(z) - n
		c2 = subVV(z[:m], z[:m], z[n:])
		c2 = subVW(z[m:n], z[m:n], c2)
	}
	// Subtracting the borrow from the 2^(n*_W) position is the same as
	// adding it at position 0.
	z = z[:n+1]
	z[n] = c1
	if c := addVW(z, z, c2); c != 0 {
		panic("fold: carry out of modulus")
	}
	z.norm()
	return z
}

// basicMul stores the schoolbook product of x and y into
// z[0 : len(x)+len(y)].
func basicMul(z, x, y fermat) {
	for i := range z {
		z[i] = 0
	}
	for i, d := range y {
		if d != 0 {
			z[len(x)+i] = addMulVVW(z[i:i+len(x)], x, d)
		}
	}
}

// basicSqr stores the schoolbook square of x into z[0 : 2*len(x)],
// computing each cross product once and doubling.
func basicSqr(z, x fermat) {
	for i := range z {
		z[i] = 0
	}
	n := len(x) - 1
	// Cross products x[i]·x[j] for j > i, accumulated at position i+j.
	for i, d := range x[:n] {
		if d != 0 {
			z[i+n+1] = addMulVVW(z[2*i+1:i+n+1], x[i+1:], d)
		}
	}
	// Double, then add the diagonal squares.
	shlVU(z[:2*n+1], z[:2*n+1], 1)
	var t [2]big.Word
	for i, d := range x {
		if d != 0 {
			hi, lo := bits.Mul(uint(d), uint(d))
			t[0], t[1] = big.Word(lo), big.Word(hi)
			if c := addVV(z[2*i:2*i+2], z[2*i:2*i+2], t[:]); c != 0 {
				addVW(z[2*i+2:], z[2*i+2:], c)
			}
		}
	}
}
