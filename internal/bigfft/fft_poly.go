package bigfft

import (
	"math/big"
)

// A Poly represents an integer via a polynomial in Z[x]/(x^K-1) where
// K is the transform length and b^M is the computation base 1<<(M*_W).
// If P = a[0] + a[1] x + ... + a[K-1] x^(K-1), the associated integer
// is P(b^M).
type Poly struct {
	K uint  // 1<<K is the transform length
	M int   // chunk size: P(b^M) is the original number
	A []nat // at most 1<<K coefficients of M words
}

// polyFromNat slices x into ceil(len(x)/m) coefficients of m words.
// Coefficients alias x except for the final short chunk.
func polyFromNat(x nat, k uint, m int) Poly {
	p := Poly{K: k, M: m}
	length := (len(x) + m - 1) / m
	if length == 0 {
		length = 1
	}
	p.A = make([]nat, length)
	for i := range p.A {
		if len(x) < m {
			p.A[i] = make(nat, m)
			copy(p.A[i], x)
			break
		}
		p.A[i] = x[:m]
		x = x[m:]
	}
	return p
}

// Int evaluates p back to its integer value.
func (p *Poly) Int() nat {
	return p.IntTo(nil)
}

// IntToBigInt evaluates p into z, reusing z's storage when possible.
func (p *Poly) IntToBigInt(z *big.Int) *big.Int {
	z.SetBits(p.IntTo(z.Bits()))
	return z
}

// IntTo evaluates p to its integer value, summing coefficients at
// m-word strides with carry propagation across chunk boundaries. dst is
// reused when its capacity suffices.
func (p *Poly) IntTo(dst nat) nat {
	length := len(p.A)*p.M + 1
	if na := len(p.A); na > 0 {
		length += len(p.A[na-1])
	}

	var n nat
	if cap(dst) >= length {
		n = dst[:length]
		for i := range n {
			n[i] = 0
		}
	} else {
		n = make(nat, length)
	}

	m := p.M
	np := n
	for i := range p.A {
		l := len(p.A[i])
		c := addVV(np[:l], np[:l], p.A[i])
		if np[l] < ^big.Word(0) {
			np[l] += c
		} else {
			addVW(np[l:], np[l:], c)
		}
		np = np[m:]
	}
	return trim(n)
}

func trim(n nat) nat {
	for i := range n {
		if n[len(n)-1-i] != 0 {
			return n[:len(n)-i]
		}
	}
	return nil
}

// Mul computes p*q modulo x^K-1 via the transform.
func (p *Poly) Mul(q *Poly) (Poly, error) {
	return p.mul(q, GetPoolAllocator())
}

// MulWithBump is Mul with temporaries carved from a bump arena.
func (p *Poly) MulWithBump(q *Poly, ba *BumpAllocator) (Poly, error) {
	return p.mul(q, NewBumpAllocatorAdapter(ba))
}

func (p *Poly) mul(q *Poly, alloc TempAllocator) (Poly, error) {
	// extra=2: a power of two is a K-th root of unity when the ring
	// size is a multiple of K/2 bits, and 2 itself must be a square
	// for ShiftHalf.
	n := valueSize(p.K, p.M, 2)

	pv, err := p.transform(n, alloc)
	if err != nil {
		return Poly{}, err
	}
	qv, err := q.transform(n, alloc)
	if err != nil {
		return Poly{}, err
	}
	rv, err := pv.mul(&qv, alloc)
	if err != nil {
		return Poly{}, err
	}
	r, err := rv.invTransform(alloc)
	if err != nil {
		return Poly{}, err
	}
	r.M = p.M
	return r, nil
}

// PolValues holds the values of a Poly at the K-th roots of unity in
// Z/(2^(N*_W)+1)Z. Once produced the values are read-only; point-wise
// consumers write into fresh buffers.
type PolValues struct {
	K      uint     // 1<<K is the transform length
	N      int      // value length in words, N*_W a multiple of K/4
	Values []fermat // 1<<K values of N+1 words each
}

// Transform evaluates p at θ^i for i = 0..K-1, θ a K-th primitive root
// of unity.
func (p *Poly) Transform(n int) (PolValues, error) {
	return p.transform(n, GetPoolAllocator())
}

// TransformWithBump is Transform with temporaries carved from a bump
// arena.
func (p *Poly) TransformWithBump(n int, ba *BumpAllocator) (PolValues, error) {
	return p.transform(n, NewBumpAllocatorAdapter(ba))
}

func (p *Poly) transform(n int, alloc TempAllocator) (PolValues, error) {
	k := p.K
	K := 1 << k

	// Inputs are temporaries; outputs escape to the caller and are
	// allocated normally.
	input, _, cleanup := alloc.AllocFermatSlice(K, n)
	defer cleanup()

	valbits := make([]big.Word, (n+1)*K)
	values := make([]fermat, K)
	for i := 0; i < K; i++ {
		if i < len(p.A) {
			copy(input[i], p.A[i])
		}
		values[i] = fermat(valbits[i*(n+1) : (i+1)*(n+1)])
	}

	if ad, ok := alloc.(*BumpAllocatorAdapter); ok {
		if err := fourierWithBump(values, input, false, n, k, ad.ba); err != nil {
			return PolValues{}, err
		}
	} else if err := fourier(values, input, false, n, k); err != nil {
		return PolValues{}, err
	}
	return PolValues{k, n, values}, nil
}

// InvTransform reconstructs a Poly (modulo x^K-1) from its values. The
// M field of the result is unspecified.
func (v *PolValues) InvTransform() (Poly, error) {
	return v.invTransform(GetPoolAllocator())
}

// InvTransformWithBump is InvTransform with temporaries carved from a
// bump arena.
func (v *PolValues) InvTransformWithBump(ba *BumpAllocator) (Poly, error) {
	return v.invTransform(NewBumpAllocatorAdapter(ba))
}

func (v *PolValues) invTransform(alloc TempAllocator) (Poly, error) {
	k, n := v.K, v.N
	K := 1 << k

	// Coefficient storage escapes via A, so it is allocated normally.
	pbits := make([]big.Word, (n+1)*K)
	p := make([]fermat, K)
	for i := 0; i < K; i++ {
		p[i] = fermat(pbits[i*(n+1) : (i+1)*(n+1)])
	}

	if ad, ok := alloc.(*BumpAllocatorAdapter); ok {
		if err := fourierWithBump(p, v.Values, true, n, k, ad.ba); err != nil {
			return Poly{}, err
		}
	} else if err := fourier(p, v.Values, true, n, k); err != nil {
		return Poly{}, err
	}

	// Divide by K: a further shift by -k.
	u, cleanup := alloc.AllocFermatTemp(n)
	defer cleanup()

	a := make([]nat, K)
	for i := 0; i < K; i++ {
		u.Shift(p[i], -int(k))
		copy(p[i], u)
		a[i] = nat(p[i])
	}
	return Poly{K: k, M: 0, A: a}, nil
}

// Mul computes the point-wise product of p and q.
func (p *PolValues) Mul(q *PolValues) (PolValues, error) {
	return p.mul(q, GetPoolAllocator())
}

// MulWithBump is Mul with the product temporary carved from a bump
// arena.
func (p *PolValues) MulWithBump(q *PolValues, ba *BumpAllocator) (PolValues, error) {
	return p.mul(q, NewBumpAllocatorAdapter(ba))
}

func (p *PolValues) mul(q *PolValues, alloc TempAllocator) (PolValues, error) {
	n := p.N
	K := len(p.Values)
	r := PolValues{K: p.K, N: p.N, Values: make([]fermat, K)}
	bits := make([]big.Word, K*(n+1))

	// The raw product needs up to 2n+2 words before folding; 8n keeps
	// headroom for the delegated big.Int path.
	buf, cleanup := alloc.AllocFermatTemp(8 * n)
	defer cleanup()

	for i := 0; i < K; i++ {
		r.Values[i] = bits[i*(n+1) : (i+1)*(n+1)]
		z := buf.Mul(p.Values[i], q.Values[i])
		copy(r.Values[i], z)
	}
	return r, nil
}

// Sqr computes the point-wise square of p, one transformed operand
// instead of two.
func (p *PolValues) Sqr() (PolValues, error) {
	return p.sqr(GetPoolAllocator())
}

// SqrWithBump is Sqr with the product temporary carved from a bump
// arena.
func (p *PolValues) SqrWithBump(ba *BumpAllocator) (PolValues, error) {
	return p.sqr(NewBumpAllocatorAdapter(ba))
}

func (p *PolValues) sqr(alloc TempAllocator) (PolValues, error) {
	n := p.N
	K := len(p.Values)
	r := PolValues{K: p.K, N: p.N, Values: make([]fermat, K)}
	bits := make([]big.Word, K*(n+1))

	buf, cleanup := alloc.AllocFermatTemp(8 * n)
	defer cleanup()

	for i := 0; i < K; i++ {
		r.Values[i] = bits[i*(n+1) : (i+1)*(n+1)]
		z := buf.Sqr(p.Values[i])
		copy(r.Values[i], z)
	}
	return r, nil
}

// Clone deep-copies p so two goroutines can consume the same transform
// values concurrently.
func (p *PolValues) Clone() PolValues {
	K := len(p.Values)
	n := p.N
	bits := make([]big.Word, K*(n+1))
	values := make([]fermat, K)
	for i := 0; i < K; i++ {
		values[i] = fermat(bits[i*(n+1) : (i+1)*(n+1)])
		copy(values[i], p.Values[i])
	}
	return PolValues{K: p.K, N: p.N, Values: values}
}
