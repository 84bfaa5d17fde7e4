// Package bigfft multiplies big.Int values using a Fermat-number
// transform, following the Schönhage-Strassen construction: integers
// are sliced into polynomials whose values are convolved in
// Z/(2^(n*_W)+1)Z, where the primitive root of unity is a power of two
// and every butterfly reduces to a shift.
package bigfft

import (
	"fmt"
	"math/big"
	"runtime/debug"
	"unsafe"
)

const _W = int(unsafe.Sizeof(big.Word(0)) * 8)

type nat []big.Word

func (n nat) String() string {
	v := new(big.Int)
	v.SetBits(n)
	return v.String()
}

// defaultFFTThresholdWords is the operand size in words above which the
// transform beats math/big's Karatsuba. Calibration puts the crossover
// near 60 kbits on 32-bit and 115 kbits on 64-bit systems; 1800 words
// is the 64-bit figure.
const defaultFFTThresholdWords = 1800

var fftThreshold = defaultFFTThresholdWords

// Mul returns x*y, routing through the transform when both operands are
// large enough. Internal faults surface as errors, never as panics.
func Mul(x, y *big.Int) (res *big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in bigfft.Mul: %v\nstack: %s", r, debug.Stack())
		}
	}()
	if len(x.Bits()) > fftThreshold && len(y.Bits()) > fftThreshold {
		return mulFFT(x, y)
	}
	return new(big.Int).Mul(x, y), nil
}

// MulTo computes x*y into z, reusing z's storage when it is large
// enough.
func MulTo(z, x, y *big.Int) (res *big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in bigfft.MulTo: %v\nstack: %s", r, debug.Stack())
		}
	}()
	if len(x.Bits()) > fftThreshold && len(y.Bits()) > fftThreshold {
		var xb, yb nat = x.Bits(), y.Bits()
		zb, err := fftmulTo(z.Bits(), xb, yb)
		if err != nil {
			return nil, err
		}
		z.SetBits(zb)
		if x.Sign()*y.Sign() < 0 {
			z.Neg(z)
		}
		return z, nil
	}
	return z.Mul(x, y), nil
}

// Sqr returns x². The operand is transformed once and the transform
// values squared point-wise, saving a third of the work of Mul(x, x).
func Sqr(x *big.Int) (res *big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in bigfft.Sqr: %v\nstack: %s", r, debug.Stack())
		}
	}()
	if len(x.Bits()) > fftThreshold {
		return sqrFFT(x)
	}
	return new(big.Int).Mul(x, x), nil
}

// SqrTo computes x² into z, reusing z's storage when possible.
func SqrTo(z, x *big.Int) (res *big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in bigfft.SqrTo: %v\nstack: %s", r, debug.Stack())
		}
	}()
	if len(x.Bits()) > fftThreshold {
		zb, err := fftsqrTo(z.Bits(), x.Bits())
		if err != nil {
			return nil, err
		}
		z.SetBits(zb)
		return z, nil
	}
	return z.Mul(x, x), nil
}

func mulFFT(x, y *big.Int) (*big.Int, error) {
	zb, err := fftmulTo(nil, x.Bits(), y.Bits())
	if err != nil {
		return nil, err
	}
	z := new(big.Int)
	z.SetBits(zb)
	if x.Sign()*y.Sign() < 0 {
		z.Neg(z)
	}
	return z, nil
}

func sqrFFT(x *big.Int) (*big.Int, error) {
	zb, err := fftsqrTo(nil, x.Bits())
	if err != nil {
		return nil, err
	}
	// x² is non-negative.
	return new(big.Int).SetBits(zb), nil
}

// fftmulTo multiplies x and y through the transform, writing the result
// into dst when it has sufficient capacity. All transform temporaries
// come from one bump arena released in bulk at the end.
func fftmulTo(dst, x, y nat) (nat, error) {
	k, m := fftSize(x, y)

	ba := AcquireBumpAllocator(EstimateBumpCapacity(len(x) + len(y)))
	defer ReleaseBumpAllocator(ba)

	xp := polyFromNat(x, k, m)
	yp := polyFromNat(y, k, m)
	rp, err := xp.MulCachedWithBump(&yp, ba)
	if err != nil {
		return nil, err
	}
	return rp.IntTo(dst), nil
}

// fftsqrTo squares x through the transform. x is transformed once.
func fftsqrTo(dst, x nat) (nat, error) {
	k, m := fftSizeSqr(x)

	ba := AcquireBumpAllocator(EstimateBumpCapacity(2 * len(x)))
	defer ReleaseBumpAllocator(ba)

	xp := polyFromNat(x, k, m)
	rp, err := xp.SqrCachedWithBump(ba)
	if err != nil {
		return nil, err
	}
	return rp.IntTo(dst), nil
}

// A transform of order K = 1<<k is adequate when K is about
// 2*sqrt(N) bits, N being the combined operand length.
// fftSizeThreshold[k] is the largest result size in bits for which
// order k should be used.
var fftSizeThreshold = [...]int64{0, 0, 0,
	4 << 10, 8 << 10, 16 << 10, // 5
	32 << 10, 64 << 10, 1 << 18, 1 << 20, 3 << 20, // 10
	8 << 20, 30 << 20, 100 << 20, 300 << 20, 600 << 20,
}

func fftSizeFor(words int) (k uint, m int) {
	bits := int64(words) * int64(_W)
	k = uint(len(fftSizeThreshold))
	for i := range fftSizeThreshold {
		if fftSizeThreshold[i] > bits {
			k = uint(i)
			break
		}
	}
	// The 1<<k chunks of m words must cover the result: m<<k > words.
	m = words>>k + 1
	return
}

// fftSize picks the transform order k and chunk size m for x*y.
func fftSize(x, y nat) (k uint, m int) {
	return fftSizeFor(len(x) + len(y))
}

// fftSizeSqr picks the parameters for x², whose result has 2*len(x)
// words.
func fftSizeSqr(x nat) (k uint, m int) {
	return fftSizeFor(2 * len(x))
}

// GetFFTParams returns the transform parameters for a result of the
// given word count. Callers that drive the transform directly pair it
// with ValueSize.
func GetFFTParams(words int) (k uint, m int) {
	return fftSizeFor(words)
}

// PolyFromInt slices x into a polynomial with 1<<k coefficients of m
// words each.
func PolyFromInt(x *big.Int, k uint, m int) Poly {
	return polyFromNat(x.Bits(), k, m)
}

// ValueSize returns the Fermat coefficient length in words for a
// transform of order k over m-word chunks. The length is a multiple of
// 1<<(k-extra) bits so the needed roots of unity exist.
func ValueSize(k uint, m int, extra uint) int {
	return valueSize(k, m, extra)
}

func valueSize(k uint, m int, extra uint) int {
	// Convolution coefficients are below b^(2m)*K, so the ring must
	// span at least 2*m*_W + k bits.
	n := 2*m*_W + int(k)
	K := 1 << (k - extra)
	if K < _W {
		K = _W
	}
	n = ((n / K) + 1) * K // round up to a multiple of K bits
	return n / _W
}

// fourier runs an unnormalized transform of src, a 1<<k vector of
// residues modulo 2^(n*_W)+1, into dst.
func fourier(dst, src []fermat, backward bool, n int, k uint) error {
	tmp := acquireFermat(n + 1)
	tmp2 := acquireFermat(n + 1)
	defer releaseFermat(tmp)
	defer releaseFermat(tmp2)
	return fourierRecursive(dst, src, backward, n, k, k, 0, tmp, tmp2)
}

// fourierWithBump is fourier with temporaries carved from a bump arena.
func fourierWithBump(dst, src []fermat, backward bool, n int, k uint, ba *BumpAllocator) error {
	tmp := ba.AllocFermat(n)
	tmp2 := ba.AllocFermat(n)
	return fourierRecursive(dst, src, backward, n, k, k, 0, tmp, tmp2)
}
