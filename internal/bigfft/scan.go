package bigfft

import (
	"fmt"
	"math/big"
)

// FromDecimalString converts the base 10 representation of a natural
// number into a *big.Int in subquadratic time: halves of the digit
// string are scanned recursively and recombined with one transform
// multiply per level. The empty string converts to zero.
func FromDecimalString(s string) (*big.Int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("invalid decimal digit %q at position %d", s[i], i)
		}
	}
	var sc scanner
	z := new(big.Int)
	if err := sc.scan(z, s); err != nil {
		return nil, err
	}
	return z, nil
}

type scanner struct {
	// powers[i] is 10^(2^i * quadraticScanThreshold).
	powers []*big.Int
}

func (s *scanner) chunkSize(size int) (int, *big.Int) {
	if size <= quadraticScanThreshold {
		panic("chunkSize: size below quadratic threshold")
	}
	pow := uint(0)
	for n := size; n > quadraticScanThreshold; n /= 2 {
		pow++
	}
	// threshold * 2^(pow-1) <= size < threshold * 2^pow
	return quadraticScanThreshold << (pow - 1), s.power(pow - 1)
}

func (s *scanner) power(k uint) *big.Int {
	for i := len(s.powers); i <= int(k); i++ {
		z := new(big.Int)
		if i == 0 {
			if quadraticScanThreshold%14 != 0 {
				panic("quadraticScanThreshold % 14 != 0")
			}
			z.Exp(big.NewInt(1e14), big.NewInt(quadraticScanThreshold/14), nil)
		} else {
			z.Mul(s.powers[i-1], s.powers[i-1])
		}
		s.powers = append(s.powers, z)
	}
	return s.powers[k]
}

func (s *scanner) scan(z *big.Int, str string) error {
	return s.scanRec(z, str, new(big.Int))
}

// scanRec reuses temp across the divide-and-conquer so each level adds
// at most one allocation.
func (s *scanner) scanRec(z *big.Int, str string, temp *big.Int) error {
	if len(str) <= quadraticScanThreshold {
		if len(str) == 0 {
			z.SetInt64(0)
			return nil
		}
		z.SetString(str, 10)
		return nil
	}
	sz, pow := s.chunkSize(len(str))
	if err := s.scanRec(z, str[:len(str)-sz], temp); err != nil {
		return err
	}
	left, err := Mul(z, pow)
	if err != nil {
		return err
	}
	if err := s.scanRec(temp, str[len(str)-sz:], new(big.Int)); err != nil {
		return err
	}
	z.Add(left, temp)
	return nil
}

// quadraticScanThreshold is the digit count below which plain
// big.Int.SetString wins. 1232 digits fit in 4096 bits.
const quadraticScanThreshold = 1232
