package fibonacci

import (
	"math/big"

	"github.com/agbru/fibengine/internal/bigfft"
	apperrors "github.com/agbru/fibengine/internal/errors"
)

// Options configures one computation. The zero value selects the package
// defaults for every threshold and computes the exact (non-modular) value.
type Options struct {
	// ParallelThreshold is the bit size above which the doubling step's
	// three products run in parallel. 0 selects the default.
	ParallelThreshold int
	// FFTThreshold is the bit size above which multiplication uses the
	// Fermat-number transform. 0 selects the default.
	FFTThreshold int
	// KaratsubaThreshold is the bit size above which the explicit
	// Karatsuba path is preferred over math/big. 0 selects the default.
	KaratsubaThreshold int
	// StrassenThreshold is the bit size above which 2x2 matrix products
	// use the 7-multiplication decomposition. 0 selects the default.
	StrassenThreshold int

	// Modulus, when non-nil, restricts the computation to F(n) mod m.
	// The working pair is reduced every iteration, so memory stays
	// proportional to the digits of m rather than of F(n).
	// Must be positive; validated before computation starts.
	Modulus *big.Int
	// LastDigits > 0 computes only the last K decimal digits, shorthand
	// for Modulus = 10^K. Mutually exclusive with Modulus.
	LastDigits uint

	// FFTCacheMinBitLen is the minimum operand size cached by the
	// transform-value cache. 0 keeps the engine default.
	FFTCacheMinBitLen int
	// FFTCacheMaxEntries bounds the transform-value cache. 0 keeps the
	// engine default.
	FFTCacheMaxEntries int
	// FFTCacheEnabled overrides transform caching when non-nil.
	FFTCacheEnabled *bool

	// EnableDynamicThresholds turns on runtime threshold retuning from
	// per-iteration timing feedback.
	EnableDynamicThresholds bool
	// DynamicAdjustmentInterval is the number of iterations between
	// threshold analyses. 0 selects the default.
	DynamicAdjustmentInterval int
}

// Validate rejects impossible configurations before any computation
// starts. All failures are ConfigError values.
func (o Options) Validate() error {
	if o.ParallelThreshold < 0 || o.FFTThreshold < 0 ||
		o.KaratsubaThreshold < 0 || o.StrassenThreshold < 0 {
		return apperrors.NewConfigError("thresholds must not be negative")
	}
	if o.Modulus != nil && o.Modulus.Sign() <= 0 {
		return apperrors.NewConfigError("modulus must be positive, got %s", o.Modulus)
	}
	if o.Modulus != nil && o.LastDigits > 0 {
		return apperrors.NewConfigError("modulus and last-digits are mutually exclusive")
	}
	if o.DynamicAdjustmentInterval < 0 {
		return apperrors.NewConfigError("dynamic adjustment interval must not be negative")
	}
	return nil
}

// effectiveModulus resolves the modular-computation options to a single
// modulus, or nil for an exact computation. Assumes Validate passed.
func effectiveModulus(o Options) *big.Int {
	if o.Modulus != nil {
		return o.Modulus
	}
	if o.LastDigits > 0 {
		return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(o.LastDigits)), nil)
	}
	return nil
}

// normalizeOptions fills zero thresholds with the package defaults so the
// loops never re-check for unset values.
func normalizeOptions(o Options) Options {
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	if o.FFTThreshold == 0 {
		o.FFTThreshold = DefaultFFTThreshold
	}
	if o.KaratsubaThreshold == 0 {
		o.KaratsubaThreshold = DefaultKaratsubaThreshold
	}
	if o.StrassenThreshold == 0 {
		o.StrassenThreshold = DefaultStrassenThreshold
	}
	return o
}

// configureTransformCache pushes the cache-related options down into the
// transform engine's global cache.
func configureTransformCache(o Options) {
	cfg := bigfft.DefaultTransformCacheConfig()
	if o.FFTCacheMaxEntries > 0 {
		cfg.MaxEntries = o.FFTCacheMaxEntries
	}
	if o.FFTCacheMinBitLen > 0 {
		cfg.MinBitLen = o.FFTCacheMinBitLen
	}
	if o.FFTCacheEnabled != nil {
		cfg.Enabled = *o.FFTCacheEnabled
	}
	bigfft.SetTransformCacheConfig(cfg)
}
