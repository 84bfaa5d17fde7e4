// Package config defines the application configuration, parses it from
// command-line flags with environment-variable fallback, and validates it
// before anything downstream runs.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	apperrors "github.com/agbru/fibengine/internal/errors"
	"github.com/agbru/fibengine/internal/fibonacci"
)

// EnvPrefix is prepended to every environment variable the application
// reads. Environment variables fill in flags not given on the command
// line: CLI flags > environment > defaults.
const EnvPrefix = "FIBENGINE_"

// Defaults, overridable per flag or environment variable.
const (
	DefaultN                 uint64 = 250_000_000
	DefaultTimeout                  = 5 * time.Minute
	DefaultPort                     = "8080"
	DefaultAlgo                     = "all"
	DefaultThreshold                = 4096
	DefaultFFTThreshold             = 500_000
	DefaultStrassenThreshold        = 3072
)

// AppConfig carries every runtime setting: what to compute, how to tune
// the arithmetic, and how to present the result.
type AppConfig struct {
	// N is the Fibonacci index to compute.
	N uint64
	// Algo selects a registered algorithm, or "all" to run every one and
	// cross-validate.
	Algo string
	// Timeout bounds the whole computation.
	Timeout time.Duration

	// Threshold is the parallel-multiplication bit threshold.
	Threshold int
	// FFTThreshold is the transform-engine bit threshold (0 disables).
	FFTThreshold int
	// StrassenThreshold is the 7-multiplication matrix-kernel threshold.
	StrassenThreshold int
	// DynamicThresholds enables runtime threshold retuning from timing
	// feedback.
	DynamicThresholds bool

	// Modulus, when non-empty, computes F(n) mod the given decimal value.
	Modulus string
	// LastDigits > 0 computes only the last K decimal digits
	// (modulus 10^K). Mutually exclusive with Modulus.
	LastDigits uint

	// Calibrate runs the full calibration benchmark and exits.
	Calibrate bool
	// AutoCalibrate refines thresholds with a quick startup benchmark.
	AutoCalibrate bool
	// CalibrationProfile overrides the calibration profile path.
	CalibrationProfile string

	// ServerMode starts the HTTP API instead of a one-shot computation.
	ServerMode bool
	// Port is the HTTP listen port in server mode.
	Port string

	// Verbose prints the full decimal value however long it is.
	Verbose bool
	// Details adds performance metrics to the report.
	Details bool
	// JSONOutput renders the result as JSON.
	JSONOutput bool
	// HexOutput renders the result in hexadecimal.
	HexOutput bool
	// OutputFile saves the result to a file instead of stdout only.
	OutputFile string
	// Quiet suppresses banners and progress for scripting.
	Quiet bool
	// NoColor disables ANSI colors; the NO_COLOR variable does too.
	NoColor bool
	// Completion emits a shell completion script (bash, zsh, fish,
	// powershell) and exits.
	Completion string
}

// ToCalculationOptions maps the tuning and modular settings onto the
// calculator options. The modulus string is assumed validated.
func (c AppConfig) ToCalculationOptions() fibonacci.Options {
	opts := fibonacci.Options{
		ParallelThreshold:       c.Threshold,
		FFTThreshold:            c.FFTThreshold,
		StrassenThreshold:       c.StrassenThreshold,
		LastDigits:              c.LastDigits,
		EnableDynamicThresholds: c.DynamicThresholds,
	}
	if c.Modulus != "" {
		if m, ok := new(big.Int).SetString(c.Modulus, 10); ok {
			opts.Modulus = m
		}
	}
	return opts
}

// Validate rejects inconsistent settings up front, so failures surface
// as configuration errors instead of mid-computation surprises.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be strictly positive")
	}
	if c.Threshold < 0 {
		return apperrors.NewConfigError("parallel threshold cannot be negative: %d", c.Threshold)
	}
	if c.FFTThreshold < 0 {
		return apperrors.NewConfigError("FFT threshold cannot be negative: %d", c.FFTThreshold)
	}
	if c.StrassenThreshold < 0 {
		return apperrors.NewConfigError("Strassen threshold cannot be negative: %d", c.StrassenThreshold)
	}
	if c.Modulus != "" {
		m, ok := new(big.Int).SetString(c.Modulus, 10)
		if !ok {
			return apperrors.NewConfigError("modulus is not a valid decimal integer: %q", c.Modulus)
		}
		if m.Sign() <= 0 {
			return apperrors.NewConfigError("modulus must be positive: %s", c.Modulus)
		}
		if c.LastDigits > 0 {
			return apperrors.NewConfigError("-mod and -last-digits are mutually exclusive")
		}
	}
	if c.Algo != "all" {
		found := false
		for _, a := range availableAlgos {
			if a == c.Algo {
				found = true
				break
			}
		}
		if !found {
			return apperrors.NewConfigError("unrecognized algorithm %q; valid: 'all' or [%s]",
				c.Algo, strings.Join(availableAlgos, ", "))
		}
	}
	return nil
}

// ParseConfig builds an AppConfig from args, applies environment
// fallbacks for flags left unset, and validates the result. Program name
// and writer are injectable for tests.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm: 'all' or one of [%s].", strings.Join(availableAlgos, ", "))

	cfg := AppConfig{}
	fs.Uint64Var(&cfg.N, "n", DefaultN, "Index n of the Fibonacci number to compute.")
	fs.StringVar(&cfg.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum computation time.")

	fs.IntVar(&cfg.Threshold, "threshold", DefaultThreshold, "Bit threshold for parallel multiplication.")
	fs.IntVar(&cfg.FFTThreshold, "fft-threshold", DefaultFFTThreshold, "Bit threshold for FFT multiplication (0 disables).")
	fs.IntVar(&cfg.StrassenThreshold, "strassen-threshold", DefaultStrassenThreshold, "Bit threshold for the Strassen matrix kernel.")
	fs.BoolVar(&cfg.DynamicThresholds, "dynamic-thresholds", false, "Retune thresholds at runtime from timing feedback.")

	fs.StringVar(&cfg.Modulus, "mod", "", "Compute F(n) modulo this decimal value.")
	fs.UintVar(&cfg.LastDigits, "last-digits", 0, "Compute only the last K decimal digits.")

	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Run the calibration benchmark and exit.")
	fs.BoolVar(&cfg.AutoCalibrate, "auto-calibrate", false, "Quick automatic calibration at startup.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default: <config dir>/fibengine/calibration.yaml).")

	fs.BoolVar(&cfg.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&cfg.Port, "port", DefaultPort, "HTTP listen port in server mode.")

	fs.BoolVar(&cfg.Verbose, "v", false, "Print the full value of the result.")
	fs.BoolVar(&cfg.Details, "d", false, "Print performance details.")
	fs.BoolVar(&cfg.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "JSON output.")
	fs.BoolVar(&cfg.HexOutput, "hex", false, "Hexadecimal output.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Write the result to this file (shorthand).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Minimal output for scripts.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Minimal output (shorthand).")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output (NO_COLOR is also honored).")
	fs.StringVar(&cfg.Completion, "completion", "", "Emit a shell completion script (bash, zsh, fish, powershell).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	cfg.Algo = strings.ToLower(cfg.Algo)
	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return cfg, nil
}
