package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

func envString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func envUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func envUint(key string, defaultVal uint) uint {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 32); err == nil {
			return uint(parsed)
		}
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// flagWasSet reports whether any of the names was given explicitly on
// the command line. Aliased flags (-o/-output) pass both names.
func flagWasSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills flags left at their default from environment
// variables, implementing CLI > environment > defaults. Variables carry
// the FIBENGINE_ prefix: FIBENGINE_N, FIBENGINE_ALGO, FIBENGINE_TIMEOUT,
// FIBENGINE_THRESHOLD, FIBENGINE_FFT_THRESHOLD,
// FIBENGINE_STRASSEN_THRESHOLD, FIBENGINE_DYNAMIC_THRESHOLDS,
// FIBENGINE_MOD, FIBENGINE_LAST_DIGITS, FIBENGINE_SERVER, FIBENGINE_PORT,
// FIBENGINE_JSON, FIBENGINE_VERBOSE, FIBENGINE_DETAILS, FIBENGINE_QUIET,
// FIBENGINE_HEX, FIBENGINE_NO_COLOR, FIBENGINE_OUTPUT,
// FIBENGINE_CALIBRATE, FIBENGINE_AUTO_CALIBRATE,
// FIBENGINE_CALIBRATION_PROFILE.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	if !flagWasSet(fs, "n") {
		cfg.N = envUint64("N", cfg.N)
	}
	if !flagWasSet(fs, "algo") {
		cfg.Algo = envString("ALGO", cfg.Algo)
	}
	if !flagWasSet(fs, "timeout") {
		cfg.Timeout = envDuration("TIMEOUT", cfg.Timeout)
	}

	if !flagWasSet(fs, "threshold") {
		cfg.Threshold = envInt("THRESHOLD", cfg.Threshold)
	}
	if !flagWasSet(fs, "fft-threshold") {
		cfg.FFTThreshold = envInt("FFT_THRESHOLD", cfg.FFTThreshold)
	}
	if !flagWasSet(fs, "strassen-threshold") {
		cfg.StrassenThreshold = envInt("STRASSEN_THRESHOLD", cfg.StrassenThreshold)
	}
	if !flagWasSet(fs, "dynamic-thresholds") {
		cfg.DynamicThresholds = envBool("DYNAMIC_THRESHOLDS", cfg.DynamicThresholds)
	}

	if !flagWasSet(fs, "mod") {
		cfg.Modulus = envString("MOD", cfg.Modulus)
	}
	if !flagWasSet(fs, "last-digits") {
		cfg.LastDigits = envUint("LAST_DIGITS", cfg.LastDigits)
	}

	if !flagWasSet(fs, "server") {
		cfg.ServerMode = envBool("SERVER", cfg.ServerMode)
	}
	if !flagWasSet(fs, "port") {
		cfg.Port = envString("PORT", cfg.Port)
	}

	if !flagWasSet(fs, "json") {
		cfg.JSONOutput = envBool("JSON", cfg.JSONOutput)
	}
	if !flagWasSet(fs, "v") {
		cfg.Verbose = envBool("VERBOSE", cfg.Verbose)
	}
	if !flagWasSet(fs, "d", "details") {
		cfg.Details = envBool("DETAILS", cfg.Details)
	}
	if !flagWasSet(fs, "quiet", "q") {
		cfg.Quiet = envBool("QUIET", cfg.Quiet)
	}
	if !flagWasSet(fs, "hex") {
		cfg.HexOutput = envBool("HEX", cfg.HexOutput)
	}
	if !flagWasSet(fs, "no-color") {
		cfg.NoColor = envBool("NO_COLOR", cfg.NoColor)
	}
	if !flagWasSet(fs, "output", "o") {
		cfg.OutputFile = envString("OUTPUT", cfg.OutputFile)
	}
	if !flagWasSet(fs, "calibrate") {
		cfg.Calibrate = envBool("CALIBRATE", cfg.Calibrate)
	}
	if !flagWasSet(fs, "auto-calibrate") {
		cfg.AutoCalibrate = envBool("AUTO_CALIBRATE", cfg.AutoCalibrate)
	}
	if !flagWasSet(fs, "calibration-profile") {
		cfg.CalibrationProfile = envString("CALIBRATION_PROFILE", cfg.CalibrationProfile)
	}
}
