package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/fibengine/internal/ui"
)

// OutputConfig selects how a final result is rendered and whether it is
// also saved to a file.
type OutputConfig struct {
	OutputFile string
	HexOutput  bool
	Quiet      bool
	Verbose    bool
	Details    bool
}

// WriteResultToFile saves the result with a small header of provenance
// comments. Parent directories are created as needed.
func WriteResultToFile(result *big.Int, n uint64, duration time.Duration, algo string, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Digits: %d\n", len(result.String()))
	fmt.Fprintf(file, "\n")

	if cfg.HexOutput {
		fmt.Fprintf(file, "F(%d) [hex] =\n0x%s\n", n, result.Text(16))
	} else {
		fmt.Fprintf(file, "F(%d) =\n%s\n", n, result.String())
	}
	return nil
}

// FormatQuietResult renders just the value, one line, for scripting.
func FormatQuietResult(result *big.Int, hexOutput bool) string {
	if hexOutput {
		return fmt.Sprintf("0x%s", result.Text(16))
	}
	return result.String()
}

// DisplayResultWithConfig is the single entry point for final-result
// rendering: quiet mode, the standard display with optional hex block,
// and file export.
func DisplayResultWithConfig(out io.Writer, result *big.Int, n uint64, duration time.Duration, algo string, cfg OutputConfig) error {
	th := ui.GetCurrentTheme()
	if cfg.Quiet {
		fmt.Fprintln(out, FormatQuietResult(result, cfg.HexOutput))
	} else {
		DisplayResult(result, n, duration, cfg.Verbose, cfg.Details, out)

		if cfg.HexOutput {
			fmt.Fprintf(out, "\n%s\n", th.Bold("Hexadecimal format:"))
			hexStr := result.Text(16)
			if len(hexStr) > TruncationLimit && !cfg.Verbose {
				fmt.Fprintf(out, "F(%d) [hex] = %s\n",
					n, th.Success("0x%s...%s", hexStr[:40], hexStr[len(hexStr)-40:]))
			} else {
				fmt.Fprintf(out, "F(%d) [hex] = %s\n", n, th.Success("0x%s", hexStr))
			}
		}
	}

	if cfg.OutputFile != "" {
		if err := WriteResultToFile(result, n, duration, algo, cfg); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\n%s %s\n", th.Success("Result saved to:"), th.Secondary("%s", cfg.OutputFile))
		}
	}
	return nil
}
