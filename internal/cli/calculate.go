package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fibengine/internal/config"
	"github.com/agbru/fibengine/internal/fibonacci"
	"github.com/agbru/fibengine/internal/ui"
)

// GetCalculatorsToRun resolves the configured algorithm selection into
// calculator instances, sorted by name so "all" runs are reproducible.
func GetCalculatorsToRun(cfg config.AppConfig, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if cfg.Algo == "all" {
		names := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(names))
		for _, name := range names {
			if calc, err := factory.Get(name); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig announces what is about to be computed and with
// which tuning, so long runs are self-describing in logs and captures.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %s with a timeout of %s.\n",
		th.Info("F(%d)", cfg.N), th.Warning("%s", cfg.Timeout))
	if cfg.Modulus != "" {
		fmt.Fprintf(out, "Modular mode: result reduced modulo %s.\n", th.Info("%s", cfg.Modulus))
	} else if cfg.LastDigits > 0 {
		fmt.Fprintf(out, "Modular mode: keeping the last %s decimal digits.\n", th.Info("%d", cfg.LastDigits))
	}
	fmt.Fprintf(out, "Environment: %s logical processors, Go %s.\n",
		th.Secondary("%d", runtime.NumCPU()), th.Secondary("%s", runtime.Version()))
	fmt.Fprintf(out, "Optimization thresholds: Parallelism=%s bits, FFT=%s bits, Strassen=%s bits.\n",
		th.Secondary("%d", cfg.Threshold), th.Secondary("%d", cfg.FFTThreshold),
		th.Secondary("%d", cfg.StrassenThreshold))
	if cfg.DynamicThresholds {
		fmt.Fprintf(out, "Dynamic threshold retuning: %s.\n", th.Success("enabled"))
	}
}

// PrintExecutionMode tells the user whether one algorithm runs alone or
// all of them race and cross-check.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	th := ui.GetCurrentTheme()
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s algorithm",
			th.Success("%s", calculators[0].Name()))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
