package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/fibengine/internal/cli"
	"github.com/agbru/fibengine/internal/config"
	"github.com/agbru/fibengine/internal/ui"
)

// printCalibrationResults renders the per-threshold timing table.
func printCalibrationResults(out io.Writer, results []trialResult, bestThreshold int) {
	th := ui.GetCurrentTheme()

	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %s    │ %s\n", th.Underline("Threshold"), th.Underline("Execution Time"))
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		label := fmt.Sprintf("%d bits", res.Threshold)
		if res.Threshold == 0 {
			label = "Sequential"
		}
		durationStr := th.Error("N/A")
		if res.Err == nil {
			durationStr = cli.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				durationStr = "< 1µs"
			}
		}
		highlight := ""
		if res.Threshold == bestThreshold && res.Err == nil {
			highlight = " " + th.Success("(Optimal)")
		}
		fmt.Fprintf(tw, "  %s │ %s%s\n", th.Info("%-12s", label), th.Warning("%s", durationStr), highlight)
	}
	tw.Flush()
}

// printAutoCalibration reports the thresholds an auto-calibration pass
// settled on.
func printAutoCalibration(cfg config.AppConfig, out io.Writer) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%s: parallelism=%s bits, FFT=%s bits, Strassen=%s bits\n",
		th.Success("Auto-calibration"),
		th.Warning("%d", cfg.Threshold),
		th.Warning("%d", cfg.FFTThreshold),
		th.Warning("%d", cfg.StrassenThreshold))
}
