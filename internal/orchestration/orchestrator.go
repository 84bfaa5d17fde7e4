// Package orchestration runs one or more calculators concurrently,
// funnels their progress into a single display, and cross-checks the
// results when several algorithms compute the same number.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibengine/internal/cli"
	"github.com/agbru/fibengine/internal/config"
	apperrors "github.com/agbru/fibengine/internal/errors"
	"github.com/agbru/fibengine/internal/fibonacci"
	"github.com/agbru/fibengine/internal/ui"
)

// CalculationResult is the outcome of one calculator's run, in a shape
// that comparison and reporting can treat uniformly.
type CalculationResult struct {
	Name     string
	Result   *big.Int
	Duration time.Duration
	Err      error
}

// ProgressBufferMultiplier sizes the shared progress channel per
// calculator, so a slow display does not stall the computations.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator in its own goroutine and
// collects all outcomes; individual failures are recorded, not
// propagated, so one algorithm's error never cancels the others.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, out io.Writer) []CalculationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan fibonacci.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	opts := cfg.ToCalculationOptions()
	for i, calc := range calculators {
		idx, calculator := i, calc
		g.Go(func() error {
			startTime := time.Now()
			res, err := calculator.Calculate(ctx, progressChan, idx, cfg.N, opts)
			results[idx] = CalculationResult{
				Name: calculator.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts the outcomes (successes first, fastest
// first), prints the comparison table, verifies that every successful
// algorithm produced the same number, and displays the agreed result.
// The return value is the process exit code.
func AnalyzeComparisonResults(results []CalculationResult, cfg config.AppConfig, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	th := ui.GetCurrentTheme()
	var firstValid *CalculationResult
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", th.Underline("Algorithm"), th.Underline("Duration"), th.Underline("Status"))

	for i := range results {
		res := &results[i]
		var status string
		if res.Err != nil {
			status = th.Error("failure (%v)", res.Err)
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = th.Success("ok")
			successCount++
			if firstValid == nil {
				firstValid = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", th.Primary("%s", res.Name), th.Warning("%s", duration), status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush summary table: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return apperrors.HandleCalculationError(firstError, 0, out, ui.Palette{})
	}

	for i := range results {
		res := &results[i]
		if res.Err == nil && res.Result.Cmp(firstValid.Result) != 0 {
			mismatch := apperrors.NewMismatchError(cfg.N, firstValid.Name, res.Name)
			fmt.Fprintf(out, "\nGlobal Status: %s %v\n", th.Error("CRITICAL ERROR!"), mismatch)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	cli.DisplayResult(firstValid.Result, cfg.N, firstValid.Duration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}
