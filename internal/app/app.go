package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/agbru/fibengine/internal/calibration"
	"github.com/agbru/fibengine/internal/cli"
	"github.com/agbru/fibengine/internal/config"
	apperrors "github.com/agbru/fibengine/internal/errors"
	"github.com/agbru/fibengine/internal/fibonacci"
	"github.com/agbru/fibengine/internal/orchestration"
	"github.com/agbru/fibengine/internal/server"
	"github.com/agbru/fibengine/internal/ui"
	"github.com/agbru/fibengine/pkg/models"
)

// Application ties a parsed configuration to the calculator factory and
// dispatches to the selected run mode.
type Application struct {
	Config    config.AppConfig
	Factory   fibonacci.CalculatorFactory
	ErrWriter io.Writer
}

// New parses args into an Application. Cached calibration thresholds are
// applied when a profile exists for this hardware; otherwise the static
// defaults are replaced with hardware-adapted estimates.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := fibonacci.GlobalFactory()

	programName := "fibengine"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	if withProfile, cached := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); cached {
		cfg = withProfile
	} else {
		cfg = applyAdaptiveThresholds(cfg)
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// applyAdaptiveThresholds swaps the static defaults for hardware-adapted
// estimates. Values the user set explicitly stay untouched: only a
// threshold still at its compiled-in default is considered unset.
func applyAdaptiveThresholds(cfg config.AppConfig) config.AppConfig {
	parallel, fft, strassen := calibration.EstimateOptimalThresholds()

	if cfg.Threshold == fibonacci.DefaultParallelThreshold {
		cfg.Threshold = parallel
	}
	if cfg.FFTThreshold == fibonacci.DefaultFFTThreshold {
		cfg.FFTThreshold = fft
	}
	if cfg.StrassenThreshold == fibonacci.DefaultStrassenThreshold {
		cfg.StrassenThreshold = strassen
	}
	return cfg
}

// Run executes the selected mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer()
	}
	if a.Config.Calibrate {
		return calibration.RunCalibrationWithOptions(ctx, out, a.Factory, calibration.Options{
			ProfilePath: a.Config.CalibrationProfile,
			Save:        true,
		})
	}

	a.Config = a.autoCalibrateIfEnabled(ctx, out)
	return a.runCalculate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) autoCalibrateIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if !a.Config.AutoCalibrate {
		return a.Config
	}
	if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out, a.Factory); ok {
		return updated
	}
	return a.Config
}

// runCalculate performs the one-shot computation: one algorithm or all
// of them racing, with the output mode picked by the configuration.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "No calculator available for algorithm %q.\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config, progressOut)

	if a.Config.JSONOutput {
		return a.printJSONResults(results, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}

	if outputCfg.Quiet {
		return a.reportQuiet(results, outputCfg, out)
	}
	return a.reportComparison(results, outputCfg, out)
}

// reportQuiet prints just the fastest valid value, for scripts.
func (a *Application) reportQuiet(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	best := findBestResult(results)
	if best == nil {
		return apperrors.HandleCalculationError(firstFailure(results), 0, a.ErrWriter, ui.Palette{})
	}

	fmt.Fprintln(out, cli.FormatQuietResult(best.Result, outputCfg.HexOutput))
	if err := a.saveResultIfNeeded(best, outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) reportComparison(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)

	if best := findBestResult(results); best != nil && exitCode == apperrors.ExitSuccess {
		a.displayHexIfNeeded(best, outputCfg, out)
		if err := a.saveResultIfNeeded(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if outputCfg.OutputFile != "" {
			th := ui.GetCurrentTheme()
			fmt.Fprintf(out, "\n%s %s\n", th.Success("Result saved to:"), th.Secondary("%s", outputCfg.OutputFile))
		}
	}
	return exitCode
}

// IsHelpError reports whether err means --help was requested, so main
// can exit successfully after the usage text.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// findBestResult returns the fastest successful result, or nil.
func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var best *orchestration.CalculationResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

func firstFailure(results []orchestration.CalculationResult) error {
	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}
	return errors.New("no results")
}

func (a *Application) saveResultIfNeeded(res *orchestration.CalculationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, a.Config.N, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

func (a *Application) displayHexIfNeeded(res *orchestration.CalculationResult, cfg cli.OutputConfig, out io.Writer) {
	if !cfg.HexOutput {
		return
	}
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s\n", th.Bold("Hexadecimal format:"))
	hexStr := res.Result.Text(16)
	if len(hexStr) > cli.TruncationLimit && !cfg.Verbose {
		fmt.Fprintf(out, "F(%s) [hex] = %s\n",
			th.Info("%d", a.Config.N),
			th.Success("0x%s...%s", hexStr[:40], hexStr[len(hexStr)-40:]))
	} else {
		fmt.Fprintf(out, "F(%s) [hex] = %s\n",
			th.Info("%d", a.Config.N), th.Success("0x%s", hexStr))
	}
}

// printJSONResults writes the outcome of every algorithm as an array of
// the same DTOs the HTTP API serves.
func (a *Application) printJSONResults(results []orchestration.CalculationResult, out io.Writer) int {
	output := make([]models.ComputeResponse, len(results))
	for i, res := range results {
		resp := models.ComputeResponse{
			N:         a.Config.N,
			Algorithm: res.Name,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
		} else {
			resp.Result = res.Result
		}
		output[i] = resp
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
