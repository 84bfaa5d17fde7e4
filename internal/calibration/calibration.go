package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/fibengine/internal/bigfft"
	"github.com/agbru/fibengine/internal/cli"
	"github.com/agbru/fibengine/internal/config"
	apperrors "github.com/agbru/fibengine/internal/errors"
	"github.com/agbru/fibengine/internal/fibonacci"
	"github.com/agbru/fibengine/internal/ui"
)

// Options controls profile handling around a calibration run.
type Options struct {
	// ProfilePath overrides the default profile location.
	ProfilePath string
	// Save persists the results after a successful run.
	Save bool
	// Load reuses a cached profile instead of benchmarking when one is
	// valid for this hardware.
	Load bool
}

type trialResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// RunCalibration benchmarks every adaptive parallel-threshold candidate
// with a full calculation each and reports the fastest. This is the
// exhaustive mode behind the --calibrate flag; results are saved to the
// profile for later runs.
func RunCalibration(ctx context.Context, out io.Writer, factory fibonacci.CalculatorFactory) int {
	return RunCalibrationWithOptions(ctx, out, factory, Options{Save: true})
}

// RunCalibrationWithOptions is RunCalibration with explicit profile
// handling.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, factory fibonacci.CalculatorFactory, opts Options) int {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "--- Calibration: finding the optimal parallelism threshold ---\n")
	fmt.Fprintf(out, "%s\n", th.Secondary("CPU features: %s", bigfft.DetectCPUFeatures()))

	if opts.Load {
		if profile, cached := LoadOrCreateProfile(opts.ProfilePath); cached {
			fmt.Fprintf(out, "%s\n", th.Success("Loaded calibration profile from %s", profilePathOrDefault(opts.ProfilePath)))
			fmt.Fprintf(out, "%s\n", profile.String())
			fmt.Fprintf(out, "\n%s %s\n", th.Success("Using cached calibration:"), th.Warning("--threshold %d", profile.ParallelThreshold))
			return apperrors.ExitSuccess
		}
	}

	calculator, err := factory.Get("fast")
	if err != nil {
		fmt.Fprintf(out, "%s\n", th.Error("calibration needs the 'fast' algorithm: %v", err))
		return apperrors.ExitErrorGeneric
	}

	candidates := ParallelCandidates()
	fmt.Fprintf(out, "%s\n", th.Info("Testing %d thresholds adapted to %d CPU cores", len(candidates), runtime.NumCPU()))

	results := make([]trialResult, 0, len(candidates))
	bestThreshold, bestDuration := 0, maxDuration
	calibrationStart := time.Now()

	var wg sync.WaitGroup
	progressChan := make(chan fibonacci.ProgressUpdate, 5)
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)

	for _, threshold := range candidates {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "\n%s\n", th.Warning("Calibration interrupted."))
			close(progressChan)
			wg.Wait()
			return apperrors.ExitErrorCanceled
		}

		start := time.Now()
		_, err := calculator.Calculate(ctx, progressChan, 0, fibonacci.CalibrationN, fibonacci.Options{ParallelThreshold: threshold})
		duration := time.Since(start)

		if err != nil {
			fmt.Fprintf(out, "%s\n", th.Error("trial at %d bits failed: %v", threshold, err))
			results = append(results, trialResult{threshold, 0, err})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				close(progressChan)
				wg.Wait()
				return apperrors.HandleCalculationError(err, duration, out, ui.Palette{})
			}
			continue
		}

		results = append(results, trialResult{threshold, duration, nil})
		if duration < bestDuration {
			bestDuration, bestThreshold = duration, threshold
		}
	}
	close(progressChan)
	wg.Wait()

	if bestDuration == maxDuration {
		fmt.Fprintf(out, "\n%s\n", th.Error("Calibration failed: no trial completed."))
		return apperrors.ExitErrorGeneric
	}

	printCalibrationResults(out, results, bestThreshold)
	fmt.Fprintf(out, "\n%s %s\n", th.Success("Recommendation for this machine:"), th.Warning("--threshold %d", bestThreshold))

	if opts.Save {
		profile := NewProfile()
		profile.ParallelThreshold = bestThreshold
		_, profile.FFTThreshold, profile.StrassenThreshold = EstimateOptimalThresholds()
		profile.CalibrationN = fibonacci.CalibrationN
		profile.CalibrationTime = time.Since(calibrationStart).String()

		if err := profile.Save(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%s\n", th.Warning("could not save profile: %v", err))
		} else {
			fmt.Fprintf(out, "%s\n", th.Success("Calibration profile saved to %s", profilePathOrDefault(opts.ProfilePath)))
		}
	}

	return apperrors.ExitSuccess
}

// AutoCalibrate refines the configured thresholds at startup. It tries,
// in order: a cached profile, the ~150ms micro-benchmark, and finally
// quick trial runs. The returned bool reports whether any source
// produced usable thresholds.
func AutoCalibrate(parentCtx context.Context, cfg config.AppConfig, out io.Writer, factory fibonacci.CalculatorFactory) (updated config.AppConfig, ok bool) {
	return AutoCalibrateWithProfile(parentCtx, cfg, out, factory, cfg.CalibrationProfile)
}

// AutoCalibrateWithProfile is AutoCalibrate with an explicit profile
// path.
func AutoCalibrateWithProfile(parentCtx context.Context, cfg config.AppConfig, out io.Writer, factory fibonacci.CalculatorFactory, profilePath string) (updated config.AppConfig, ok bool) {
	th := ui.GetCurrentTheme()

	fastCalc, err := factory.Get("fast")
	if err != nil {
		return cfg, false
	}

	if profile, cached := LoadOrCreateProfile(profilePath); cached {
		updated = cfg
		updated.Threshold, updated.FFTThreshold, updated.StrassenThreshold = ClampThresholds(
			profile.ParallelThreshold, profile.FFTThreshold, profile.StrassenThreshold)

		fmt.Fprintf(out, "%s: parallelism=%s bits, FFT=%s bits, Strassen=%s bits\n",
			th.Success("Using cached calibration"),
			th.Warning("%d", updated.Threshold),
			th.Warning("%d", updated.FFTThreshold),
			th.Warning("%d", updated.StrassenThreshold))
		return updated, true
	}

	if est, err := QuickEstimate(parentCtx); err == nil && est.Confidence >= 0.5 {
		updated = cfg
		updated.Threshold = est.ParallelThreshold
		updated.FFTThreshold = est.FFTThreshold
		// The micro-benchmark never probes matrix products, so the
		// configured Strassen threshold stands.

		fmt.Fprintf(out, "%s (%v): parallelism=%s bits, FFT=%s bits (confidence: %.0f%%)\n",
			th.Success("Quick calibration"),
			est.Elapsed.Round(time.Millisecond),
			th.Warning("%d", updated.Threshold),
			th.Warning("%d", updated.FFTThreshold),
			est.Confidence*100)

		saveProfileFromConfig(updated, profilePath, out)
		return updated, true
	}

	runner := newTrialRunner(parentCtx, cfg.Timeout)

	bestPar, bestParDur := runner.bestParallel(fastCalc, cfg.Threshold)
	bestFFT, bestFFTDur := runner.bestFFT(fastCalc, bestPar, cfg.FFTThreshold)

	bestStrassen, bestStrassenDur := cfg.StrassenThreshold, maxDuration
	if matCalc, err := factory.Get("matrix"); err == nil {
		bestStrassen, bestStrassenDur = runner.bestStrassen(matCalc, bestPar, cfg.StrassenThreshold)
	}

	updated, ok = applyTrialResults(cfg, bestPar, bestParDur, bestFFT, bestFFTDur, bestStrassen, bestStrassenDur)
	if !ok {
		return cfg, false
	}

	saveProfileFromConfig(updated, profilePath, out)
	printAutoCalibration(updated, out)
	return updated, true
}

// LoadCachedCalibration applies a cached profile to the configuration
// without running any benchmark.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (updated config.AppConfig, ok bool) {
	profile, cached := LoadOrCreateProfile(profilePath)
	if !cached {
		return cfg, false
	}

	updated = cfg
	updated.Threshold, updated.FFTThreshold, updated.StrassenThreshold = ClampThresholds(
		profile.ParallelThreshold, profile.FFTThreshold, profile.StrassenThreshold)
	return updated, true
}

// applyTrialResults folds the trial outcomes into the configuration,
// keeping each configured value when its trials all failed.
func applyTrialResults(cfg config.AppConfig, bestPar int, bestParDur time.Duration, bestFFT int, bestFFTDur time.Duration, bestStrassen int, bestStrassenDur time.Duration) (updated config.AppConfig, ok bool) {
	if bestParDur == maxDuration && bestFFTDur == maxDuration {
		return cfg, false
	}

	updated = cfg
	if bestParDur != maxDuration {
		updated.Threshold = bestPar
	}
	if bestFFTDur != maxDuration {
		updated.FFTThreshold = bestFFT
	}
	if bestStrassenDur != maxDuration {
		updated.StrassenThreshold = bestStrassen
	}
	return updated, true
}

func saveProfileFromConfig(cfg config.AppConfig, profilePath string, out io.Writer) {
	profile := NewProfile()
	profile.ParallelThreshold = cfg.Threshold
	profile.FFTThreshold = cfg.FFTThreshold
	profile.StrassenThreshold = cfg.StrassenThreshold
	profile.CalibrationN = fibonacci.CalibrationN

	if err := profile.Save(profilePath); err != nil {
		th := ui.GetCurrentTheme()
		fmt.Fprintf(out, "%s\n", th.Warning("could not save calibration profile: %v", err))
	}
}

func profilePathOrDefault(path string) string {
	if path == "" {
		return DefaultProfilePath()
	}
	return path
}
