// Package cli renders the terminal experience: a live spinner with an
// aggregated progress bar while computations run, and the formatted
// presentation of results once they finish.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibengine/internal/fibonacci"
	"github.com/agbru/fibengine/internal/ui"
)

const (
	// TruncationLimit is the digit count beyond which a result is shown
	// truncated unless -v is given.
	TruncationLimit = 100
	// DisplayEdges is how many leading and trailing digits a truncated
	// result keeps.
	DisplayEdges = 25
	// ProgressRefreshRate drives both the spinner animation and the
	// progress line refresh.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the bar width in characters.
	ProgressBarWidth = 40
)

// FormatExecutionDuration renders short durations at a sensible unit:
// microseconds below a millisecond, milliseconds below a second.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts the terminal spinner so progress display can be
// tested without animating a real one.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// newSpinner is a hook for tests; the spinner interval matches the
// refresh rate so the two never fight over the line.
var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState aggregates the per-calculator progress values into the
// single average shown to the user.
type ProgressState struct {
	progresses     []float64
	numCalculators int
}

func NewProgressState(numCalculators int) *ProgressState {
	return &ProgressState{
		progresses:     make([]float64, numCalculators),
		numCalculators: numCalculators,
	}
}

// Update records the progress of one calculator; out-of-range indices
// are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress across all calculators.
func (ps *ProgressState) CalculateAverage() float64 {
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	if ps.numCalculators == 0 {
		return 0.0
	}
	return total / float64(ps.numCalculators)
}

func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// DisplayProgress runs in its own goroutine: it consumes progress
// updates, refreshes the spinner line on a ticker, and prints a final
// persistent 100% line when the channel closes.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	if numCalculators <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA(numCalculators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	label := "Progress"
	if numCalculators > 1 {
		label = "Avg progress"
	}

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				// Free the line before printing the persistent final state.
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}
				bar := progressBar(1.0, ProgressBarWidth)
				fmt.Fprintf(out, "%s: %6.2f%% [%s] ETA: %s\n", label, 100.0, bar, "< 1s")
				return
			}
			state.UpdateWithETA(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			avg := state.CalculateAverage()
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(avg, state.GetETA(), ProgressBarWidth)))
		}
	}
}

// DisplayResult prints the final value and, on request, a detail block.
// Results longer than TruncationLimit digits are elided unless verbose.
func DisplayResult(result *big.Int, n uint64, duration time.Duration, verbose, details bool, out io.Writer) {
	th := ui.GetCurrentTheme()
	bitLen := result.BitLen()
	fmt.Fprintf(out, "Result binary size: %s bits.\n",
		th.Secondary("%s", formatNumberString(fmt.Sprintf("%d", bitLen))))

	resultStr := result.String()
	numDigits := len(resultStr)

	if details {
		fmt.Fprintf(out, "\n%s\n", th.Bold("--- Detailed result analysis ---"))
		durationStr := FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Calculation time   : %s\n", th.Success("%s", durationStr))
		fmt.Fprintf(out, "Number of digits   : %s\n",
			th.Secondary("%s", formatNumberString(fmt.Sprintf("%d", numDigits))))
		if numDigits > 6 {
			f := new(big.Float).SetInt(result)
			fmt.Fprintf(out, "Scientific notation: %s\n", th.Secondary("%.6e", f))
		}
	}

	fmt.Fprintf(out, "\n%s\n", th.Bold("--- Calculated value ---"))
	switch {
	case verbose:
		fmt.Fprintf(out, "F(%s) =\n%s\n", th.Info("%d", n), th.Success("%s", formatNumberString(resultStr)))
	case numDigits > TruncationLimit:
		fmt.Fprintf(out, "F(%s) (truncated) = %s\n",
			th.Info("%d", n),
			th.Success("%s...%s", resultStr[:DisplayEdges], resultStr[numDigits-DisplayEdges:]))
		fmt.Fprintf(out, "(Tip: use the %s option to display the full value)\n", th.Warning("-v"))
	default:
		fmt.Fprintf(out, "F(%s) = %s\n", th.Info("%d", n), th.Success("%s", formatNumberString(resultStr)))
	}
}

// formatNumberString inserts comma thousand separators, keeping a
// leading minus sign intact.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	numSeparators := (n - 1) / 3
	var b strings.Builder
	b.Grow(len(prefix) + n + numSeparators)
	b.WriteString(prefix)

	firstGroupLen := n % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}
	b.WriteString(s[:firstGroupLen])

	for i := firstGroupLen; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
