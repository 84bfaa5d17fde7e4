package cli

import (
	"bytes"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibengine/internal/fibonacci"
	"github.com/agbru/fibengine/internal/testutil"
	"github.com/agbru/fibengine/internal/ui"
)

func usePlainTheme(t *testing.T) {
	t.Helper()
	prev := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.PlainTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(prev) })
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{42 * time.Millisecond, "42ms"},
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"5", "5"},
		{"123", "123"},
		{"1234", "1,234"},
		{"1234567", "1,234,567"},
		{"-1234567", "-1,234,567"},
		{"1000000", "1,000,000"},
	}
	for _, tt := range tests {
		if got := formatNumberString(tt.in); got != tt.want {
			t.Errorf("formatNumberString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	if got := progressBar(0.5, 10); got != "█████░░░░░" {
		t.Errorf("half bar = %q", got)
	}
	if got := progressBar(-0.5, 4); got != "░░░░" {
		t.Errorf("negative progress should clamp to empty bar: %q", got)
	}
	if got := progressBar(1.5, 4); got != "████" {
		t.Errorf("overshoot should clamp to full bar: %q", got)
	}
}

func TestProgressStateAverage(t *testing.T) {
	t.Parallel()

	ps := NewProgressState(2)
	ps.Update(0, 0.5)
	ps.Update(1, 1.0)
	if avg := ps.CalculateAverage(); avg != 0.75 {
		t.Errorf("average = %v, want 0.75", avg)
	}

	// Out-of-range indices are ignored.
	ps.Update(5, 1.0)
	ps.Update(-1, 1.0)
	if avg := ps.CalculateAverage(); avg != 0.75 {
		t.Errorf("average after bad updates = %v, want 0.75", avg)
	}

	if avg := NewProgressState(0).CalculateAverage(); avg != 0 {
		t.Errorf("empty state average = %v, want 0", avg)
	}
}

type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() { f.mu.Lock(); f.started = true; f.mu.Unlock() }
func (f *fakeSpinner) Stop()  { f.mu.Lock(); f.stopped = true; f.mu.Unlock() }
func (f *fakeSpinner) UpdateSuffix(s string) {
	f.mu.Lock()
	f.suffixes = append(f.suffixes, s)
	f.mu.Unlock()
}

func TestDisplayProgressPrintsFinalLine(t *testing.T) {
	fake := &fakeSpinner{}
	prev := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return fake }
	t.Cleanup(func() { newSpinner = prev })

	var buf bytes.Buffer
	progressChan := make(chan fibonacci.ProgressUpdate, 4)
	progressChan <- fibonacci.ProgressUpdate{CalculatorIndex: 0, Value: 0.5}
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 1, &buf)
	wg.Wait()

	if !fake.started || !fake.stopped {
		t.Error("spinner should be started and stopped")
	}
	out := buf.String()
	if !strings.Contains(out, "100.00%") {
		t.Errorf("final line missing 100%%: %q", out)
	}
	if !strings.Contains(out, "Progress:") {
		t.Errorf("single-calculator label wrong: %q", out)
	}
}

func TestDisplayProgressDrainsWithoutCalculators(t *testing.T) {
	progressChan := make(chan fibonacci.ProgressUpdate, 2)
	progressChan <- fibonacci.ProgressUpdate{CalculatorIndex: 0, Value: 0.3}
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	var buf bytes.Buffer
	DisplayProgress(&wg, progressChan, 0, &buf)
	wg.Wait()

	if buf.Len() != 0 {
		t.Errorf("no calculators should produce no output: %q", buf.String())
	}
}

func TestDisplayResultSmallValue(t *testing.T) {
	usePlainTheme(t)

	var buf bytes.Buffer
	DisplayResult(big.NewInt(55), 10, time.Millisecond, false, false, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	if !strings.Contains(out, "Result binary size: 6 bits.") {
		t.Errorf("missing binary size: %q", out)
	}
	if !strings.Contains(out, "F(10) = 55") {
		t.Errorf("missing value line: %q", out)
	}
}

func TestDisplayResultTruncatesLargeValues(t *testing.T) {
	usePlainTheme(t)

	// A 150-digit number forces truncation.
	big150 := new(big.Int).Exp(big.NewInt(10), big.NewInt(149), nil)
	var buf bytes.Buffer
	DisplayResult(big150, 720, time.Second, false, false, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	if !strings.Contains(out, "(truncated)") {
		t.Errorf("large value should be truncated: %q", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("truncated value should show an ellipsis: %q", out)
	}
	if !strings.Contains(out, "-v") {
		t.Errorf("truncated output should hint at -v: %q", out)
	}
}

func TestDisplayResultVerbose(t *testing.T) {
	usePlainTheme(t)

	big150 := new(big.Int).Exp(big.NewInt(10), big.NewInt(149), nil)
	var buf bytes.Buffer
	DisplayResult(big150, 720, time.Second, true, false, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	if strings.Contains(out, "(truncated)") {
		t.Errorf("verbose output must not truncate: %q", out)
	}
	if !strings.Contains(out, "1,000,000") {
		t.Errorf("verbose output should contain the separated digits: %q", out)
	}
}

func TestDisplayResultDetails(t *testing.T) {
	usePlainTheme(t)

	var buf bytes.Buffer
	DisplayResult(big.NewInt(832040), 30, 5*time.Millisecond, false, true, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	if !strings.Contains(out, "Detailed result analysis") {
		t.Errorf("missing details header: %q", out)
	}
	if !strings.Contains(out, "Calculation time") || !strings.Contains(out, "5ms") {
		t.Errorf("missing calculation time: %q", out)
	}
	if !strings.Contains(out, "Number of digits") {
		t.Errorf("missing digit count: %q", out)
	}
}
