package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatETA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour, "1h"},
		{time.Hour + 15*time.Minute, "1h15m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()

	got := FormatProgressBarWithETA(0.5, 30*time.Second, 10)
	if !strings.Contains(got, "50.00%") {
		t.Errorf("missing percentage: %q", got)
	}
	if !strings.Contains(got, "ETA: 30s") {
		t.Errorf("missing ETA: %q", got)
	}
	if !strings.Contains(got, "█████░░░░░") {
		t.Errorf("missing bar: %q", got)
	}
}

func TestProgressWithETANoEstimateAtStart(t *testing.T) {
	t.Parallel()

	p := NewProgressWithETA(1)
	_, eta := p.UpdateWithETA(0, 0.0005)
	if eta != 0 {
		t.Errorf("ETA should be unknown with no progress, got %v", eta)
	}
	if p.GetETA() != 0 {
		t.Errorf("GetETA should be 0 before any rate is known")
	}
}

func TestProgressWithETAProducesEstimate(t *testing.T) {
	t.Parallel()

	p := NewProgressWithETA(1)
	// Backdate the start so the warm-up window has passed.
	p.startTime = time.Now().Add(-time.Second)
	p.lastUpdate = time.Now().Add(-200 * time.Millisecond)
	p.lastProgress = 0.10

	progress, eta := p.UpdateWithETA(0, 0.20)
	if progress != 0.20 {
		t.Errorf("progress = %v, want 0.20", progress)
	}
	if eta <= 0 {
		t.Errorf("expected a positive ETA, got %v", eta)
	}
	if eta > 24*time.Hour {
		t.Errorf("ETA should be capped at 24h, got %v", eta)
	}
}

func TestProgressWithETAZeroWhenComplete(t *testing.T) {
	t.Parallel()

	p := NewProgressWithETA(1)
	p.startTime = time.Now().Add(-time.Second)
	p.progressRate = 0.5
	p.Update(0, 1.0)
	if eta := p.GetETA(); eta != 0 {
		t.Errorf("completed progress should yield 0 ETA, got %v", eta)
	}
}
