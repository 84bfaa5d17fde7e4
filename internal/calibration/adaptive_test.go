package calibration

import (
	"sort"
	"testing"
)

func TestParallelCandidatesStartSequential(t *testing.T) {
	t.Parallel()

	for name, candidates := range map[string][]int{
		"full":  ParallelCandidates(),
		"quick": QuickParallelCandidates(),
	} {
		if len(candidates) == 0 {
			t.Fatalf("%s candidate list is empty", name)
		}
		if candidates[0] != 0 {
			t.Errorf("%s candidates must start with the sequential baseline, got %d", name, candidates[0])
		}
		for _, c := range candidates {
			if c < 0 {
				t.Errorf("%s candidates contain negative threshold %d", name, c)
			}
		}
	}
}

func TestQuickCandidatesAreSubsets(t *testing.T) {
	t.Parallel()

	full := make(map[int]bool)
	for _, c := range FFTCandidates() {
		full[c] = true
	}
	for _, c := range QuickFFTCandidates() {
		if !full[c] {
			t.Errorf("quick FFT candidate %d not in the full set", c)
		}
	}
}

func TestEstimateOptimalThresholdsInBounds(t *testing.T) {
	t.Parallel()

	parallel, fft, strassen := EstimateOptimalThresholds()
	cp, cf, cs := ClampThresholds(parallel, fft, strassen)
	if cp != parallel || cf != fft || cs != strassen {
		t.Errorf("estimates out of bounds: parallel=%d fft=%d strassen=%d", parallel, fft, strassen)
	}
}

func TestClampThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                         string
		parallel, fft, strassen      int
		wantPar, wantFFT, wantStrass int
	}{
		{"in range", 4096, 500_000, 256, 4096, 500_000, 256},
		{"negatives to zero", -1, -5, -9, 0, 0, 0},
		{"over the caps", 100_000, 20_000_000, 50_000, 65_536, 10_000_000, 10_000},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, f, s := ClampThresholds(tc.parallel, tc.fft, tc.strassen)
			if p != tc.wantPar || f != tc.wantFFT || s != tc.wantStrass {
				t.Errorf("ClampThresholds(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tc.parallel, tc.fft, tc.strassen, p, f, s, tc.wantPar, tc.wantFFT, tc.wantStrass)
			}
		})
	}
}

func TestCandidateSetSort(t *testing.T) {
	t.Parallel()

	cs := CandidateSet{
		Parallel: []int{4096, 0, 1024},
		FFT:      []int{1_000_000, 0},
		Strassen: []int{512, 192},
	}
	cs.Sort()

	for name, list := range map[string][]int{
		"parallel": cs.Parallel,
		"fft":      cs.FFT,
		"strassen": cs.Strassen,
	} {
		if !sort.IntsAreSorted(list) {
			t.Errorf("%s candidates not sorted: %v", name, list)
		}
	}
}

func TestFullCandidateSetNonEmpty(t *testing.T) {
	t.Parallel()

	for name, cs := range map[string]CandidateSet{
		"full":  FullCandidateSet(),
		"quick": QuickCandidateSet(),
	} {
		if len(cs.Parallel) == 0 || len(cs.FFT) == 0 || len(cs.Strassen) == 0 {
			t.Errorf("%s candidate set has an empty list: %+v", name, cs)
		}
	}
}
