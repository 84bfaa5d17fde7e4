package fibonacci

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// loadGoldenEntries reads the fixture produced by cmd/generate-golden.
func loadGoldenEntries(t *testing.T) []struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
} {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "fibonacci_golden.json"))
	if err != nil {
		t.Fatalf("golden file: %v", err)
	}
	var entries []struct {
		N      uint64 `json:"n"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("golden file is not valid JSON: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("golden file is empty")
	}
	return entries
}

func TestCalculateMatchesGoldenFile(t *testing.T) {
	t.Parallel()

	entries := loadGoldenEntries(t)

	for _, core := range allCores() {
		calc := NewCalculator(core)
		t.Run(core.Name(), func(t *testing.T) {
			t.Parallel()
			for _, e := range entries {
				got, err := calc.Calculate(context.Background(), nil, 0, e.N, Options{})
				if err != nil {
					t.Fatalf("Calculate(%d): %v", e.N, err)
				}
				if got.String() != e.Result {
					t.Errorf("F(%d) disagrees with the golden file", e.N)
				}
			}
		})
	}
}

// The fixture itself must stay consistent with the independent iterative
// reference; a bad regeneration shows up here before it hides a bug.
func TestGoldenFileAgreesWithReference(t *testing.T) {
	t.Parallel()

	for _, e := range loadGoldenEntries(t) {
		if want := fibReference(e.N); want.String() != e.Result {
			t.Errorf("golden F(%d) does not match the reference", e.N)
		}
	}
}
