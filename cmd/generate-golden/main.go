// Command generate-golden regenerates the golden Fibonacci values used
// by the engine's tests. Each value is computed by the fast-doubling
// engine and cross-checked against a naive math/big oracle before it is
// written, so a regression in the engine cannot silently poison the
// golden file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/agbru/fibengine/internal/fibonacci"
)

type goldenEntry struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
}

// targets mix small indices, the uint64 Fibonacci limit neighborhood
// (F(93) overflows uint64) and powers of two and ten up to 10,000.
var targets = []uint64{
	0, 1, 2, 3, 4, 5, 10, 20, 50, 92, 93, 94, 100,
	128, 256, 512, 1000, 1024,
	2000, 2048, 5000, 8192, 10000,
}

func main() {
	outputDir := flag.String("out", "internal/fibonacci/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := run(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	filename := filepath.Join(outputDir, "fibonacci_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	calc, err := fibonacci.NewDefaultFactory().Get("fast")
	if err != nil {
		return err
	}

	ctx := context.Background()
	data := make([]goldenEntry, 0, len(targets))

	fmt.Println("Generating golden data...")
	for _, n := range targets {
		res, err := calc.Calculate(ctx, nil, 0, n, fibonacci.Options{})
		if err != nil {
			return fmt.Errorf("F(%d): %w", n, err)
		}
		if oracle := fibOracle(n); res.Cmp(oracle) != 0 {
			return fmt.Errorf("F(%d): engine disagrees with the oracle", n)
		}
		data = append(data, goldenEntry{N: n, Result: res.String()})
		fmt.Printf("Generated F(%d)\n", n)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	fmt.Printf("Golden file written to %s\n", filename)
	return nil
}

// fibOracle is the independent reference: simple iterative addition.
func fibOracle(n uint64) *big.Int {
	if n == 0 {
		return big.NewInt(0)
	}
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint64(2); i <= n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return b
}
