package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/agbru/fibengine/internal/config"
	"github.com/agbru/fibengine/internal/fibonacci"
)

func newService(calcs map[string]fibonacci.Calculator, maxN uint64) *CalculatorService {
	cfg := config.AppConfig{
		Threshold:         config.DefaultThreshold,
		FFTThreshold:      config.DefaultFFTThreshold,
		StrassenThreshold: config.DefaultStrassenThreshold,
	}
	return NewCalculatorService(fibonacci.NewTestFactory(calcs), cfg, maxN)
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		algoName  string
		n         uint64
		maxN      uint64
		calc      fibonacci.Calculator
		wantErr   error
		wantValue int64
	}{
		{
			name: "successful calculation", algoName: "fast", n: 10, maxN: 100,
			calc:      &fibonacci.MockCalculator{Result: big.NewInt(55)},
			wantValue: 55,
		},
		{
			name: "exceeds max n", algoName: "fast", n: 200, maxN: 100,
			wantErr: ErrMaxValueExceeded,
		},
		{
			name: "zero max n means unlimited", algoName: "fast", n: 1_000_000, maxN: 0,
			calc:      &fibonacci.MockCalculator{Result: big.NewInt(12345)},
			wantValue: 12345,
		},
		{
			name: "algorithm not found", algoName: "unknown", n: 10, maxN: 100,
			wantErr: &fibonacci.UnknownCalculatorError{Name: "unknown"},
		},
		{
			name: "calculation error", algoName: "fast", n: 10, maxN: 100,
			calc:    &fibonacci.MockCalculator{Err: errors.New("boom")},
			wantErr: errors.New("boom"),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			calcs := map[string]fibonacci.Calculator{}
			if tc.calc != nil {
				calcs[tc.algoName] = tc.calc
			}
			svc := newService(calcs, tc.maxN)

			result, err := svc.Calculate(context.Background(), tc.algoName, tc.n)
			if tc.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Int64() != tc.wantValue {
				t.Errorf("got %s, want %d", result, tc.wantValue)
			}
		})
	}
}

func TestCalculateMaxLimitBeforeLookup(t *testing.T) {
	t.Parallel()

	// The limit check must fire even for unregistered algorithms.
	svc := newService(nil, 10)
	if _, err := svc.Calculate(context.Background(), "nope", 11); !errors.Is(err, ErrMaxValueExceeded) {
		t.Errorf("got %v, want ErrMaxValueExceeded", err)
	}
}

func TestCalculateWithRealCalculator(t *testing.T) {
	t.Parallel()

	factory := fibonacci.NewDefaultFactory()
	svc := NewCalculatorService(factory, config.AppConfig{}, 0)

	result, err := svc.Calculate(context.Background(), "fast", 30)
	if err != nil {
		t.Fatal(err)
	}
	if result.Int64() != 832040 {
		t.Errorf("F(30) = %s, want 832040", result)
	}
}
