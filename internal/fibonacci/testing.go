package fibonacci

import (
	"context"
	"math/big"
)

// MockCalculator is a canned Calculator for tests in this and dependent
// packages. It returns Result/Err, or defers to Fn when set.
type MockCalculator struct {
	Result *big.Int
	Err    error
	Fn     func(ctx context.Context, n uint64) (*big.Int, error)
}

func (m *MockCalculator) Name() string { return "mock" }

// Calculate returns the canned outcome, emitting a single completed
// progress update when a channel is supplied.
func (m *MockCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error) {
	if m.Fn != nil {
		return m.Fn(ctx, n)
	}
	if progressChan != nil {
		progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}
	}
	return m.Result, m.Err
}

// TestFactory is a fixed-content CalculatorFactory for dependent-package
// tests: the calculator set is supplied at construction and Register is
// a no-op.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory wraps the given calculators in a factory.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

func (f *TestFactory) Create(name string) (Calculator, error) {
	return f.Get(name)
}

func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return calc, nil
}

func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	return names
}

func (f *TestFactory) Register(name string, creator func() coreCalculator) error {
	return nil
}

func (f *TestFactory) GetAll() map[string]Calculator {
	result := make(map[string]Calculator, len(f.calculators))
	for k, v := range f.calculators {
		result[k] = v
	}
	return result
}

// UnknownCalculatorError reports a lookup of an unregistered name.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return "unknown calculator: " + e.Name
}
