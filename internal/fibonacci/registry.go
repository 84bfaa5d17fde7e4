package fibonacci

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by name. A
// factory decouples algorithm selection (a CLI flag, a config key) from
// the concrete types.
type CalculatorFactory interface {
	// Create builds a fresh, uncached Calculator.
	Create(name string) (Calculator, error)

	// Get returns the cached Calculator for name, building it on first use.
	Get(name string) (Calculator, error)

	// List returns the registered names, sorted.
	List() []string

	// Register adds or replaces a calculator type.
	Register(name string, creator func() coreCalculator) error

	// GetAll returns every registered calculator, building missing ones.
	GetAll() map[string]Calculator
}

// DefaultFactory is a thread-safe CalculatorFactory with lazy instance
// caching.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory returns a factory with the built-in algorithms
// registered: "fast" (adaptive fast doubling), "matrix" (Q-matrix binary
// exponentiation) and "fft" (transform-only doubling).
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	_ = f.Register("fast", func() coreCalculator { return &FastDoubling{} })
	_ = f.Register("matrix", func() coreCalculator { return &MatrixExponentiation{} })
	_ = f.Register("fft", func() coreCalculator { return &FFTDoubling{} })
	return f
}

// Register adds or replaces a calculator type. Any cached instance under
// the same name is evicted so the next Get rebuilds it.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create builds a fresh Calculator without touching the cache.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown calculator: %s", name)
	}
	return NewCalculator(creator()), nil
}

// Get returns the cached instance for name, building it on first use.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	if calc, exists := f.calculators[name]; exists {
		f.mu.RUnlock()
		return calc, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, exists := f.calculators[name]; exists {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown calculator: %s", name)
	}
	calc := NewCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns the registered names in sorted order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll builds any missing instances and returns a copy of the cache.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, creator := range f.creators {
		if _, exists := f.calculators[name]; !exists {
			f.calculators[name] = NewCalculator(creator())
		}
	}
	result := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		result[name] = calc
	}
	return result
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

// MustGet is Get for initialization paths where a missing calculator is
// a programming error.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("fibonacci: required calculator not found: %s", name))
	}
	return calc
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory instance.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCalculator registers a calculator in the global factory; build
// tags use it to contribute optional backends.
func RegisterCalculator(name string, creator func() coreCalculator) error {
	return globalFactory.Register(name, creator)
}
