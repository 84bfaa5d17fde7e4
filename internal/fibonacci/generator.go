package fibonacci

import (
	"context"
	"math/big"
	"sync"
)

// SequenceGenerator streams consecutive Fibonacci values. Generators keep
// O(1) state and produce each term in O(digits) time, which beats the
// O(log n) calculators whenever consecutive values are wanted; Skip
// bridges to a Calculator for large jumps.
type SequenceGenerator interface {
	// Next advances the generator and returns the next value; the first
	// call returns F(0). The returned value is a private copy.
	Next(ctx context.Context) (*big.Int, error)

	// Current returns the value at the generator's position without
	// advancing, or nil before the first Next.
	Current() *big.Int

	// Index returns the position of the current value.
	Index() uint64

	// Reset rewinds to F(0).
	Reset()

	// Skip positions the generator at F(n) and returns it.
	Skip(ctx context.Context, n uint64) (*big.Int, error)
}

// skipJumpThreshold is the forward distance above which Skip delegates
// to a Calculator instead of iterating.
const skipJumpThreshold = 1000

// IterativeGenerator is the SequenceGenerator built on plain iterative
// addition, holding the pair (F(k), F(k+1)). Safe for concurrent use.
type IterativeGenerator struct {
	mu      sync.Mutex
	current *big.Int // F(index) once started
	next    *big.Int // F(index+1)
	index   uint64
	started bool

	// calculator serves large Skip jumps; lazily resolved from the
	// global factory when nil.
	calculator Calculator
}

// NewIterativeGenerator returns a generator positioned before F(0).
func NewIterativeGenerator() *IterativeGenerator {
	return &IterativeGenerator{
		current: big.NewInt(0),
		next:    big.NewInt(1),
	}
}

// NewIterativeGeneratorWithCalculator injects the Calculator used for
// large Skip jumps.
func NewIterativeGeneratorWithCalculator(calc Calculator) *IterativeGenerator {
	g := NewIterativeGenerator()
	g.calculator = calc
	return g
}

// Next advances the generator and returns the next value; the first call
// returns F(0).
func (g *IterativeGenerator) Next(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.advance()
	return new(big.Int).Set(g.current), nil
}

// advance moves the pair one position forward; callers hold the lock.
func (g *IterativeGenerator) advance() {
	if !g.started {
		g.started = true
		return
	}
	g.index++
	g.current, g.next = g.next, new(big.Int).Add(g.current, g.next)
}

// Current returns the value at the generator's position, or nil before
// the first Next.
func (g *IterativeGenerator) Current() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return nil
	}
	return new(big.Int).Set(g.current)
}

// Index returns the position of the current value.
func (g *IterativeGenerator) Index() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// Reset rewinds to F(0).
func (g *IterativeGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = big.NewInt(0)
	g.next = big.NewInt(1)
	g.index = 0
	g.started = false
}

// Skip positions the generator at F(n) and returns it. Short forward
// distances iterate; anything else delegates to the Calculator, which
// computes F(n) and F(n+1) to reseed the pair.
func (g *IterativeGenerator) Skip(ctx context.Context, n uint64) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if n == 0 {
		g.current = big.NewInt(0)
		g.next = big.NewInt(1)
		g.index = 0
		g.started = true
		return new(big.Int).Set(g.current), nil
	}

	if g.started && n >= g.index && n-g.index < skipJumpThreshold {
		for g.index < n {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			g.advance()
		}
		return new(big.Int).Set(g.current), nil
	}

	if g.calculator == nil {
		calc, err := GlobalFactory().Get("fast")
		if err != nil {
			return nil, err
		}
		g.calculator = calc
	}

	result, err := g.calculator.Calculate(ctx, nil, 0, n, Options{})
	if err != nil {
		return nil, err
	}
	nextResult, err := g.calculator.Calculate(ctx, nil, 0, n+1, Options{})
	if err != nil {
		return nil, err
	}

	g.current = new(big.Int).Set(result)
	g.next = nextResult
	g.index = n
	g.started = true
	return result, nil
}

var _ SequenceGenerator = (*IterativeGenerator)(nil)
