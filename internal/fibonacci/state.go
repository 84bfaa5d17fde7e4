package fibonacci

import (
	"math/big"
	"sync"
)

// MaxPooledBitLen caps the size of a big.Int retained by the state pool.
// Oversized buffers are dropped for the GC so a single huge computation
// cannot pin its working set forever.
const MaxPooledBitLen = 4_000_000

func oversized(z *big.Int) bool {
	return z != nil && z.BitLen() > MaxPooledBitLen
}

// CalculationState owns the buffers of one doubling computation: the
// current pair (FK, FK1) and four scratch slots. Buffer roles rotate
// between iterations instead of copying values; T4 additionally holds the
// doubled-term operand 2*FK1-FK so that the three products of a step can
// write disjoint destinations in parallel.
type CalculationState struct {
	FK, FK1, T1, T2, T3, T4 *big.Int
}

// Reset seeds the state for a new computation: FK=F(0)=0, FK1=F(1)=1.
// Scratch slots keep their storage; their contents are dead.
func (s *CalculationState) Reset() {
	s.FK.SetInt64(0)
	s.FK1.SetInt64(1)
}

// rotateDoubled installs the freshly doubled pair after a step computed
// T3=F(2k) and T1=F(2k+1). The displaced buffers become scratch.
func (s *CalculationState) rotateDoubled() {
	s.FK, s.FK1, s.T2, s.T3, s.T1 = s.T3, s.T1, s.FK, s.FK1, s.T2
}

// rotateAdvanced applies the odd-bit addition step after the caller
// computed T4 = FK + FK1: the pair becomes (FK1, FK+FK1).
func (s *CalculationState) rotateAdvanced() {
	s.FK, s.FK1, s.T4 = s.FK1, s.T4, s.FK
}

// takeResult transfers ownership of the current buffer out of the state
// and replaces it with a fresh zero value, leaving the state valid for
// pool return.
func (s *CalculationState) takeResult() *big.Int {
	r := s.FK
	s.FK = new(big.Int)
	return r
}

var statePool = sync.Pool{
	New: func() any {
		return &CalculationState{
			FK:  new(big.Int),
			FK1: new(big.Int),
			T1:  new(big.Int),
			T2:  new(big.Int),
			T3:  new(big.Int),
			T4:  new(big.Int),
		}
	},
}

// AcquireState returns a reset state from the pool. Release with
// ReleaseState, preferably via defer.
func AcquireState() *CalculationState {
	s := statePool.Get().(*CalculationState)
	s.Reset()
	return s
}

// ReleaseState returns s to the pool, unless any buffer has grown past
// MaxPooledBitLen, in which case the whole state is dropped.
func ReleaseState(s *CalculationState) {
	if s == nil {
		return
	}
	if oversized(s.FK) || oversized(s.FK1) ||
		oversized(s.T1) || oversized(s.T2) ||
		oversized(s.T3) || oversized(s.T4) {
		return
	}
	statePool.Put(s)
}
