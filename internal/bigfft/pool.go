package bigfft

import (
	"math/big"
	"sync"
	"sync/atomic"
)

// A classPool serves slices from power-of-four size classes, one
// sync.Pool per class. Requests above the largest class fall through to
// the allocator and are never retained, which bounds what the pools can
// pin long-term.
type classPool[E any] struct {
	sizes []int
	pools []sync.Pool
}

func newClassPool[E any](sizes ...int) *classPool[E] {
	p := &classPool[E]{sizes: sizes, pools: make([]sync.Pool, len(sizes))}
	for i, n := range sizes {
		n := n
		p.pools[i].New = func() any { return make([]E, n) }
	}
	return p
}

// index returns the smallest class covering size, or -1 when size is
// too large to pool.
func (p *classPool[E]) index(size int) int {
	for i, s := range p.sizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// acquire returns a zeroed slice of exactly size elements.
func (p *classPool[E]) acquire(size int) []E {
	idx := p.index(size)
	if idx < 0 {
		return make([]E, size)
	}
	s := p.pools[idx].Get().([]E)
	clear(s)
	return s[:size]
}

// release returns s to its class. Slices whose capacity matches no
// class were direct allocations and are left to the GC.
func (p *classPool[E]) release(s []E) {
	if s == nil {
		return
	}
	c := cap(s)
	if idx := p.index(c); idx >= 0 && p.sizes[idx] == c {
		p.pools[idx].Put(s[:c])
	}
}

// put seeds count fresh slices into the class covering size.
func (p *classPool[E]) put(size, count int) {
	idx := p.index(size)
	if idx < 0 {
		return
	}
	for i := 0; i < count; i++ {
		p.pools[idx].Put(make([]E, p.sizes[idx]))
	}
}

// The classes extend far enough for indices beyond 10^7: word buffers
// to 16M words (128MB on 64-bit), Fermat residues to 2M words.
var (
	wordPool        = newClassPool[big.Word](64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216)
	fermatPool      = newClassPool[big.Word](32, 128, 512, 2048, 8192, 32768, 131072, 524288, 2097152)
	fermatSlicePool = newClassPool[fermat](8, 32, 128, 512, 2048, 8192, 32768)
)

func acquireWordSlice(size int) []big.Word { return wordPool.acquire(size) }
func releaseWordSlice(s []big.Word)        { wordPool.release(s) }

func acquireFermat(size int) fermat { return fermat(fermatPool.acquire(size)) }
func releaseFermat(f fermat)        { fermatPool.release(f) }

func acquireFermatSlice(size int) []fermat { return fermatSlicePool.acquire(size) }
func releaseFermatSlice(s []fermat)        { fermatSlicePool.release(s) }

// memoryEstimate holds the per-structure buffer sizes expected while
// computing F(n), used only to seed the pools.
type memoryEstimate struct {
	wordSlice   int
	fermatWords int
	vectorLen   int
}

// estimateMemoryNeeds sizes the pool classes for F(n). F(n) has about
// n*log2(φ) ≈ 0.69424·n bits; the transform works on buffers a small
// factor larger than the operands.
func estimateMemoryNeeds(n uint64) memoryEstimate {
	bitLen := uint64(float64(n) * 0.69424)
	wordLen := int((bitLen + uint64(_W) - 1) / uint64(_W))

	est := memoryEstimate{
		wordSlice:   2 * wordLen,
		fermatWords: 2048,
		vectorLen:   2048,
	}
	switch {
	case wordLen > 1_000_000:
		est.fermatWords = 2097152
		est.vectorLen = 32768
	case wordLen > 100_000:
		est.fermatWords = 524288
		est.vectorLen = 8192
	case wordLen > 10_000:
		est.fermatWords = 131072
	}
	return est
}

// PreWarmPools seeds the pools with buffers sized for computing F(n),
// so the first transform of a large computation does not pay the
// allocation cost. The buffer count scales with n.
func PreWarmPools(n uint64) {
	est := estimateMemoryNeeds(n)

	count := 2
	switch {
	case n >= 10_000_000:
		count = 6
	case n >= 1_000_000:
		count = 5
	case n >= 100_000:
		count = 4
	}

	wordPool.put(est.wordSlice, count)
	fermatPool.put(est.fermatWords, count)
	fermatSlicePool.put(est.vectorLen, count)
}

var poolsWarmed atomic.Bool

// EnsurePoolsWarmed runs PreWarmPools at most once per process. Safe
// for concurrent use; only the first caller pays.
func EnsurePoolsWarmed(maxN uint64) {
	if poolsWarmed.CompareAndSwap(false, true) {
		PreWarmPools(maxN)
	}
}
