package bigfft

import (
	"math/big"
	"sync"
)

// A BumpAllocator carves temporary buffers out of one contiguous region
// by advancing an offset, and releases everything in a single bulk
// reset. Transform temporaries are all freed together at the end of a
// multiplication, which is exactly the lifetime an arena wants:
// allocation is an add, release is free, and the buffers of one
// transform stay adjacent in memory.
//
// A BumpAllocator is not safe for concurrent use. Parallel transform
// branches fall back to the pools instead.
type BumpAllocator struct {
	buffer []big.Word
	offset int
}

var bumpAllocatorPool = sync.Pool{
	New: func() any { return &BumpAllocator{} },
}

// AcquireBumpAllocator returns an arena with at least capacity words,
// reusing a pooled region when one is large enough. Release with
// ReleaseBumpAllocator, normally via defer.
func AcquireBumpAllocator(capacity int) *BumpAllocator {
	ba := bumpAllocatorPool.Get().(*BumpAllocator)
	if cap(ba.buffer) < capacity {
		ba.buffer = make([]big.Word, capacity)
	} else {
		ba.buffer = ba.buffer[:capacity]
	}
	ba.offset = 0
	return ba
}

// ReleaseBumpAllocator resets the arena and returns it to the pool.
// Every slice carved from it becomes invalid.
func ReleaseBumpAllocator(ba *BumpAllocator) {
	if ba == nil {
		return
	}
	ba.offset = 0
	bumpAllocatorPool.Put(ba)
}

// Alloc returns a zeroed slice of n words. If the arena is exhausted
// the allocation falls through to make, so an undersized capacity
// estimate costs speed, not correctness.
func (ba *BumpAllocator) Alloc(n int) []big.Word {
	if ba.offset+n > len(ba.buffer) {
		return make([]big.Word, n)
	}
	s := ba.buffer[ba.offset : ba.offset+n]
	ba.offset += n
	clear(s)
	return s
}

// AllocFermat returns a zeroed residue buffer of n+1 words.
func (ba *BumpAllocator) AllocFermat(n int) fermat {
	return fermat(ba.Alloc(n + 1))
}

// AllocFermatSlice returns K residues of n+1 words over one contiguous
// backing buffer, which keeps a transform's coefficients adjacent.
func (ba *BumpAllocator) AllocFermatSlice(K, n int) ([]fermat, []big.Word) {
	bits := ba.Alloc(K * (n + 1))
	fermats := make([]fermat, K)
	for i := 0; i < K; i++ {
		fermats[i] = fermat(bits[i*(n+1) : (i+1)*(n+1)])
	}
	return fermats, bits
}

// Used reports how many words have been carved so far.
func (ba *BumpAllocator) Used() int { return ba.offset }

// Remaining reports how many words are left before Alloc falls through.
func (ba *BumpAllocator) Remaining() int { return len(ba.buffer) - ba.offset }

// Reset rewinds the arena. All previous allocations become invalid.
func (ba *BumpAllocator) Reset() { ba.offset = 0 }

// EstimateBumpCapacity sizes an arena for multiplying numbers of
// wordLen total words: two transforms of input temporaries plus the
// point-wise product buffer, with a 20% margin for the rounding in
// valueSize.
func EstimateBumpCapacity(wordLen int) int {
	if wordLen <= 0 {
		return 0
	}

	bits := wordLen * _W
	k := uint(0)
	for i, thresh := range fftSizeThreshold {
		if int64(bits) < thresh {
			k = uint(i)
			break
		}
	}
	if k == 0 {
		k = uint(len(fftSizeThreshold) - 1)
	}

	K := 1 << k
	n := wordLen/K + 1

	transformTemp := K * (n + 1)
	multiplyTemp := 8 * n
	return (2*transformTemp + multiplyTemp) * 12 / 10
}
