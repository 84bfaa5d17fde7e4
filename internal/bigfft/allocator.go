package bigfft

import "math/big"

// A TempAllocator hands out the transform's temporary residue buffers.
// The two implementations trade differently: pools are safe from any
// goroutine, an arena is faster but single-threaded. The returned
// cleanup funcs release pool buffers and are no-ops for arenas, whose
// memory is reclaimed in bulk.
type TempAllocator interface {
	// AllocFermatTemp returns a zeroed n+1 word residue and its
	// cleanup func.
	AllocFermatTemp(n int) (fermat, func())

	// AllocFermatSlice returns K residues of n+1 words, the backing
	// word buffer, and a cleanup func.
	AllocFermatSlice(K, n int) ([]fermat, []big.Word, func())
}

// PoolAllocator serves temporaries from the size-classed pools.
type PoolAllocator struct{}

func (*PoolAllocator) AllocFermatTemp(n int) (fermat, func()) {
	f := acquireFermat(n + 1)
	return f, func() { releaseFermat(f) }
}

func (*PoolAllocator) AllocFermatSlice(K, n int) ([]fermat, []big.Word, func()) {
	bits := acquireWordSlice(K * (n + 1))
	fermats := acquireFermatSlice(K)
	for i := 0; i < K; i++ {
		fermats[i] = fermat(bits[i*(n+1) : (i+1)*(n+1)])
	}
	return fermats, bits, func() {
		releaseWordSlice(bits)
		releaseFermatSlice(fermats)
	}
}

// BumpAllocatorAdapter exposes a BumpAllocator through TempAllocator.
type BumpAllocatorAdapter struct {
	ba *BumpAllocator
}

func NewBumpAllocatorAdapter(ba *BumpAllocator) *BumpAllocatorAdapter {
	return &BumpAllocatorAdapter{ba: ba}
}

func (b *BumpAllocatorAdapter) AllocFermatTemp(n int) (fermat, func()) {
	return b.ba.AllocFermat(n), func() {}
}

func (b *BumpAllocatorAdapter) AllocFermatSlice(K, n int) ([]fermat, []big.Word, func()) {
	f, w := b.ba.AllocFermatSlice(K, n)
	return f, w, func() {}
}

var defaultPoolAllocator = &PoolAllocator{}

// GetPoolAllocator returns the shared pool-backed allocator.
func GetPoolAllocator() TempAllocator {
	return defaultPoolAllocator
}
