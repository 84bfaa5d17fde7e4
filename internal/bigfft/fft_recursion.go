package bigfft

import (
	"fmt"
	"runtime"
	"sync"
)

// fftSemaphore bounds the goroutines spawned inside transform
// recursion to the number of CPUs, shared with the Karatsuba layer so
// the two cannot oversubscribe together.
var (
	fftSemaphore     chan struct{}
	fftSemaphoreOnce sync.Once
)

func getSemaphore() chan struct{} {
	fftSemaphoreOnce.Do(func() {
		fftSemaphore = make(chan struct{}, runtime.NumCPU())
	})
	return fftSemaphore
}

// ParallelFFTRecursionThreshold is the minimum sub-problem order
// (K = 2^size) worth forking; below it goroutine overhead dominates.
const ParallelFFTRecursionThreshold uint = 4

// MaxParallelFFTDepth caps how deep recursion keeps forking. Beyond it
// the sub-trees run sequentially.
const MaxParallelFFTDepth uint = 3

// fourierRecursive performs one level of the Cooley-Tukey split of a
// transform of order 2^size over vectors of n-word residues:
// recurse on the even- and odd-indexed halves, then merge with 2^(size-1)
// shift butterflies. The odd half may run on another goroutine when a
// semaphore slot is free; the spawned branch allocates its own
// temporaries from the pool since bump arenas are single-threaded.
func fourierRecursive(dst, src []fermat, backward bool, n int, k, size, depth uint, tmp, tmp2 fermat) error {
	idxShift := k - size
	ω2shift := (4 * n * _W) >> size
	if backward {
		ω2shift = -ω2shift
	}

	if len(src[0]) != n+1 || len(dst[0]) != n+1 {
		return fmt.Errorf("fourier: vector length mismatch (want %d words)", n+1)
	}

	switch size {
	case 0:
		copy(dst[0], src[0])
		return nil
	case 1:
		dst[0].Add(src[0], src[1<<idxShift])
		dst[1].Sub(src[0], src[1<<idxShift])
		return nil
	}

	dst1 := dst[:1<<(size-1)]
	dst2 := dst[1<<(size-1):]

	if size >= ParallelFFTRecursionThreshold && depth < MaxParallelFFTDepth {
		select {
		case getSemaphore() <- struct{}{}:
			var wg sync.WaitGroup
			var errAsync error
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-getSemaphore() }()
				t1, cleanup1 := GetPoolAllocator().AllocFermatTemp(n)
				t2, cleanup2 := GetPoolAllocator().AllocFermatTemp(n)
				defer cleanup1()
				defer cleanup2()
				errAsync = fourierRecursive(dst2, src[1<<idxShift:], backward, n, k, size-1, depth+1, t1, t2)
			}()
			errSync := fourierRecursive(dst1, src, backward, n, k, size-1, depth+1, tmp, tmp2)
			wg.Wait()
			if errAsync != nil {
				return errAsync
			}
			if errSync != nil {
				return errSync
			}
			goto reconstruct
		default:
			// No slot free, stay sequential.
		}
	}

	if err := fourierRecursive(dst1, src, backward, n, k, size-1, depth+1, tmp, tmp2); err != nil {
		return err
	}
	if err := fourierRecursive(dst2, src[1<<idxShift:], backward, n, k, size-1, depth+1, tmp, tmp2); err != nil {
		return err
	}

reconstruct:
	for i := range dst1 {
		tmp.ShiftHalf(dst2[i], i*ω2shift, tmp2)
		dst2[i].Sub(dst1[i], tmp)
		dst1[i].Add(dst1[i], tmp)
	}
	return nil
}
