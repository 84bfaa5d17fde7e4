package bigfft

import (
	"math/big"
	"sync"
	"testing"
)

func testPolValues(n int, seed big.Word) PolValues {
	v := PolValues{K: 1, N: n, Values: make([]fermat, 2)}
	for i := range v.Values {
		f := make(fermat, n+1)
		for j := 0; j < n; j++ {
			f[j] = seed + big.Word(i*n+j)
		}
		v.Values[i] = f
	}
	return v
}

func TestTransformCachePutGet(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 8, MinBitLen: 0, Enabled: true})
	data := nat{1, 2, 3}
	pv := testPolValues(2, 100)

	if _, found := tc.Get(data, pv.K, pv.N); found {
		t.Fatalf("hit on an empty cache")
	}
	tc.Put(data, pv)

	got, found := tc.Get(data, pv.K, pv.N)
	if !found {
		t.Fatalf("miss after Put")
	}
	if got.K != pv.K || got.N != pv.N || len(got.Values) != len(pv.Values) {
		t.Fatalf("cached shape mismatch: got (%d, %d, %d)", got.K, got.N, len(got.Values))
	}
	for i := range got.Values {
		if residue(got.Values[i]).Cmp(residue(pv.Values[i])) != 0 {
			t.Errorf("value %d differs from what was stored", i)
		}
	}

	// Mutating a returned copy must not corrupt the cache.
	for i := range got.Values[0] {
		got.Values[0][i] = ^big.Word(0)
	}
	again, found := tc.Get(data, pv.K, pv.N)
	if !found {
		t.Fatalf("entry vanished")
	}
	if residue(again.Values[0]).Cmp(residue(pv.Values[0])) != 0 {
		t.Errorf("cache returned shared storage")
	}
}

func TestTransformCacheKeyedByParams(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 8, MinBitLen: 0, Enabled: true})
	data := nat{7, 7, 7}
	pv := testPolValues(2, 5)
	tc.Put(data, pv)

	if _, found := tc.Get(data, pv.K+1, pv.N); found {
		t.Errorf("hit with a different transform order")
	}
	if _, found := tc.Get(data, pv.K, pv.N+1); found {
		t.Errorf("hit with a different value size")
	}
	if _, found := tc.Get(nat{7, 7}, pv.K, pv.N); found {
		t.Errorf("hit with different data")
	}
}

func TestTransformCacheLRUEviction(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 2, MinBitLen: 0, Enabled: true})
	pv := testPolValues(2, 9)
	d1, d2, d3 := nat{1}, nat{2}, nat{3}

	tc.Put(d1, pv)
	tc.Put(d2, pv)
	// Touch d1 so d2 becomes the eviction candidate.
	if _, found := tc.Get(d1, pv.K, pv.N); !found {
		t.Fatalf("d1 missing before eviction")
	}
	tc.Put(d3, pv)

	if _, found := tc.Get(d2, pv.K, pv.N); found {
		t.Errorf("least recently used entry survived")
	}
	if _, found := tc.Get(d1, pv.K, pv.N); !found {
		t.Errorf("recently used entry was evicted")
	}
	if _, found := tc.Get(d3, pv.K, pv.N); !found {
		t.Errorf("newest entry was evicted")
	}

	stats := tc.Stats()
	if stats.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", stats.Evictions)
	}
	if stats.Size != 2 {
		t.Errorf("size = %d, want 2", stats.Size)
	}
}

func TestTransformCacheDisabled(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 8, MinBitLen: 0, Enabled: false})
	data := nat{1, 2}
	tc.Put(data, testPolValues(2, 3))
	if _, found := tc.Get(data, 1, 2); found {
		t.Errorf("disabled cache stored an entry")
	}
	if stats := tc.Stats(); stats.Size != 0 {
		t.Errorf("disabled cache has size %d", stats.Size)
	}
}

func TestTransformCacheMinBitLen(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 8, MinBitLen: 10 * _W, Enabled: true})
	small := nat{1, 2}
	tc.Put(small, testPolValues(2, 3))
	if _, found := tc.Get(small, 1, 2); found {
		t.Errorf("cached an operand below the size floor")
	}

	large := make(nat, 10)
	for i := range large {
		large[i] = big.Word(i + 1)
	}
	pv := testPolValues(2, 3)
	tc.Put(large, pv)
	if _, found := tc.Get(large, pv.K, pv.N); !found {
		t.Errorf("operand at the size floor was not cached")
	}
}

func TestTransformCacheClear(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 8, MinBitLen: 0, Enabled: true})
	pv := testPolValues(2, 3)
	tc.Put(nat{1}, pv)
	tc.Put(nat{2}, pv)
	tc.Clear()
	if stats := tc.Stats(); stats.Size != 0 {
		t.Errorf("size %d after Clear", stats.Size)
	}
	if _, found := tc.Get(nat{1}, pv.K, pv.N); found {
		t.Errorf("entry survived Clear")
	}
}

func TestTransformCacheStats(t *testing.T) {
	t.Parallel()
	tc := NewTransformCache(TransformCacheConfig{MaxEntries: 4, MinBitLen: 0, Enabled: true})
	pv := testPolValues(2, 3)
	tc.Put(nat{1}, pv)
	tc.Get(nat{1}, pv.K, pv.N)
	tc.Get(nat{1}, pv.K, pv.N)
	tc.Get(nat{9}, pv.K, pv.N)

	stats := tc.Stats()
	if stats.Hits != 2 {
		t.Errorf("hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
	if want := 2.0 / 3.0; stats.HitRate < want-1e-9 || stats.HitRate > want+1e-9 {
		t.Errorf("hit rate = %f, want %f", stats.HitRate, want)
	}
}

// TestTransformCacheConcurrentReconfigure hammers the global cache with
// readers, writers and reconfiguration at once; the race detector is the
// assertion. Not parallel: it touches the global cache.
func TestTransformCacheConcurrentReconfigure(t *testing.T) {
	cache := GetTransformCache()
	cache.Clear()
	defer SetTransformCacheConfig(DefaultTransformCacheConfig())

	data := nat{4, 5, 6}
	pv := testPolValues(2, 31)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch w {
				case 0:
					SetTransformCacheConfig(TransformCacheConfig{
						MaxEntries: 8,
						MinBitLen:  (i % 4) * _W,
						Enabled:    i%2 == 0,
					})
				case 1:
					cache.Put(data, pv)
				default:
					cache.Get(data, pv.K, pv.N)
				}
			}
		}(w)
	}
	wg.Wait()
}

// TestCachedTransformReuse runs the full product pipeline twice on
// operands large enough for the global cache and checks both the result
// and the hit counters. Not parallel: it touches the global cache.
func TestCachedTransformReuse(t *testing.T) {
	if testing.Short() {
		t.Skip("large operands in short mode")
	}
	cache := GetTransformCache()
	cache.Clear()

	minWords := DefaultTransformCacheConfig().MinBitLen/_W + 200
	x := randomInt(t, uint(minWords*_W))
	y := randomInt(t, uint(minWords*_W))
	want := new(big.Int).Mul(x, y)

	before := cache.Stats()
	first, err := fftmulTo(nil, x.Bits(), y.Bits())
	if err != nil {
		t.Fatalf("fftmulTo: %v", err)
	}
	if got := new(big.Int).SetBits(first); got.Cmp(want) != 0 {
		t.Fatalf("first product mismatch")
	}

	second, err := fftmulTo(nil, x.Bits(), y.Bits())
	if err != nil {
		t.Fatalf("fftmulTo: %v", err)
	}
	if got := new(big.Int).SetBits(second); got.Cmp(want) != 0 {
		t.Fatalf("second product mismatch")
	}

	after := cache.Stats()
	if after.Hits < before.Hits+2 {
		t.Errorf("cached transforms were not reused: hits %d -> %d", before.Hits, after.Hits)
	}

	// Squaring the same operand stays correct whether or not its
	// transform is already cached.
	sq, err := fftsqrTo(nil, x.Bits())
	if err != nil {
		t.Fatalf("fftsqrTo: %v", err)
	}
	if wantSq := new(big.Int).Mul(x, x); new(big.Int).SetBits(sq).Cmp(wantSq) != 0 {
		t.Fatalf("square mismatch")
	}
}
