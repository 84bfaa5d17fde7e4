package bigfft

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"sync/atomic"
)

// The transform cache keeps forward-transform results keyed by operand
// content. Iterative algorithms multiply the same large value several
// times in one step; re-using its transform skips the dominant cost of
// those products.

// TransformCacheConfig controls the global transform cache.
type TransformCacheConfig struct {
	// MaxEntries bounds the cache; least recently used entries are
	// evicted first.
	MaxEntries int

	// MinBitLen is the smallest operand worth caching. Below it the
	// hashing overhead eats the savings.
	MinBitLen int

	// Enabled turns the cache on.
	Enabled bool
}

// DefaultTransformCacheConfig returns the production defaults.
func DefaultTransformCacheConfig() TransformCacheConfig {
	return TransformCacheConfig{
		MaxEntries: 128,
		MinBitLen:  100000,
		Enabled:    true,
	}
}

type cacheEntry struct {
	key    [32]byte
	values []fermat
	k      uint
	n      int
}

// A TransformCache is a thread-safe LRU of forward transforms.
type TransformCache struct {
	mu        sync.RWMutex
	config    TransformCacheConfig
	entries   map[[32]byte]*list.Element
	lru       *list.List
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewTransformCache builds an empty cache with the given config.
func NewTransformCache(config TransformCacheConfig) *TransformCache {
	return &TransformCache{
		config:  config,
		entries: make(map[[32]byte]*list.Element),
		lru:     list.New(),
	}
}

var (
	globalTransformCache *TransformCache
	transformCacheOnce   sync.Once
)

// GetTransformCache returns the process-wide transform cache.
func GetTransformCache() *TransformCache {
	transformCacheOnce.Do(func() {
		globalTransformCache = NewTransformCache(DefaultTransformCacheConfig())
	})
	return globalTransformCache
}

// SetTransformCacheConfig reconfigures the global cache. Disabling it
// drops all entries.
func SetTransformCacheConfig(config TransformCacheConfig) {
	cache := GetTransformCache()
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.config = config
	if !config.Enabled {
		cache.entries = make(map[[32]byte]*list.Element)
		cache.lru.Init()
	}
}

// snapshotConfig reads the config under the lock; Get and Put race with
// SetTransformCacheConfig otherwise.
func (tc *TransformCache) snapshotConfig() TransformCacheConfig {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.config
}

// computeKey hashes the operand words and transform parameters.
// SHA-256 keeps collisions out of the question for numbers this large.
func computeKey(data nat, k uint, n int) [32]byte {
	h := sha256.New()

	var params [16]byte
	binary.LittleEndian.PutUint64(params[0:8], uint64(k))
	binary.LittleEndian.PutUint64(params[8:16], uint64(n))
	h.Write(params[:])

	buf := make([]byte, 8)
	for _, word := range data {
		binary.LittleEndian.PutUint64(buf, uint64(word))
		h.Write(buf)
	}

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Get returns a copy of the cached transform of data, if present.
// Copying keeps the cached values immutable under concurrent readers.
func (tc *TransformCache) Get(data nat, k uint, n int) (PolValues, bool) {
	if cfg := tc.snapshotConfig(); !cfg.Enabled || len(data)*_W < cfg.MinBitLen {
		return PolValues{}, false
	}

	key := computeKey(data, k, n)

	tc.mu.RLock()
	elem, found := tc.entries[key]
	tc.mu.RUnlock()

	if !found {
		tc.misses.Add(1)
		return PolValues{}, false
	}

	tc.mu.Lock()
	tc.lru.MoveToFront(elem)
	tc.mu.Unlock()
	tc.hits.Add(1)

	entry := elem.Value.(*cacheEntry)
	values := make([]fermat, len(entry.values))
	for i, v := range entry.values {
		c := make(fermat, len(v))
		copy(c, v)
		values[i] = c
	}
	return PolValues{K: entry.k, N: entry.n, Values: values}, true
}

// Put stores a deep copy of pv under data's key, evicting from the LRU
// tail at capacity.
func (tc *TransformCache) Put(data nat, pv PolValues) {
	if cfg := tc.snapshotConfig(); !cfg.Enabled || len(data)*_W < cfg.MinBitLen {
		return
	}

	key := computeKey(data, pv.K, pv.N)

	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Re-checked under the write lock: a concurrent disable clears the
	// cache and must not be followed by an insert.
	if !tc.config.Enabled {
		return
	}
	if _, found := tc.entries[key]; found {
		return
	}

	for tc.lru.Len() >= tc.config.MaxEntries {
		oldest := tc.lru.Back()
		if oldest == nil {
			break
		}
		tc.lru.Remove(oldest)
		delete(tc.entries, oldest.Value.(*cacheEntry).key)
		tc.evictions.Add(1)
	}

	values := make([]fermat, len(pv.Values))
	for i, v := range pv.Values {
		c := make(fermat, len(v))
		copy(c, v)
		values[i] = c
	}

	tc.entries[key] = tc.lru.PushFront(&cacheEntry{
		key:    key,
		values: values,
		k:      pv.K,
		n:      pv.N,
	})
}

// CacheStats is a snapshot of cache effectiveness counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	HitRate   float64
}

// Stats returns current counters.
func (tc *TransformCache) Stats() CacheStats {
	tc.mu.RLock()
	size := tc.lru.Len()
	tc.mu.RUnlock()

	hits := tc.hits.Load()
	misses := tc.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Hits:      hits,
		Misses:    misses,
		Evictions: tc.evictions.Load(),
		Size:      size,
		HitRate:   hitRate,
	}
}

// Clear drops all entries and resets the counters.
func (tc *TransformCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.entries = make(map[[32]byte]*list.Element)
	tc.lru.Init()
	tc.hits.Store(0)
	tc.misses.Store(0)
	tc.evictions.Store(0)
}

// flattenPolyData concatenates p's coefficients for key computation.
func flattenPolyData(p *Poly) nat {
	totalLen := 0
	for _, a := range p.A {
		totalLen += len(a)
	}
	flat := make(nat, totalLen)
	offset := 0
	for _, a := range p.A {
		copy(flat[offset:], a)
		offset += len(a)
	}
	return flat
}

// TransformCached is Transform through the global cache.
func (p *Poly) TransformCached(n int) (PolValues, error) {
	return p.transformCached(n, nil)
}

// TransformCachedWithBump is TransformWithBump through the global
// cache.
func (p *Poly) TransformCachedWithBump(n int, ba *BumpAllocator) (PolValues, error) {
	return p.transformCached(n, ba)
}

func (p *Poly) transformCached(n int, ba *BumpAllocator) (PolValues, error) {
	cache := GetTransformCache()

	flat := flattenPolyData(p)
	if cached, found := cache.Get(flat, p.K, n); found {
		return cached, nil
	}

	var (
		pv  PolValues
		err error
	)
	if ba != nil {
		pv, err = p.TransformWithBump(n, ba)
	} else {
		pv, err = p.Transform(n)
	}
	if err != nil {
		return PolValues{}, err
	}
	cache.Put(flat, pv)
	return pv, nil
}

// MulCached multiplies p and q, reusing cached transforms of either
// operand.
func (p *Poly) MulCached(q *Poly) (Poly, error) {
	return p.mulCached(q, nil)
}

// MulCachedWithBump is MulCached with arena-backed temporaries.
func (p *Poly) MulCachedWithBump(q *Poly, ba *BumpAllocator) (Poly, error) {
	return p.mulCached(q, ba)
}

func (p *Poly) mulCached(q *Poly, ba *BumpAllocator) (Poly, error) {
	n := valueSize(p.K, p.M, 2)

	pv, err := p.transformCached(n, ba)
	if err != nil {
		return Poly{}, err
	}
	qv, err := q.transformCached(n, ba)
	if err != nil {
		return Poly{}, err
	}

	var rv PolValues
	if ba != nil {
		rv, err = pv.MulWithBump(&qv, ba)
	} else {
		rv, err = pv.Mul(&qv)
	}
	if err != nil {
		return Poly{}, err
	}

	var r Poly
	if ba != nil {
		r, err = rv.InvTransformWithBump(ba)
	} else {
		r, err = rv.InvTransform()
	}
	if err != nil {
		return Poly{}, err
	}
	r.M = p.M
	return r, nil
}

// SqrCached squares p, reusing a cached transform when available.
func (p *Poly) SqrCached() (Poly, error) {
	return p.sqrCached(nil)
}

// SqrCachedWithBump is SqrCached with arena-backed temporaries.
func (p *Poly) SqrCachedWithBump(ba *BumpAllocator) (Poly, error) {
	return p.sqrCached(ba)
}

func (p *Poly) sqrCached(ba *BumpAllocator) (Poly, error) {
	n := valueSize(p.K, p.M, 2)

	pv, err := p.transformCached(n, ba)
	if err != nil {
		return Poly{}, err
	}

	var rv PolValues
	if ba != nil {
		rv, err = pv.SqrWithBump(ba)
	} else {
		rv, err = pv.Sqr()
	}
	if err != nil {
		return Poly{}, err
	}

	var r Poly
	if ba != nil {
		r, err = rv.InvTransformWithBump(ba)
	} else {
		r, err = rv.InvTransform()
	}
	if err != nil {
		return Poly{}, err
	}
	r.M = p.M
	return r, nil
}
