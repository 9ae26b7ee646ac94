// Package pool implements the size-bucketed allocation pool used by the
// column indexers. It consolidates three near-duplicate
// designs found in the original implementation (object_pool.rs,
// memory_pool.rs, work_context.rs — all the same BTreeMap-of-buckets
// idea with slightly different ownership wrappers) into one: see
// DESIGN.md for why only one survived.
//
// Go has no thread-local storage, so where the original pool is meant to
// be pulled from a single OS thread at a time, ObjectPool here is
// guarded by a mutex and safe to share across goroutines.
package pool

import (
	"sort"
	"sync"
)

// MinCapacity is the smallest requested capacity worth pooling. Below
// this, a fresh allocation is cheaper than the bookkeeping.
const MinCapacity = 64

// ObjectPool recycles []int buffers used as byte-offset index arrays by
// the column indexers in package colindex.
type ObjectPool struct {
	mu      sync.Mutex
	buckets map[int][][]int
	sizes   []int // ascending, kept in sync with the keys of buckets
}

// New returns an empty pool.
func New() *ObjectPool {
	return &ObjectPool{buckets: make(map[int][][]int)}
}

// Pull returns a zero-length slice with capacity at least
// requestedCapacity, reusing the smallest previously Released buffer
// that is big enough when one exists.
func (p *ObjectPool) Pull(requestedCapacity int) []int {
	if requestedCapacity < MinCapacity {
		return make([]int, 0, requestedCapacity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.sizes) == 0 {
		return make([]int, 0, requestedCapacity)
	}

	i := sort.SearchInts(p.sizes, requestedCapacity)
	for ; i < len(p.sizes); i++ {
		capacity := p.sizes[i]
		bucket := p.buckets[capacity]
		if len(bucket) == 0 {
			continue
		}
		v := bucket[len(bucket)-1]
		p.buckets[capacity] = bucket[:len(bucket)-1]
		return v[:0]
	}
	return make([]int, 0, requestedCapacity)
}

// release returns v to the pool for a future Pull of the same or a
// smaller requested capacity.
func (p *ObjectPool) release(v []int) {
	c := cap(v)
	if c < MinCapacity {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.buckets[c]; !ok {
		i := sort.SearchInts(p.sizes, c)
		p.sizes = append(p.sizes, 0)
		copy(p.sizes[i+1:], p.sizes[i:])
		p.sizes[i] = c
	}
	p.buckets[c] = append(p.buckets[c], v)
}

// Pooled is a pulled buffer plus the pool it came from. Go has no
// destructors, so unlike the original's RAII Pooled<T>, callers must call
// Release explicitly once they are done with the buffer — the column
// indexers do this when a line's WithUtf16 wrapper goes out of scope.
type Pooled struct {
	pool *ObjectPool
	buf  []int
}

// NewPooled pulls a buffer of at least requestedCapacity from p.
func (p *ObjectPool) NewPooled(requestedCapacity int) *Pooled {
	return &Pooled{pool: p, buf: p.Pull(requestedCapacity)}
}

// Append appends v to the buffer.
func (pd *Pooled) Append(v int) { pd.buf = append(pd.buf, v) }

// Get returns the value at index i, or false if i is out of range.
func (pd *Pooled) Get(i int) (int, bool) {
	if i < 0 || i >= len(pd.buf) {
		return 0, false
	}
	return pd.buf[i], true
}

// Len returns the number of elements appended so far.
func (pd *Pooled) Len() int { return len(pd.buf) }

// Release returns the buffer to its pool. Release is idempotent.
func (pd *Pooled) Release() {
	if pd.buf == nil {
		return
	}
	pd.pool.release(pd.buf)
	pd.buf = nil
}
