package source

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

// CachedSource memoizes an inner source's Text(), Buffer(), Size() and
// Map() results, matching cached_source.rs's full cache surface. A single
// singleflight.Group, keyed by "source", "buffer", "size" or
// mapCacheKey(opts) (a "map:"-prefixed key), guarantees concurrent first access to the
// same cache entry computes it exactly once.
type CachedSource struct {
	inner Source
	sf    singleflight.Group

	mu   sync.Mutex
	text *string
	buf  []byte
	size *int
	maps map[config.MapOptions]*sourcemap.SourceMap
}

// NewCachedSource wraps inner with memoization. inner is assumed
// immutable for the lifetime of the CachedSource.
func NewCachedSource(inner Source) *CachedSource {
	return &CachedSource{inner: inner, maps: map[config.MapOptions]*sourcemap.SourceMap{}}
}

// Original returns the wrapped source.
func (s *CachedSource) Original() Source { return s.inner }

func (s *CachedSource) Text() string {
	v, _, _ := s.sf.Do("source", func() (any, error) {
		s.mu.Lock()
		if s.text != nil {
			t := *s.text
			s.mu.Unlock()
			return t, nil
		}
		s.mu.Unlock()

		t := s.inner.Text()
		s.mu.Lock()
		s.text = &t
		s.mu.Unlock()
		return t, nil
	})
	return v.(string)
}

func (s *CachedSource) Buffer() []byte {
	v, _, _ := s.sf.Do("buffer", func() (any, error) {
		s.mu.Lock()
		if s.buf != nil {
			b := s.buf
			s.mu.Unlock()
			return b, nil
		}
		s.mu.Unlock()

		b := s.inner.Buffer()
		s.mu.Lock()
		s.buf = b
		s.mu.Unlock()
		return b, nil
	})
	return v.([]byte)
}

func (s *CachedSource) Size() int {
	v, _, _ := s.sf.Do("size", func() (any, error) {
		s.mu.Lock()
		if s.size != nil {
			n := *s.size
			s.mu.Unlock()
			return n, nil
		}
		s.mu.Unlock()

		n := s.inner.Size()
		s.mu.Lock()
		s.size = &n
		s.mu.Unlock()
		return n, nil
	})
	return v.(int)
}

func (s *CachedSource) Hash() uint64 { return s.inner.Hash() }

// mapCacheKey collapses MapOptions' two bools into a singleflight key;
// the actual cache lookup still happens against the comparable
// MapOptions value itself.
func mapCacheKey(opts config.MapOptions) string {
	n := 0
	if opts.Columns {
		n |= 1
	}
	if opts.FinalSource {
		n |= 2
	}
	return "map:" + strconv.Itoa(n)
}

func (s *CachedSource) Map(opts config.MapOptions) (*sourcemap.SourceMap, error) {
	v, err, _ := s.sf.Do(mapCacheKey(opts), func() (any, error) {
		s.mu.Lock()
		if m, ok := s.maps[opts]; ok {
			s.mu.Unlock()
			return m, nil
		}
		s.mu.Unlock()

		m, err := s.inner.Map(opts)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.maps[opts] = m
		s.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*sourcemap.SourceMap), nil
}

// StreamChunks rebuilds a stream from the cached Text()/Map() rather
// than delegating to inner.StreamChunks, so a second call pays only for
// the chunk split, not for re-deriving the inner source's own chunks
// (cached_source.rs does the same: it streams from its own cached
// source() and map(), never from the wrapped source directly).
func (s *CachedSource) StreamChunks(opts config.MapOptions, onChunk chunkstream.OnChunk, onSource chunkstream.OnSource, onName chunkstream.OnName) (chunkstream.GeneratedInfo, error) {
	text := s.Text()
	m, err := s.Map(opts)
	if err != nil {
		return chunkstream.GeneratedInfo{}, err
	}
	if m != nil {
		return chunkstream.StreamOfSourceMap(text, m, opts, onChunk, onSource, onName)
	}
	return chunkstream.StreamOfRawSource(text, onChunk)
}

var _ Source = (*CachedSource)(nil)
