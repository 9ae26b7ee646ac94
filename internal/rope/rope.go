// Package rope implements a zero-copy, multi-chunk string. It generalizes
// the "ordered chunks plus cumulative offset" structure of esbuild's
// internal/helpers.Joiner — which only ever runs forward to a single
// final byte slice — into a value that can be queried (byte-sliced,
// walked by char) while still being built, the way rspack-sources' Rust
// Rope (src/rope.rs) is used by the chunk streaming engine to hand out
// sub-ranges of generated text without copying.
package rope

import (
	"sort"
	"strings"
)

type chunk struct {
	text   string
	offset int
}

// Rope is an ordered sequence of borrowed string chunks presented as one
// logical string. The zero value is an empty Rope ready to use.
type Rope struct {
	chunks []chunk
}

// FromString returns a Rope containing a single chunk.
func FromString(s string) Rope {
	var r Rope
	r.Append(s)
	return r
}

// Append adds a chunk to the end of the rope in O(1) amortized time. Empty
// chunks are never stored.
func (r *Rope) Append(s string) {
	if s == "" {
		return
	}
	r.chunks = append(r.chunks, chunk{text: s, offset: r.Len()})
}

// Len returns the total byte length of the rope.
func (r *Rope) Len() int {
	if len(r.chunks) == 0 {
		return 0
	}
	last := r.chunks[len(r.chunks)-1]
	return last.offset + len(last.text)
}

// IsEmpty reports whether the rope has zero bytes.
func (r *Rope) IsEmpty() bool {
	return r.Len() == 0
}

// StartsWith tests only the first chunk. This is a deliberate optimization;
// callers must not rely on it across chunk boundaries.
func (r *Rope) StartsWith(s string) bool {
	if len(r.chunks) == 0 {
		return s == ""
	}
	return strings.HasPrefix(r.chunks[0].text, s)
}

// EndsWith tests only the last chunk, same caveat as StartsWith.
func (r *Rope) EndsWith(s string) bool {
	if len(r.chunks) == 0 {
		return s == ""
	}
	return strings.HasSuffix(r.chunks[len(r.chunks)-1].text, s)
}

// ByteSlice returns a new Rope sharing the interior chunks of r and
// trimming only the boundary chunks, covering the half-open byte range
// [start, end). It panics if start > end, start >= r.Len(), or
// end > r.Len() — a programmer error, not a typed Error.
func (r *Rope) ByteSlice(start, end int) Rope {
	length := r.Len()
	if start > end {
		panic("rope: byte_slice start > end")
	}
	if start >= length {
		panic("rope: byte_slice start out of bounds")
	}
	if end > length {
		panic("rope: byte_slice end out of bounds")
	}

	if start == end {
		return Rope{}
	}

	startIndex := sort.Search(len(r.chunks), func(i int) bool {
		next := r.Len()
		if i+1 < len(r.chunks) {
			next = r.chunks[i+1].offset
		}
		return next > start
	})
	endIndex := sort.Search(len(r.chunks), func(i int) bool {
		c := r.chunks[i]
		return c.offset+len(c.text) >= end
	})

	var out Rope
	for i := startIndex; i <= endIndex; i++ {
		c := r.chunks[i]
		chunkStart := 0
		chunkEnd := len(c.text)
		if i == startIndex {
			chunkStart = start - c.offset
		}
		if i == endIndex {
			chunkEnd = end - c.offset
		}
		out.Append(c.text[chunkStart:chunkEnd])
	}
	return out
}

// CharIndices yields each rune and its cumulative byte offset, flattened
// across chunk boundaries.
func (r *Rope) CharIndices(yield func(offset int, ch rune) bool) {
	for _, c := range r.chunks {
		for i, ch := range c.text {
			if !yield(c.offset+i, ch) {
				return
			}
		}
	}
}

// GetByte returns the byte at absolute offset i, or false if i is out of
// range, mirroring rspack-sources' get_byte, which returns an option and
// never panics.
func (r *Rope) GetByte(i int) (byte, bool) {
	if i < 0 || i >= r.Len() {
		return 0, false
	}
	idx := sort.Search(len(r.chunks), func(j int) bool {
		c := r.chunks[j]
		return c.offset+len(c.text) > i
	})
	c := r.chunks[idx]
	return c.text[i-c.offset], true
}

// ToBytes concatenates every chunk into a single byte slice.
func (r *Rope) ToBytes() []byte {
	out := make([]byte, 0, r.Len())
	for _, c := range r.chunks {
		out = append(out, c.text...)
	}
	return out
}

// String implements fmt.Stringer by concatenating every chunk.
func (r Rope) String() string {
	if len(r.chunks) == 1 {
		return r.chunks[0].text
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	for _, c := range r.chunks {
		sb.WriteString(c.text)
	}
	return sb.String()
}
