package colindex

import (
	"unicode/utf16"

	"github.com/gosourcetree/sourcetree/internal/pool"
	"github.com/gosourcetree/sourcetree/internal/rope"
)

// WithUtf16 answers column (UTF-16 code unit count) -> byte offset
// queries for a single line. Unlike WithIndices, the index is built
// lazily on the first Substring call and its backing buffer is drawn
// from an ObjectPool, mirroring the original implementation's
// OnceCell<Pooled<...>> field.
type WithUtf16 struct {
	pool    *pool.ObjectPool
	line    rope.SourceText
	built   bool
	indices *pool.Pooled
}

// NewWithUtf16 builds a WithUtf16 over line, drawing its lazily built
// index buffer from p.
func NewWithUtf16(p *pool.ObjectPool, line rope.SourceText) *WithUtf16 {
	return &WithUtf16{pool: p, line: line}
}

// Substring returns the bytes of the line between UTF-16 code unit
// indices [startIndex, endIndex), building the index on first use. An
// index beyond the line's UTF-16 length clamps to the line's byte
// length rather than panicking.
func (w *WithUtf16) Substring(startIndex, endIndex int) rope.SourceText {
	if endIndex <= startIndex {
		return rope.PlainText("")
	}
	w.ensureBuilt()

	strLen := w.line.Len()
	start := pooledIndexOr(w.indices, startIndex, strLen)
	end := pooledIndexOr(w.indices, endIndex, strLen)
	return w.line.ByteSlice(start, end)
}

func (w *WithUtf16) ensureBuilt() {
	if w.built {
		return
	}
	w.built = true
	w.indices = w.pool.NewPooled(w.line.Len())
	w.line.CharIndices(func(offset int, ch rune) bool {
		w.indices.Append(offset)
		// EncodeRune yields a surrogate only when ch needs a surrogate pair.
		if r1, _ := utf16.EncodeRune(ch); utf16.IsSurrogate(r1) {
			w.indices.Append(offset)
		}
		return true
	})
}

// Release returns the lazily built index buffer to its pool. Call it
// once all Substring queries for this line are done; it is a no-op if
// the index was never built.
func (w *WithUtf16) Release() {
	if w.indices != nil {
		w.indices.Release()
		w.indices = nil
		w.built = false
	}
}

func pooledIndexOr(p *pool.Pooled, i, fallback int) int {
	if v, ok := p.Get(i); ok {
		return v
	}
	return fallback
}
