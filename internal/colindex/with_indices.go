// Package colindex implements two column indexers: WithIndices (Unicode
// scalar value columns) and WithUtf16 (UTF-16 code unit columns, for
// compatibility with the Mozilla "source-map" library's column convention
// — see esbuild's internal/sourcemap.LineOffsetTable, which documents the
// same convention). Both build their index on demand, on the first
// Substring call, from a single line of text and answer Substring
// queries against it.
package colindex

import "github.com/gosourcetree/sourcetree/internal/rope"

// WithIndices answers column (Unicode scalar value count) -> byte offset
// queries for a single line. The prefix array is built lazily on the
// first Substring call.
type WithIndices struct {
	line   rope.SourceText
	built  bool
	prefix []int
}

// NewWithIndices builds a WithIndices over line.
func NewWithIndices(line rope.SourceText) *WithIndices {
	return &WithIndices{line: line}
}

func (w *WithIndices) ensureBuilt() {
	if w.built {
		return
	}
	w.built = true
	w.prefix = make([]int, 0, w.line.Len())
	w.line.CharIndices(func(offset int, _ rune) bool {
		w.prefix = append(w.prefix, offset)
		return true
	})
}

// Substring returns the bytes of the line between character indices
// [startIndex, endIndex). An index beyond the line's character count
// clamps to the line's byte length rather than panicking, matching the
// original implementation's unwrap_or(str_len) behavior.
func (w *WithIndices) Substring(startIndex, endIndex int) rope.SourceText {
	if endIndex <= startIndex {
		return rope.PlainText("")
	}
	w.ensureBuilt()
	strLen := w.line.Len()
	start := indexOr(w.prefix, startIndex, strLen)
	end := indexOr(w.prefix, endIndex, strLen)
	return w.line.ByteSlice(start, end)
}

func indexOr(prefix []int, i, fallback int) int {
	if i < 0 || i >= len(prefix) {
		return fallback
	}
	return prefix[i]
}
