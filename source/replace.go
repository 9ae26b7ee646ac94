package source

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
	"github.com/gosourcetree/sourcetree/internal/srcerr"
)

// Replacement is a single byte-range edit against a child source's
// Text(). Start and End are byte offsets into the child's Text();
// End is exclusive. A zero-length replacement (Start == End) is a pure
// insertion. Name is attached to the replacement for API completeness
// but, like the original "implementation-free beyond its invariants"
// section this type serves, is not threaded into a new name_index: the
// mapping emitted for replaced text keeps the name (if any) already
// carried by the child's origin at that point.
type Replacement struct {
	Start, End int
	Content    string
	Name       *string
}

// ReplaceSource layers disjoint byte-range edits over a child source.
// Replacements are kept sorted by Start; constructing one
// that overlaps an existing replacement is an error.
type ReplaceSource struct {
	child        Source
	replacements []Replacement
}

// NewReplaceSource wraps child with no replacements yet applied.
func NewReplaceSource(child Source) *ReplaceSource {
	return &ReplaceSource{child: child}
}

// Replace inserts a new edit, preserving sort order. It returns a
// KindReplacement error if the new range overlaps an existing one.
func (s *ReplaceSource) Replace(start, end int, content string, name *string) error {
	if end < start {
		return srcerr.New(srcerr.KindReplacement, "end before start")
	}
	idx := sort.Search(len(s.replacements), func(i int) bool { return s.replacements[i].Start >= start })
	if idx > 0 && s.replacements[idx-1].End > start {
		return srcerr.New(srcerr.KindReplacement, "overlaps a preceding replacement")
	}
	if idx < len(s.replacements) && s.replacements[idx].Start < end {
		return srcerr.New(srcerr.KindReplacement, "overlaps a following replacement")
	}
	s.replacements = append(s.replacements, Replacement{})
	copy(s.replacements[idx+1:], s.replacements[idx:])
	s.replacements[idx] = Replacement{Start: start, End: end, Content: content, Name: name}
	return nil
}

// Insert is Replace with start == end: a pure insertion at a point.
func (s *ReplaceSource) Insert(at int, content string, name *string) error {
	return s.Replace(at, at, content, name)
}

// Text applies every replacement, in ascending order, against the
// child's Text(): exactly a naive string-replace pass.
func (s *ReplaceSource) Text() string {
	childText := s.child.Text()
	var b strings.Builder
	pos := 0
	for _, r := range s.replacements {
		b.WriteString(childText[pos:r.Start])
		b.WriteString(r.Content)
		pos = r.End
	}
	b.WriteString(childText[pos:])
	return b.String()
}

func (s *ReplaceSource) Buffer() []byte { return []byte(s.Text()) }
func (s *ReplaceSource) Size() int      { return len(s.Text()) }

func (s *ReplaceSource) Hash() uint64 {
	h := combineHash(0, s.child.Hash())
	for _, r := range s.replacements {
		h = combineHash(h, uint64(r.Start)<<32|uint64(uint32(r.End)))
		h = combineHash(h, xxh3.HashString(r.Content))
		if r.Name != nil {
			h = combineHash(h, xxh3.HashString(*r.Name))
		}
	}
	return h
}

func (s *ReplaceSource) Map(opts config.MapOptions) (*sourcemap.SourceMap, error) {
	return mapFromStream(s, opts)
}

// pendingReplacement tracks a replacement whose original byte range
// spans past the end of the chunk it started in: the chunks belonging
// to it carry no output (its content was already emitted once, at the
// chunk where it started), and consumed totals accumulate across
// however many further child chunks it takes to reach rep.End.
type pendingReplacement struct {
	rep              Replacement
	consumedUtf16    int
	consumedNewlines int
}

// originAt returns the origin for a sub-position within a chunk whose
// mapping is m, advancing OriginalColumn by the UTF-16 length of the
// chunk's text consumed before that position. Returns nil if the chunk
// carries no origin at all.
func originAt(m sourcemap.Mapping, text string, byteOffset int) *sourcemap.Origin {
	if m.Original == nil {
		return nil
	}
	origin := *m.Original
	origin.OriginalColumn += chunkstream.Utf16Len(text[:byteOffset])
	return &origin
}

// StreamChunks replays the child's stream, splitting each chunk at any
// replacement boundary that falls inside it. Passed-through
// text keeps the child's origin, shifted by whatever column/line drift
// prior replacements on the same generated line have introduced. A
// replacement's own chunk carries the child's origin at its start
// column, advanced by the consumed prefix within the current chunk.
func (s *ReplaceSource) StreamChunks(opts config.MapOptions, onChunk chunkstream.OnChunk, onSource chunkstream.OnSource, onName chunkstream.OnName) (chunkstream.GeneratedInfo, error) {
	byteCursor := 0
	replIdx := 0
	lineDelta := 0
	colDelta := 0
	lastOrigLine := -1
	var pending *pendingReplacement

	info, err := s.child.StreamChunks(opts, func(text string, m sourcemap.Mapping) error {
		defer func() { byteCursor += len(text) }()

		if lastOrigLine != m.GeneratedLine {
			colDelta = 0
			lastOrigLine = m.GeneratedLine
		}

		pos := 0
		for pos < len(text) {
			if pending != nil {
				remaining := pending.rep.End - (byteCursor + pos)
				available := len(text) - pos
				if remaining <= available {
					consumed := text[pos : pos+remaining]
					pending.consumedUtf16 += chunkstream.Utf16Len(consumed)
					pending.consumedNewlines += strings.Count(consumed, "\n")
					colDelta += chunkstream.Utf16Len(pending.rep.Content) - pending.consumedUtf16
					lineDelta += strings.Count(pending.rep.Content, "\n") - pending.consumedNewlines
					pos += remaining
					replIdx++
					pending = nil
					lastOrigLine = m.GeneratedLine
					continue
				}
				pending.consumedUtf16 += chunkstream.Utf16Len(text[pos:])
				pending.consumedNewlines += strings.Count(text[pos:], "\n")
				pos = len(text)
				continue
			}

			if replIdx >= len(s.replacements) {
				break
			}
			rep := s.replacements[replIdx]
			if rep.Start >= byteCursor+len(text) {
				break
			}

			relStart := rep.Start - byteCursor
			if relStart > pos {
				passthrough := text[pos:relStart]
				if err := onChunk(passthrough, sourcemap.Mapping{
					GeneratedLine:   m.GeneratedLine + lineDelta,
					GeneratedColumn: m.GeneratedColumn + chunkstream.Utf16Len(text[:pos]) + colDelta,
					Original:        originAt(m, text, pos),
				}); err != nil {
					return err
				}
			}

			if rep.Content != "" {
				if err := onChunk(rep.Content, sourcemap.Mapping{
					GeneratedLine:   m.GeneratedLine + lineDelta,
					GeneratedColumn: m.GeneratedColumn + chunkstream.Utf16Len(text[:relStart]) + colDelta,
					Original:        originAt(m, text, relStart),
				}); err != nil {
					return err
				}
			}

			pending = &pendingReplacement{rep: rep}
			pos = relStart
		}

		if pos < len(text) {
			if err := onChunk(text[pos:], sourcemap.Mapping{
				GeneratedLine:   m.GeneratedLine + lineDelta,
				GeneratedColumn: m.GeneratedColumn + chunkstream.Utf16Len(text[:pos]) + colDelta,
				Original:        originAt(m, text, pos),
			}); err != nil {
				return err
			}
		}
		return nil
	}, onSource, onName)
	if err != nil {
		return chunkstream.GeneratedInfo{}, err
	}

	finalLine := info.GeneratedLine + lineDelta
	finalCol := info.GeneratedColumn
	if info.GeneratedLine == lastOrigLine {
		finalCol += colDelta
	}
	return chunkstream.GeneratedInfo{GeneratedLine: finalLine, GeneratedColumn: finalCol}, nil
}

var _ Source = (*ReplaceSource)(nil)
