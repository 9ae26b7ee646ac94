// Package chunkstream implements the stream_chunks push-traversal
// protocol: every source hands its generated text to a caller as an
// ordered sequence of chunks, each tagged with at most one origin
// mapping, without ever materializing the full mapping list in the
// caller's hands. The default implementations here are grounded in
// esbuild's internal/sourcemap.ChunkBuilder (the incremental
// line/column bookkeeping) generalized to the push-callback shape of
// rspack-sources' core/src/source.rs stream_chunks trait.
package chunkstream

import (
	"strings"
	"unicode/utf16"

	"github.com/gosourcetree/sourcetree/internal/colindex"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/pool"
	"github.com/gosourcetree/sourcetree/internal/rope"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

// OnChunk is invoked once per generated-text chunk, in generated order.
type OnChunk func(text string, mapping sourcemap.Mapping) error

// OnSource is invoked at most once per source_index, before any OnChunk
// referencing that index.
type OnSource func(sourceIndex int, name string, content *string) error

// OnName is invoked at most once per name_index, before any OnChunk
// referencing a mapping with that name.
type OnName func(nameIndex int, name string) error

// GeneratedInfo is the generated-text cursor position after a
// stream_chunks call finishes: the line the cursor is now on (1-based)
// and its column (in UTF-16 code units, matching the mapping
// convention), so a caller concatenating further sources knows where
// its own coordinates begin.
type GeneratedInfo struct {
	GeneratedLine   int
	GeneratedColumn int
}

// Streamer is implemented by every source value.
type Streamer interface {
	StreamChunks(opts config.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) (GeneratedInfo, error)
}

// StreamOfRawSource implements stream_chunks for text with no source
// map: one chunk per line, generated_column always 0, no origin.
func StreamOfRawSource(text string, onChunk OnChunk) (GeneratedInfo, error) {
	line := 1
	col := 0
	for _, seg := range strings.SplitAfter(text, "\n") {
		if seg == "" {
			continue
		}
		if err := onChunk(seg, sourcemap.Mapping{GeneratedLine: line, GeneratedColumn: 0}); err != nil {
			return GeneratedInfo{}, err
		}
		if strings.HasSuffix(seg, "\n") {
			line++
			col = 0
		} else {
			col = utf16Len(seg)
		}
	}
	return GeneratedInfo{GeneratedLine: line, GeneratedColumn: col}, nil
}

// StreamOfSourceMap implements stream_chunks for text accompanied by a
// decoded source map: sources and names are announced up front, then
// each line's mapped segments are sliced out through a
// WithUtf16 column indexer and emitted as chunks, with unmapped
// prefixes synthesized as origin-less chunks.
func StreamOfSourceMap(text string, sm *sourcemap.SourceMap, opts config.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) (GeneratedInfo, error) {
	for i, name := range sm.Sources {
		var content *string
		if i < len(sm.SourcesContent) {
			content = sm.SourcesContent[i]
		}
		if err := onSource(i, name, content); err != nil {
			return GeneratedInfo{}, err
		}
	}
	for i, name := range sm.Names {
		if err := onName(i, name); err != nil {
			return GeneratedInfo{}, err
		}
	}

	byLine := make(map[int][]sourcemap.Mapping)
	all := sourcemap.DecodeAll(sm.Mappings)
	for _, m := range all {
		byLine[m.GeneratedLine] = append(byLine[m.GeneratedLine], m)
	}

	objPool := pool.New()
	line := 1
	col := 0

	for _, lineText := range strings.SplitAfter(text, "\n") {
		if lineText == "" {
			continue
		}

		lineMappings := byLine[line]
		if !opts.Columns && len(lineMappings) > 0 {
			m := lineMappings[0]
			m.GeneratedColumn = 0
			lineMappings = []sourcemap.Mapping{m}
		}

		if len(lineMappings) == 0 {
			if err := onChunk(lineText, sourcemap.Mapping{GeneratedLine: line, GeneratedColumn: 0}); err != nil {
				return GeneratedInfo{}, err
			}
		} else {
			w := colindex.NewWithUtf16(objPool, rope.PlainText(lineText))
			lineLenUtf16 := utf16Len(lineText)

			if first := lineMappings[0]; first.GeneratedColumn > 0 {
				prefix := w.Substring(0, first.GeneratedColumn)
				if err := onChunk(prefix.String(), sourcemap.Mapping{GeneratedLine: line, GeneratedColumn: 0}); err != nil {
					w.Release()
					return GeneratedInfo{}, err
				}
			}

			for i, m := range lineMappings {
				end := lineLenUtf16
				if i+1 < len(lineMappings) {
					end = lineMappings[i+1].GeneratedColumn
				}
				chunk := w.Substring(m.GeneratedColumn, end)
				if err := onChunk(chunk.String(), m); err != nil {
					w.Release()
					return GeneratedInfo{}, err
				}
			}
			w.Release()
		}

		if strings.HasSuffix(lineText, "\n") {
			line++
			col = 0
		} else {
			col = utf16Len(lineText)
		}
	}

	return GeneratedInfo{GeneratedLine: line, GeneratedColumn: col}, nil
}

// Utf16Len counts the UTF-16 code units s would occupy, matching the
// column convention inherited from the Mozilla "source-map" library.
// Exported because callers outside this package (ReplaceSource's chunk
// splitter) need the same convention when computing column deltas.
func Utf16Len(s string) int {
	n := 0
	for _, r := range s {
		// EncodeRune yields a surrogate only when r needs a surrogate pair.
		if r1, _ := utf16.EncodeRune(r); utf16.IsSurrogate(r1) {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func utf16Len(s string) int { return Utf16Len(s) }
