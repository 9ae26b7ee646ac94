package source

import (
	"github.com/zeebo/xxh3"

	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/index"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

// SourceMapSource is generated text accompanied by an externally
// supplied source map. When an inner source map is also
// supplied, every outer mapping's origin is remapped through it: the
// outer origin's (original_line, original_column) is looked up as if it
// were a generated position in the inner map, and a hit replaces the
// outer origin with the inner one. A miss keeps the outer origin.
type SourceMapSource struct {
	text                 string
	name                 string
	outer                *sourcemap.SourceMap
	originalContent      *string
	inner                *sourcemap.SourceMap
	removeOriginalSource bool
}

// NewSourceMapSource builds a SourceMapSource. originalContent, when
// non-nil, fills outer's sourcesContent for s.name if the outer map did
// not already supply content for it (grounded on concat_each_impl's
// "if get_source(...).is_none() { set_source_contents(...) }" pattern).
// inner, when non-nil, is used to remap outer origins as described above.
func NewSourceMapSource(text, name string, outer *sourcemap.SourceMap, originalContent *string, inner *sourcemap.SourceMap, removeOriginalSource bool) *SourceMapSource {
	return &SourceMapSource{
		text:                 text,
		name:                 name,
		outer:                outer,
		originalContent:      originalContent,
		inner:                inner,
		removeOriginalSource: removeOriginalSource,
	}
}

func (s *SourceMapSource) Text() string   { return s.text }
func (s *SourceMapSource) Buffer() []byte { return []byte(s.text) }
func (s *SourceMapSource) Size() int      { return len(s.text) }

func (s *SourceMapSource) Hash() uint64 {
	h := combineHash(0, xxh3.HashString(s.text))
	h = combineHash(h, xxh3.HashString(s.name))
	h = combineHash(h, xxh3.HashString(s.outer.Mappings))
	return h
}

func (s *SourceMapSource) Map(opts config.MapOptions) (*sourcemap.SourceMap, error) {
	return s.effectiveMap(), nil
}

func (s *SourceMapSource) StreamChunks(opts config.MapOptions, onChunk chunkstream.OnChunk, onSource chunkstream.OnSource, onName chunkstream.OnName) (chunkstream.GeneratedInfo, error) {
	return chunkstream.StreamOfSourceMap(s.text, s.effectiveMap(), opts, onChunk, onSource, onName)
}

// effectiveMap applies the remove-original-source, fill-missing-content
// and inner-map-remap rules and returns the single SourceMap that
// StreamChunks should actually walk.
func (s *SourceMapSource) effectiveMap() *sourcemap.SourceMap {
	sources := append([]string(nil), s.outer.Sources...)
	content := make([]*string, len(sources))
	copy(content, s.outer.SourcesContent)
	for len(content) < len(sources) {
		content = append(content, nil)
	}

	for i, src := range sources {
		if src == s.name {
			if content[i] == nil && s.originalContent != nil {
				content[i] = s.originalContent
			}
			if s.removeOriginalSource {
				content[i] = nil
			}
		}
	}

	names := append([]string(nil), s.outer.Names...)
	mappings := sourcemap.DecodeAll(s.outer.Mappings)

	if s.inner != nil {
		sourceIndexByName := map[string]int{}
		for i, n := range sources {
			sourceIndexByName[n] = i
		}
		nameIndexByName := map[string]int{}
		for i, n := range names {
			nameIndexByName[n] = i
		}

		for i, m := range mappings {
			if m.Original == nil {
				continue
			}
			innerMatch := s.inner.Find(m.Original.OriginalLine, m.Original.OriginalColumn)
			if innerMatch == nil || innerMatch.Original == nil {
				continue
			}

			innerSourceName := ""
			if innerMatch.Original.SourceIndex < len(s.inner.Sources) {
				innerSourceName = s.inner.Sources[innerMatch.Original.SourceIndex]
			}
			idx, ok := sourceIndexByName[innerSourceName]
			if !ok {
				idx = len(sources)
				sources = append(sources, innerSourceName)
				var c *string
				if innerMatch.Original.SourceIndex < len(s.inner.SourcesContent) {
					c = s.inner.SourcesContent[innerMatch.Original.SourceIndex]
				}
				content = append(content, c)
				sourceIndexByName[innerSourceName] = idx
			}

			newOrigin := &sourcemap.Origin{
				SourceIndex:    idx,
				OriginalLine:   innerMatch.Original.OriginalLine,
				OriginalColumn: innerMatch.Original.OriginalColumn,
			}
			if innerMatch.Original.NameIndex.IsValid() {
				ni := int(innerMatch.Original.NameIndex.GetIndex())
				innerName := ""
				if ni < len(s.inner.Names) {
					innerName = s.inner.Names[ni]
				}
				nidx, ok := nameIndexByName[innerName]
				if !ok {
					nidx = len(names)
					names = append(names, innerName)
					nameIndexByName[innerName] = nidx
				}
				newOrigin.NameIndex = index.Make32(uint32(nidx))
			}
			mappings[i].Original = newOrigin
		}
	}

	return &sourcemap.SourceMap{
		Version:        3,
		Sources:        sources,
		SourcesContent: content,
		Names:          names,
		Mappings:       sourcemap.Encode(mappings),
	}
}

var _ Source = (*SourceMapSource)(nil)
