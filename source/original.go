package source

import (
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

// OriginalSource is generated text that is also the original text: its
// Map is synthesized as an identity mapping, one entry per line (plus
// token-boundary entries when columns are requested).
type OriginalSource struct {
	text string
	name string
}

// NewOriginalSource wraps text as its own origin, attributed to name.
func NewOriginalSource(text, name string) *OriginalSource {
	return &OriginalSource{text: text, name: name}
}

func (s *OriginalSource) Text() string   { return s.text }
func (s *OriginalSource) Buffer() []byte { return []byte(s.text) }
func (s *OriginalSource) Size() int      { return len(s.text) }

func (s *OriginalSource) Hash() uint64 {
	return combineHash(xxh3.HashString(s.name), xxh3.HashString(s.text))
}

// Map builds an identity SourceMap: one mapping at the start of every
// line, plus — when opts.Columns is set — extra mappings at every ';',
// '{' and '}' token boundary. This mirrors the original implementation's
// OriginalSource::map heuristic verbatim: ';' and '}' close a token so
// the mapping lands just after them, '{' opens one so the mapping lands
// just before it.
func (s *OriginalSource) Map(opts config.MapOptions) (*sourcemap.SourceMap, error) {
	var mappings []sourcemap.Mapping

	if !opts.Columns {
		lineCount := strings.Count(s.text, "\n") + 1
		for i := 0; i < lineCount; i++ {
			mappings = append(mappings, sourcemap.Mapping{
				GeneratedLine: i + 1,
				Original: &sourcemap.Origin{
					OriginalLine: i + 1,
				},
			})
		}
	} else {
		line := 1
		col := 0
		atLineStart := true
		emit := func(l, c int) {
			mappings = append(mappings, sourcemap.Mapping{
				GeneratedLine:   l,
				GeneratedColumn: c,
				Original: &sourcemap.Origin{
					OriginalLine:   l,
					OriginalColumn: c,
				},
			})
		}
		for _, ch := range s.text {
			if atLineStart {
				emit(line, 0)
				atLineStart = false
			}
			switch ch {
			case '\n':
				line++
				col = 0
				atLineStart = true
			case ';', '}':
				col++
				emit(line, col)
			case '{':
				emit(line, col)
				col++
			default:
				col++
			}
		}
	}

	content := s.text
	return &sourcemap.SourceMap{
		Version:        3,
		Sources:        []string{s.name},
		SourcesContent: []*string{&content},
		Mappings:       sourcemap.Encode(mappings),
	}, nil
}

func (s *OriginalSource) StreamChunks(opts config.MapOptions, onChunk chunkstream.OnChunk, onSource chunkstream.OnSource, onName chunkstream.OnName) (chunkstream.GeneratedInfo, error) {
	sm, err := s.Map(opts)
	if err != nil {
		return chunkstream.GeneratedInfo{}, err
	}
	return chunkstream.StreamOfSourceMap(s.text, sm, opts, onChunk, onSource, onName)
}

var _ Source = (*OriginalSource)(nil)
