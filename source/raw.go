package source

import (
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
	"github.com/gosourcetree/sourcetree/internal/srcerr"
)

// RawSource is plain generated text with no mapping information.
type RawSource struct {
	text string
}

// NewRawSource wraps text as a RawSource.
func NewRawSource(text string) *RawSource {
	return &RawSource{text: text}
}

// NewRawSourceFromBytes validates b as UTF-8 and wraps it as a RawSource:
// invalid UTF-8 is rejected at construction, not deferred to Text().
func NewRawSourceFromBytes(b []byte) (*RawSource, error) {
	if !utf8.Valid(b) {
		return nil, srcerr.New(srcerr.KindUTF8, "raw source bytes are not valid UTF-8")
	}
	return &RawSource{text: string(b)}, nil
}

func (s *RawSource) Text() string   { return s.text }
func (s *RawSource) Buffer() []byte { return []byte(s.text) }
func (s *RawSource) Size() int      { return len(s.text) }

// Map always returns nil: a RawSource carries no mapping information.
func (s *RawSource) Map(config.MapOptions) (*sourcemap.SourceMap, error) {
	return nil, nil
}

func (s *RawSource) Hash() uint64 {
	return xxh3.HashString(s.text)
}

func (s *RawSource) StreamChunks(_ config.MapOptions, onChunk chunkstream.OnChunk, _ chunkstream.OnSource, _ chunkstream.OnName) (chunkstream.GeneratedInfo, error) {
	return chunkstream.StreamOfRawSource(s.text, onChunk)
}

var _ Source = (*RawSource)(nil)

