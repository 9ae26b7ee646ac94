// Package source implements the source value hierarchy: leaf sources
// backed by plain or externally-mapped text, the Concat and Replace
// composites built over them, and the CachedSource memoizing wrapper.
// Every concrete type in this package satisfies Source.
package source

import (
	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/helpers"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

// combineHash folds h into seed using esbuild's boost-style HashCombine,
// applied twice to cover a full uint64 (HashCombine itself works on
// uint32, matching its use for AST/string hashing elsewhere in esbuild).
func combineHash(seed, h uint64) uint64 {
	lo := helpers.HashCombine(uint32(seed), uint32(h))
	hi := helpers.HashCombine(uint32(seed>>32), uint32(h>>32))
	return uint64(hi)<<32 | uint64(lo)
}

// Source is the capability set shared by every source value: generated
// text, a byte view of it, a source map (nil when the source carries no
// mapping information), a content hash for cache keys, and the
// push-based stream_chunks traversal that every other operation is
// built from.
type Source interface {
	// Text returns the generated text this source produces.
	Text() string
	// Buffer returns a byte view of Text().
	Buffer() []byte
	// Size returns len(Buffer()).
	Size() int
	// Map returns the source map describing how Text() relates to its
	// origins, or nil if this source carries no mapping information.
	Map(opts config.MapOptions) (*sourcemap.SourceMap, error)
	// Hash returns a content hash suitable for cache keys and dedup,
	// computed from the source's own inputs. Two sources of the same type
	// built from equal inputs hash equal; sources of different types with
	// equal Text() and Map() do not necessarily hash equal.
	Hash() uint64
	// StreamChunks drives onChunk/onSource/onName in generated order,
	// without necessarily materializing Map().
	StreamChunks(opts config.MapOptions, onChunk chunkstream.OnChunk, onSource chunkstream.OnSource, onName chunkstream.OnName) (chunkstream.GeneratedInfo, error)
}

// mapFromStream runs a full StreamChunks pass purely to collect a
// SourceMap, for sources (Concat, Replace) whose Map is easiest to
// derive from their own traversal rather than maintained independently.
// Returns nil if the source never invokes onChunk with an origin, even
// if it announced sources.
func mapFromStream(s Source, opts config.MapOptions) (*sourcemap.SourceMap, error) {
	var mappings []sourcemap.Mapping
	var names []string
	var sources []string
	var sourcesContent []*string
	sawOrigin := false

	_, err := s.StreamChunks(opts,
		func(_ string, m sourcemap.Mapping) error {
			if m.HasOrigin() {
				sawOrigin = true
			}
			mappings = append(mappings, m)
			return nil
		},
		func(idx int, name string, content *string) error {
			for len(sources) <= idx {
				sources = append(sources, "")
				sourcesContent = append(sourcesContent, nil)
			}
			sources[idx] = name
			sourcesContent[idx] = content
			return nil
		},
		func(idx int, name string) error {
			for len(names) <= idx {
				names = append(names, "")
			}
			names[idx] = name
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	if !sawOrigin {
		return nil, nil
	}

	mapped := make([]sourcemap.Mapping, 0, len(mappings))
	for _, m := range mappings {
		if m.HasOrigin() {
			mapped = append(mapped, m)
		}
	}

	return &sourcemap.SourceMap{
		Version:        3,
		Sources:        sources,
		SourcesContent: sourcesContent,
		Names:          names,
		Mappings:       sourcemap.Encode(mapped),
	}, nil
}
