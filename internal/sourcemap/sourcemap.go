// Package sourcemap implements the in-memory SourceMap value on top of
// the VLQ grammar in internal/vlq. Find's binary search is lifted
// directly from esbuild's internal/sourcemap.SourceMap.Find.
package sourcemap

import "sort"

// SourceMap is the in-memory, decoded form of a v3 source map.
type SourceMap struct {
	Version        int
	File           string
	Sources        []string
	SourcesContent []*string // parallel to Sources, nil entries allowed
	Names          []string
	Mappings       string // VLQ-encoded
	SourceRoot     string
	DebugID        string
}

// DecodedMappings returns a fresh lazy decoder over Mappings.
func (sm *SourceMap) DecodedMappings() *Decoder {
	return NewDecoder(sm.Mappings)
}

// Find does a binary search for the last mapping at or before (line,
// column), matching the behavior of the popular Mozilla "source-map"
// library: it only returns a match if that mapping's GeneratedLine equals
// the requested line.
func (sm *SourceMap) Find(line int, column int) *Mapping {
	mappings := DecodeAll(sm.Mappings)

	count := len(mappings)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		m := mappings[i]
		if m.GeneratedLine < line || (m.GeneratedLine == line && m.GeneratedColumn <= column) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}

	if index > 0 {
		m := mappings[index-1]
		if m.GeneratedLine == line {
			return &m
		}
	}
	return nil
}

// SortMappings sorts a slice of mappings ascending by (GeneratedLine,
// GeneratedColumn), preserving relative order of ties, as Encode
// requires of its input.
func SortMappings(mappings []Mapping) {
	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i], mappings[j]
		if a.GeneratedLine != b.GeneratedLine {
			return a.GeneratedLine < b.GeneratedLine
		}
		return a.GeneratedColumn < b.GeneratedColumn
	})
}
