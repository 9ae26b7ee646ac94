package sourcemap

import "github.com/gosourcetree/sourcetree/internal/index"

// Mapping is a single decoded record relating a position in generated text
// to an optional position in original text. The only valid segment
// shapes are length 1 (generated only), 4 (with origin), and 5 (with
// origin and name); lengths 2 and 3 are a decode error and the segment
// is skipped.
type Mapping struct {
	GeneratedLine   int // 1-based
	GeneratedColumn int // 0-based

	Original *Origin
}

// Origin is the "with origin" part of a Mapping.
type Origin struct {
	SourceIndex    int
	OriginalLine   int // 1-based
	OriginalColumn int  // 0-based
	NameIndex      index.Index32
}

// HasOrigin reports whether m has an Original field, for call sites that
// would rather not nil-check directly.
func (m Mapping) HasOrigin() bool {
	return m.Original != nil
}
