package sourcemap

import "github.com/gosourcetree/sourcetree/internal/vlq"

// Encode serializes a list of mappings into the v3 "mappings" string
// grammar. Mappings must already be sorted ascending by
// (GeneratedLine, GeneratedColumn); ties are preserved in input order. The
// shortest valid segment form is emitted: 5 fields when NameIndex is
// present, 4 when Original is present, 1 otherwise.
func Encode(mappings []Mapping) string {
	if len(mappings) == 0 {
		return ""
	}

	var out []byte

	prevGeneratedColumn := 0
	prevSourceIndex := 0
	// The decoder seeds the original-line total with 1, so the first
	// delta is taken against 1 as well.
	prevOriginalLine := 1
	prevOriginalColumn := 0
	prevNameIndex := 0

	// GeneratedLine is 1-based and the map always starts at line 1, so any
	// gap before the first mapping's line must still be represented as
	// leading ';' separators (e.g. a mapping that starts on line 2 needs
	// one leading ';' for the unmapped line 1).
	currentLine := 1
	firstSegmentOnLine := true

	for _, m := range mappings {
		for currentLine < m.GeneratedLine {
			out = append(out, ';')
			currentLine++
			prevGeneratedColumn = 0
			firstSegmentOnLine = true
		}

		if !firstSegmentOnLine {
			out = append(out, ',')
		}
		firstSegmentOnLine = false

		out = vlq.Encode(out, m.GeneratedColumn-prevGeneratedColumn)
		prevGeneratedColumn = m.GeneratedColumn

		if o := m.Original; o != nil {
			out = vlq.Encode(out, o.SourceIndex-prevSourceIndex)
			prevSourceIndex = o.SourceIndex

			out = vlq.Encode(out, o.OriginalLine-prevOriginalLine)
			prevOriginalLine = o.OriginalLine

			out = vlq.Encode(out, o.OriginalColumn-prevOriginalColumn)
			prevOriginalColumn = o.OriginalColumn

			if o.NameIndex.IsValid() {
				nameIndex := int(o.NameIndex.GetIndex())
				out = vlq.Encode(out, nameIndex-prevNameIndex)
				prevNameIndex = nameIndex
			}
		}
	}

	return string(out)
}
