package sourcemap

import (
	"github.com/gosourcetree/sourcetree/internal/index"
	"github.com/gosourcetree/sourcetree/internal/vlq"
)

// Decoder is a lazy, finite, restartable sequence over the bytes of a
// "mappings" string. It is not re-entrant: a single Decoder's Next must
// not be called concurrently with itself. To restart decoding from the
// beginning, construct a new Decoder over the same string.
//
// currentData holds the five running totals for the segment currently
// being accumulated (each field is a delta summed in place, per the v3
// source map format), currentDataPos counts how many fields have been
// read so far for that segment, and generatedLine/the generated-column
// total in currentData[0] track position across ';' line breaks.
type Decoder struct {
	data []byte
	pos  int

	currentData    [5]int
	currentDataPos int

	accValue int
	accShift uint

	generatedLine int
	done          bool

	// skipped counts segments dropped because they decoded to a length
	// other than 1, 4, or 5 (a length of 2 or 3 is a malformed segment).
	// Exposed via Skipped() so a caller that wants to know "was this
	// mappings string malformed" can ask without the permissive decode
	// itself failing.
	skipped int
}

// NewDecoder creates a Decoder over the given "mappings" string.
func NewDecoder(mappings string) *Decoder {
	return &Decoder{
		data:          []byte(mappings),
		currentData:   [5]int{0, 0, 1, 0, 0},
		generatedLine: 1,
	}
}

// Skipped returns the number of segments dropped so far because they had
// an invalid field count (not 1, 4, or 5).
func (d *Decoder) Skipped() int {
	return d.skipped
}

// Next returns the next decoded mapping, or ok=false once the sequence is
// exhausted. Malformed segments are skipped transparently.
func (d *Decoder) Next() (Mapping, bool) {
	if d.done {
		return Mapping{}, false
	}

	for d.pos < len(d.data) {
		b := d.data[d.pos]
		d.pos++

		switch vlq.Classify(b) {
		case vlq.KindDigit:
			digit := vlq.DigitValue(b)
			d.accValue |= int(digit&31) << d.accShift
			d.accShift += 5
			if !vlq.HasContinuation(digit) {
				value := vlq.SignDecode(d.accValue)
				if d.currentDataPos < len(d.currentData) {
					d.currentData[d.currentDataPos] += value
				}
				d.currentDataPos++
				d.accValue = 0
				d.accShift = 0
			}

		case vlq.KindComma:
			if m, ok := d.finishSegment(); ok {
				return m, true
			}

		case vlq.KindSemicolon:
			m, ok := d.finishSegment()
			d.generatedLine++
			d.currentData[0] = 0
			if ok {
				return m, true
			}

		case vlq.KindIgnore:
			// Dropped silently; does not affect the in-progress accumulator.
		}
	}

	// End of input: a truncated continuation (accShift > 0 here) is simply
	// discarded, and whatever segment was pending is flushed exactly like a
	// terminator would flush it.
	d.done = true
	if m, ok := d.finishSegment(); ok {
		return m, true
	}
	return Mapping{}, false
}

// finishSegment emits a mapping for the segment that just ended, if (and
// only if) it had a valid field count, then resets currentDataPos for the
// next segment.
func (d *Decoder) finishSegment() (Mapping, bool) {
	pos := d.currentDataPos
	d.currentDataPos = 0

	switch pos {
	case 1:
		return Mapping{
			GeneratedLine:   d.generatedLine,
			GeneratedColumn: d.currentData[0],
		}, true

	case 4:
		return Mapping{
			GeneratedLine:   d.generatedLine,
			GeneratedColumn: d.currentData[0],
			Original: &Origin{
				SourceIndex:    d.currentData[1],
				OriginalLine:   d.currentData[2],
				OriginalColumn: d.currentData[3],
			},
		}, true

	case 5:
		return Mapping{
			GeneratedLine:   d.generatedLine,
			GeneratedColumn: d.currentData[0],
			Original: &Origin{
				SourceIndex:    d.currentData[1],
				OriginalLine:   d.currentData[2],
				OriginalColumn: d.currentData[3],
				NameIndex:      index.Make32(uint32(d.currentData[4])),
			},
		}, true

	case 0:
		return Mapping{}, false

	default:
		d.skipped++
		return Mapping{}, false
	}
}

// DecodeAll materializes every mapping in the string. Most call sites
// should prefer streaming Next(), but SourceMap.Find's binary search and
// JSON round-tripping need the full slice.
func DecodeAll(mappings string) []Mapping {
	d := NewDecoder(mappings)
	result := []Mapping{}
	for {
		m, ok := d.Next()
		if !ok {
			break
		}
		result = append(result, m)
	}
	return result
}
