package rope

import "strings"

// SourceText is the capability set shared by plain strings and Ropes: a
// borrowed, sliceable run of text that can be walked by byte or rune
// without necessarily making a copy. PlainText and Rope are
// the two implementations, mirroring &str and Rope in the original
// implementation.
type SourceText interface {
	Len() int
	IsEmpty() bool
	EndsWith(suffix string) bool
	ByteSlice(start, end int) SourceText
	GetByte(i int) (byte, bool)
	CharIndices(yield func(offset int, ch rune) bool)
	SplitIntoLines() []SourceText
	IntoRope() Rope
	String() string
}

// PlainText is the SourceText implementation for an ordinary, single-run
// string.
type PlainText string

func (t PlainText) Len() int { return len(t) }

func (t PlainText) IsEmpty() bool { return len(t) == 0 }

func (t PlainText) EndsWith(suffix string) bool {
	return strings.HasSuffix(string(t), suffix)
}

// ByteSlice mirrors Rust's str::get(range).unwrap_or_default(): an
// out-of-bounds or invalid range yields an empty result rather than a
// panic, unlike Rope.ByteSlice.
func (t PlainText) ByteSlice(start, end int) SourceText {
	if start < 0 || start > end || end > len(t) {
		return PlainText("")
	}
	return t[start:end]
}

func (t PlainText) GetByte(i int) (byte, bool) {
	if i < 0 || i >= len(t) {
		return 0, false
	}
	return t[i], true
}

func (t PlainText) CharIndices(yield func(offset int, ch rune) bool) {
	for i, ch := range string(t) {
		if !yield(i, ch) {
			return
		}
	}
}

func (t PlainText) SplitIntoLines() []SourceText {
	lines := splitKeepingTerminator(string(t))
	out := make([]SourceText, len(lines))
	for i, l := range lines {
		out[i] = PlainText(l)
	}
	return out
}

func (t PlainText) IntoRope() Rope { return FromString(string(t)) }

func (t PlainText) String() string { return string(t) }

// RopeText adapts Rope to the SourceText interface. Rope's own ByteSlice
// returns a concrete Rope (useful to callers who want to keep slicing
// without going through the interface), so RopeText wraps it rather than
// Rope implementing SourceText directly.
type RopeText struct {
	*Rope
}

// NewRopeText wraps r as a SourceText.
func NewRopeText(r Rope) RopeText {
	return RopeText{&r}
}

// Len, IsEmpty, EndsWith, GetByte, CharIndices and String are promoted
// from the embedded *Rope and already match the interface's signatures.

func (t RopeText) ByteSlice(start, end int) SourceText {
	sliced := t.Rope.ByteSlice(start, end)
	return RopeText{&sliced}
}

// SplitIntoLines splits on '\n', keeping the terminator (and any preceding
// '\r') attached to the line it ends, the way esbuild's line scanner and
// rspack-sources' split_str both do it so downstream column indexers see
// consistent line boundaries. A split line never needs more than one
// chunk, so each result is a PlainText rather than a fresh Rope.
func (t RopeText) SplitIntoLines() []SourceText {
	lines := splitKeepingTerminator(t.Rope.String())
	out := make([]SourceText, len(lines))
	for i, l := range lines {
		out[i] = PlainText(l)
	}
	return out
}

func (t RopeText) IntoRope() Rope { return *t.Rope }

// splitKeepingTerminator splits s into lines, where every line except
// possibly the last retains its trailing '\n' (and preceding '\r', if
// present). An empty input yields a single empty line, matching Rust's
// str::split behavior of never returning zero items.
var (
	_ SourceText = PlainText("")
	_ SourceText = RopeText{}
)

func splitKeepingTerminator(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
