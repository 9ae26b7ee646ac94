package source

import (
	"testing"

	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

func TestConcatSourceMergesTextAndRemapsSourceIndices(t *testing.T) {
	outer := &sourcemap.SourceMap{
		Sources:  []string{"compat.js"},
		Mappings: "AAAA;AACA;AACA",
	}
	c := NewConcatSource(
		NewRawSource("Line0\n"),
		NewSourceMapSource("Line1\nLine2\nLine3\n", "compat.js", outer, nil, nil, false),
	)

	if got := c.Text(); got != "Line0\nLine1\nLine2\nLine3\n" {
		t.Fatalf("Text() = %q", got)
	}

	m, err := c.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected a non-nil map")
	}
	if m.Mappings != ";AAAA;AACA;AACA" {
		t.Fatalf("Mappings = %q, want %q", m.Mappings, ";AAAA;AACA;AACA")
	}
}

func TestConcatSourceIdentity(t *testing.T) {
	// Property 3: ConcatSource([s]).Text() == s.Text() and the emitted
	// map decodes to the same mapping sequence as s.Map().
	s := NewOriginalSource("a;b\nc{d}e", "x")
	c := NewConcatSource(s)

	if c.Text() != s.Text() {
		t.Fatalf("Text() mismatch: %q vs %q", c.Text(), s.Text())
	}

	wantMap, err := s.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	gotMap, err := c.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := sourcemap.DecodeAll(wantMap.Mappings)
	got := sourcemap.DecodeAll(gotMap.Mappings)
	if len(want) != len(got) {
		t.Fatalf("mapping count mismatch: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i].GeneratedLine != got[i].GeneratedLine || want[i].GeneratedColumn != got[i].GeneratedColumn {
			t.Fatalf("mapping %d position mismatch: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestConcatSourceLineOffset(t *testing.T) {
	// Property 4: when s1 ends in a newline, every mapping from s2
	// through the concat has generated_line = original_line_in_s2 +
	// lines(s1), with unchanged generated_column.
	s1 := NewRawSource("one\ntwo\n")
	s2 := NewOriginalSource("a\nb\nc", "s2.js")
	c := NewConcatSource(s1, s2)

	s2Map, err := s2.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	s2Mappings := sourcemap.DecodeAll(s2Map.Mappings)

	m, err := c.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	all := sourcemap.DecodeAll(m.Mappings)

	lines := 2 // "one\ntwo\n" has 2 lines
	if len(all) != len(s2Mappings) {
		t.Fatalf("expected %d mappings from s2 alone, got %d", len(s2Mappings), len(all))
	}
	for i, want := range s2Mappings {
		got := all[i]
		if got.GeneratedLine != want.GeneratedLine+lines {
			t.Fatalf("mapping %d: generated_line = %d, want %d", i, got.GeneratedLine, want.GeneratedLine+lines)
		}
		if got.GeneratedColumn != want.GeneratedColumn {
			t.Fatalf("mapping %d: generated_column = %d, want unchanged %d", i, got.GeneratedColumn, want.GeneratedColumn)
		}
	}
}

func TestConcatSourceMidLineJoin(t *testing.T) {
	// Property 5: when s1 does not end in a newline, s2's first-line
	// mappings have generated_column += last_column_of_s1.
	s1 := NewRawSource("abc") // no trailing newline, last column = 3
	s2 := NewOriginalSource("x;y", "s2.js")
	c := NewConcatSource(s1, s2)

	if got := c.Text(); got != "abcx;y" {
		t.Fatalf("Text() = %q", got)
	}

	m, err := c.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	all := sourcemap.DecodeAll(m.Mappings)
	if len(all) == 0 {
		t.Fatal("expected at least one mapping")
	}
	if all[0].GeneratedLine != 1 || all[0].GeneratedColumn != 3 {
		t.Fatalf("first mapping = %+v, want line 1 column 3", all[0])
	}
}
