package source

import (
	"strings"
	"testing"

	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

func TestOriginalSourceText(t *testing.T) {
	s := NewOriginalSource("a;b\nc{d}e", "x")
	if s.Text() != "a;b\nc{d}e" {
		t.Fatalf("Text() = %q", s.Text())
	}
}

func TestOriginalSourceColumnsIdentityAtTokenBoundaries(t *testing.T) {
	// Grounded directly on core/src/original_source.rs's token heuristic:
	// a mapping at the start of every line, another right after ';' or
	// '}', and another right before '{'.
	s := NewOriginalSource("a;b\nc{d}e", "x")
	sm, err := s.Map(config.MapOptions{Columns: true})
	if err != nil {
		t.Fatal(err)
	}
	mappings := sourcemap.DecodeAll(sm.Mappings)

	type pos struct{ line, col int }
	var got []pos
	for _, m := range mappings {
		got = append(got, pos{m.GeneratedLine, m.GeneratedColumn})
	}
	want := []pos{{1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mapping %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	for _, m := range mappings {
		if m.Original.OriginalLine != m.GeneratedLine || m.Original.OriginalColumn != m.GeneratedColumn {
			t.Fatalf("mapping %+v is not identity", m)
		}
	}
}

func TestOriginalSourceIdentityWithoutColumns(t *testing.T) {
	text := "line1\nline2\nline3"
	s := NewOriginalSource(text, "a.js")
	sm, err := s.Map(config.MapOptions{Columns: false})
	if err != nil {
		t.Fatal(err)
	}
	mappings := sourcemap.DecodeAll(sm.Mappings)

	want := strings.Count(text, "\n") + 1
	if len(mappings) != want {
		t.Fatalf("got %d mappings, want %d", len(mappings), want)
	}
	for i, m := range mappings {
		if m.Original == nil || m.Original.SourceIndex != 0 {
			t.Fatalf("mapping %d missing source_index 0: %+v", i, m)
		}
		if m.Original.OriginalLine != m.GeneratedLine {
			t.Fatalf("mapping %d original_line %d != generated_line %d", i, m.Original.OriginalLine, m.GeneratedLine)
		}
		if m.Original.OriginalColumn != 0 {
			t.Fatalf("mapping %d original_column = %d, want 0", i, m.Original.OriginalColumn)
		}
	}
}

func TestOriginalSourceMapSourcesContent(t *testing.T) {
	s := NewOriginalSource("hello", "x")
	sm, err := s.Map(config.DefaultMapOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(sm.Sources) != 1 || sm.Sources[0] != "x" {
		t.Fatalf("Sources = %v", sm.Sources)
	}
	if len(sm.SourcesContent) != 1 || sm.SourcesContent[0] == nil || *sm.SourcesContent[0] != "hello" {
		t.Fatalf("SourcesContent = %v", sm.SourcesContent)
	}
}
