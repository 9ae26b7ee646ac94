package chunkstream

import (
	"testing"

	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

func TestStreamOfRawSourceEmitsOneChunkPerLine(t *testing.T) {
	var chunks []string
	var mappings []sourcemap.Mapping
	info, err := StreamOfRawSource("a\nb\nc", func(text string, m sourcemap.Mapping) error {
		chunks = append(chunks, text)
		mappings = append(mappings, m)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	wantChunks := []string{"a\n", "b\n", "c"}
	if len(chunks) != len(wantChunks) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(wantChunks), chunks)
	}
	for i, c := range chunks {
		if c != wantChunks[i] {
			t.Fatalf("chunk %d = %q, want %q", i, c, wantChunks[i])
		}
		if mappings[i].Original != nil {
			t.Fatalf("chunk %d has an origin, want none", i)
		}
		if mappings[i].GeneratedColumn != 0 {
			t.Fatalf("chunk %d GeneratedColumn = %d, want 0", i, mappings[i].GeneratedColumn)
		}
	}
	if info.GeneratedLine != 3 || info.GeneratedColumn != 1 {
		t.Fatalf("GeneratedInfo = %+v, want {3 1}", info)
	}
}

func TestStreamOfRawSourceTrailingNewline(t *testing.T) {
	info, err := StreamOfRawSource("only line\n", func(string, sourcemap.Mapping) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if info.GeneratedLine != 2 || info.GeneratedColumn != 0 {
		t.Fatalf("GeneratedInfo = %+v, want {2 0}", info)
	}
}

func TestStreamOfSourceMapAnnouncesSourcesAndNamesOnce(t *testing.T) {
	sm := &sourcemap.SourceMap{
		Sources:  []string{"a.js"},
		Names:    []string{"foo"},
		Mappings: "AAAA",
	}
	sourceCalls := 0
	nameCalls := 0
	_, err := StreamOfSourceMap("x", sm, config.DefaultMapOptions(),
		func(string, sourcemap.Mapping) error { return nil },
		func(idx int, name string, content *string) error {
			sourceCalls++
			if idx != 0 || name != "a.js" {
				t.Fatalf("unexpected source callback: %d %q", idx, name)
			}
			return nil
		},
		func(idx int, name string) error {
			nameCalls++
			if idx != 0 || name != "foo" {
				t.Fatalf("unexpected name callback: %d %q", idx, name)
			}
			return nil
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if sourceCalls != 1 || nameCalls != 1 {
		t.Fatalf("sourceCalls=%d nameCalls=%d, want 1 and 1", sourceCalls, nameCalls)
	}
}

func TestStreamOfSourceMapEmitsUnmappedPrefix(t *testing.T) {
	// Mapping at generated column 2 on line 1; bytes 0..2 are unmapped.
	sm := &sourcemap.SourceMap{
		Sources:  []string{"a.js"},
		Mappings: "EAAA",
	}
	var chunks []string
	var mappings []sourcemap.Mapping
	_, err := StreamOfSourceMap("xyabc", sm, config.DefaultMapOptions(),
		func(text string, m sourcemap.Mapping) error {
			chunks = append(chunks, text)
			mappings = append(mappings, m)
			return nil
		},
		func(int, string, *string) error { return nil },
		func(int, string) error { return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(chunks), chunks)
	}
	if chunks[0] != "xy" || mappings[0].Original != nil {
		t.Fatalf("prefix chunk = %q, origin=%v", chunks[0], mappings[0].Original)
	}
	if chunks[1] != "abc" || mappings[1].Original == nil {
		t.Fatalf("mapped chunk = %q, origin=%v", chunks[1], mappings[1].Original)
	}
}

func TestStreamOfSourceMapColumnsFalseCollapsesToOneMapping(t *testing.T) {
	sm := &sourcemap.SourceMap{
		Sources:  []string{"a.js"},
		Mappings: "EAAA,EAAA",
	}
	var mappings []sourcemap.Mapping
	_, err := StreamOfSourceMap("xyabc", sm, config.MapOptions{Columns: false},
		func(text string, m sourcemap.Mapping) error {
			mappings = append(mappings, m)
			return nil
		},
		func(int, string, *string) error { return nil },
		func(int, string) error { return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(mappings) != 1 {
		t.Fatalf("got %d mappings, want 1 (columns collapsed)", len(mappings))
	}
	if mappings[0].GeneratedColumn != 0 {
		t.Fatalf("GeneratedColumn = %d, want 0", mappings[0].GeneratedColumn)
	}
}
