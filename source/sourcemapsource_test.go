package source

import (
	"testing"

	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

func TestSourceMapSourcePassesThroughWithoutInnerMap(t *testing.T) {
	outer := &sourcemap.SourceMap{
		Sources:  []string{"compat.js"},
		Mappings: "AAAA;AACA;AACA",
	}
	s := NewSourceMapSource("Line1\nLine2\nLine3\n", "compat.js", outer, nil, nil, false)

	var chunks []string
	var origins []*sourcemap.Origin
	_, err := s.StreamChunks(config.DefaultMapOptions(),
		func(text string, m sourcemap.Mapping) error {
			chunks = append(chunks, text)
			origins = append(origins, m.Original)
			return nil
		},
		func(int, string, *string) error { return nil },
		func(int, string) error { return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %v", len(chunks), chunks)
	}
	for i, o := range origins {
		if o == nil || o.OriginalLine != i+1 {
			t.Fatalf("chunk %d origin = %+v, want original_line %d", i, o, i+1)
		}
	}
}

func TestSourceMapSourceFillsMissingContent(t *testing.T) {
	outer := &sourcemap.SourceMap{
		Sources:  []string{"compat.js"},
		Mappings: "AAAA",
	}
	content := "original text"
	s := NewSourceMapSource("x", "compat.js", outer, &content, nil, false)

	var gotContent *string
	_, err := s.StreamChunks(config.DefaultMapOptions(),
		func(string, sourcemap.Mapping) error { return nil },
		func(idx int, name string, c *string) error {
			gotContent = c
			return nil
		},
		func(int, string) error { return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if gotContent == nil || *gotContent != content {
		t.Fatalf("content = %v, want %q", gotContent, content)
	}
}

func TestSourceMapSourceRemoveOriginalSource(t *testing.T) {
	content := "should be hidden"
	outer := &sourcemap.SourceMap{
		Sources:        []string{"compat.js"},
		SourcesContent: []*string{&content},
		Mappings:       "AAAA",
	}
	s := NewSourceMapSource("x", "compat.js", outer, nil, nil, true)

	var gotContent *string
	_, err := s.StreamChunks(config.DefaultMapOptions(),
		func(string, sourcemap.Mapping) error { return nil },
		func(idx int, name string, c *string) error {
			gotContent = c
			return nil
		},
		func(int, string) error { return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if gotContent != nil {
		t.Fatalf("content = %q, want nil (removed)", *gotContent)
	}
}

func TestSourceMapSourceRemapsThroughInnerMap(t *testing.T) {
	// Outer: generated column 0 on line 1 points to bundle.js line 1 col 0.
	outer := &sourcemap.SourceMap{
		Sources:  []string{"bundle.js"},
		Mappings: "AAAA",
	}
	// Inner: bundle.js line 1 col 0 was itself generated from original.ts
	// line 5 col 10.
	inner := &sourcemap.SourceMap{
		Sources:  []string{"original.ts"},
		Mappings: sourcemap.Encode([]sourcemap.Mapping{
			{GeneratedLine: 1, GeneratedColumn: 0, Original: &sourcemap.Origin{
				SourceIndex: 0, OriginalLine: 5, OriginalColumn: 10,
			}},
		}),
	}

	s := NewSourceMapSource("x", "bundle.js", outer, nil, inner, false)

	var sourceNames []string
	var origins []*sourcemap.Origin
	_, err := s.StreamChunks(config.DefaultMapOptions(),
		func(text string, m sourcemap.Mapping) error {
			origins = append(origins, m.Original)
			return nil
		},
		func(idx int, name string, c *string) error {
			sourceNames = append(sourceNames, name)
			return nil
		},
		func(int, string) error { return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range sourceNames {
		if n == "original.ts" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected original.ts to be announced, got %v", sourceNames)
	}
	if len(origins) != 1 || origins[0] == nil || origins[0].OriginalLine != 5 || origins[0].OriginalColumn != 10 {
		t.Fatalf("origin = %+v, want original.ts:5:10", origins)
	}
}
