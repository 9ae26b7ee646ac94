package main

import (
	json "github.com/go-json-experiment/json"

	"github.com/gosourcetree/sourcetree/internal/sourcemap"
	"github.com/gosourcetree/sourcetree/internal/srcerr"
	"github.com/gosourcetree/sourcetree/source"
)

// node is the JSON shape of one entry in a manifest tree. Type selects
// which fields are read; unused fields for a given type are ignored.
type node struct {
	Type string `json:"type"`

	// raw, original, sourceMap
	Text string `json:"text,omitzero"`

	// original, sourceMap
	Name string `json:"name,omitzero"`

	// sourceMap
	Map                  json.RawMessage `json:"map,omitzero"`
	InnerMap             json.RawMessage `json:"innerMap,omitzero"`
	OriginalContent      *string         `json:"originalContent,omitzero"`
	RemoveOriginalSource bool            `json:"removeOriginalSource,omitzero"`

	// concat
	Children []node `json:"children,omitzero"`

	// replace, cached
	Child        *node         `json:"child,omitzero"`
	Replacements []replaceSpec `json:"replacements,omitzero"`
}

type replaceSpec struct {
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Content string  `json:"content"`
	Name    *string `json:"name,omitzero"`
}

// manifest is the top-level document read from --manifest or stdin.
type manifest struct {
	Root        node `json:"root"`
	Columns     bool `json:"columns"`
	FinalSource bool `json:"finalSource"`
}

// build turns n into a live source.Source tree, the way a caller
// assembling a build pipeline would by hand.
func build(n node) (source.Source, error) {
	switch n.Type {
	case "raw":
		return source.NewRawSource(n.Text), nil

	case "original":
		return source.NewOriginalSource(n.Text, n.Name), nil

	case "sourceMap":
		outer, err := decodeMap(n.Map, "map")
		if err != nil {
			return nil, err
		}
		if outer == nil {
			return nil, srcerr.New(srcerr.KindJSONParse, "sourceMap node requires \"map\"")
		}
		inner, err := decodeMap(n.InnerMap, "innerMap")
		if err != nil {
			return nil, err
		}
		return source.NewSourceMapSource(n.Text, n.Name, outer, n.OriginalContent, inner, n.RemoveOriginalSource), nil

	case "concat":
		children := make([]source.Source, len(n.Children))
		for i, c := range n.Children {
			child, err := build(c)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return source.NewConcatSource(children...), nil

	case "replace":
		if n.Child == nil {
			return nil, srcerr.New(srcerr.KindJSONParse, "replace node requires \"child\"")
		}
		child, err := build(*n.Child)
		if err != nil {
			return nil, err
		}
		rs := source.NewReplaceSource(child)
		for _, r := range n.Replacements {
			if err := rs.Replace(r.Start, r.End, r.Content, r.Name); err != nil {
				return nil, err
			}
		}
		return rs, nil

	case "cached":
		if n.Child == nil {
			return nil, srcerr.New(srcerr.KindJSONParse, "cached node requires \"child\"")
		}
		child, err := build(*n.Child)
		if err != nil {
			return nil, err
		}
		return source.NewCachedSource(child), nil

	default:
		return nil, srcerr.New(srcerr.KindJSONParse, "unknown node type "+n.Type)
	}
}

// decodeMap parses a manifest node's embedded source map, or returns nil
// if the field was omitted.
func decodeMap(raw json.RawMessage, field string) (*sourcemap.SourceMap, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	sm, err := sourcemap.FromJSON(raw)
	if err != nil {
		return nil, srcerr.Wrap(srcerr.KindJSONParse, "invalid "+field, err)
	}
	return sm, nil
}
