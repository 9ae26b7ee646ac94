package sourcemap

import (
	"fmt"

	json "github.com/go-json-experiment/json"

	"github.com/gosourcetree/sourcetree/internal/srcerr"
)

// wireSourceMap is the JSON-level schema: version accepts both the
// integer 3 and the string "3"; unknown top-level keys are ignored by
// virtue of not being named here; debugId is the one JSON alias for the
// Go-side DebugID field.
type wireSourceMap struct {
	Version        json.RawMessage `json:"version"`
	File           string          `json:"file,omitzero"`
	SourceRoot     string          `json:"sourceRoot,omitzero"`
	Sources        []string        `json:"sources"`
	SourcesContent []*string       `json:"sourcesContent,omitzero"`
	Names          []string        `json:"names,omitzero"`
	Mappings       string          `json:"mappings"`
	DebugID        string          `json:"debugId,omitzero"`
}

// FromJSON parses a standard v3 source map. Decoding is permissive about
// version representation and unknown fields, but a structurally
// malformed document (not a JSON object, or a type mismatch on a known
// field) is a strict, reported error.
func FromJSON(data []byte) (*SourceMap, error) {
	var wire wireSourceMap
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, srcerr.Wrap(srcerr.KindJSONParse, "invalid source map JSON", err)
	}

	version, err := parseVersion(wire.Version)
	if err != nil {
		return nil, err
	}

	sourcesContent := wire.SourcesContent
	if len(sourcesContent) < len(wire.Sources) {
		padded := make([]*string, len(wire.Sources))
		copy(padded, sourcesContent)
		sourcesContent = padded
	} else if len(sourcesContent) > len(wire.Sources) {
		sourcesContent = sourcesContent[:len(wire.Sources)]
	}

	return &SourceMap{
		Version:        version,
		File:           wire.File,
		Sources:        wire.Sources,
		SourcesContent: sourcesContent,
		Names:          wire.Names,
		Mappings:       wire.Mappings,
		SourceRoot:     wire.SourceRoot,
		DebugID:        wire.DebugID,
	}, nil
}

// parseVersion accepts the wire value 3 (number) or "3" (string); both
// appear in the wild across source map producers.
func parseVersion(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 3, nil
	}

	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return asInt, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		var n int
		if _, err := fmt.Sscanf(asString, "%d", &n); err != nil {
			return 0, srcerr.Wrap(srcerr.KindJSONParse, "version must be an integer or numeric string", err)
		}
		return n, nil
	}

	return 0, srcerr.New(srcerr.KindJSONParse, "version must be an integer or a string")
}

// ToJSON serializes sm in the canonical key order: version, file,
// sourceRoot, sources, sourcesContent, names, mappings, debugId.
// Null/empty fields are omitted except sources and mappings, which are
// always present.
func (sm *SourceMap) ToJSON() ([]byte, error) {
	version := sm.Version
	if version == 0 {
		version = 3
	}

	wire := wireSourceMap{
		Version:        json.RawMessage(fmt.Sprintf("%d", version)),
		File:           sm.File,
		SourceRoot:     sm.SourceRoot,
		Sources:        sm.Sources,
		SourcesContent: sm.SourcesContent,
		Names:          sm.Names,
		Mappings:       sm.Mappings,
		DebugID:        sm.DebugID,
	}
	if wire.Sources == nil {
		wire.Sources = []string{}
	}

	data, err := json.Marshal(&wire)
	if err != nil {
		return nil, srcerr.Wrap(srcerr.KindJSONParse, "failed to encode source map", err)
	}
	return data, nil
}
