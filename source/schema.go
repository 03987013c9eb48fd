// Package source loads document-type schemas and payloads from bytes or
// files.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schemadoc"
)

// ErrUnsupportedFormat reports a schema file whose extension is neither YAML
// nor JSON.
var ErrUnsupportedFormat = errors.New("source: unsupported schema format")

// YAML decodes a stream of one or more YAML documents. Each document holds a
// single type declaration or a list of them; declarations are returned in
// stream order with their field order preserved.
func YAML(data []byte) ([]schemadoc.TypeSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []schemadoc.TypeSchema
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		node := &doc
		if node.Kind == yaml.DocumentNode {
			if len(node.Content) == 0 {
				continue
			}
			node = node.Content[0]
		}
		switch node.Kind {
		case yaml.MappingNode:
			var ts schemadoc.TypeSchema
			if err := node.Decode(&ts); err != nil {
				return nil, err
			}
			out = append(out, ts)
		case yaml.SequenceNode:
			var list []schemadoc.TypeSchema
			if err := node.Decode(&list); err != nil {
				return nil, err
			}
			out = append(out, list...)
		default:
			return nil, fmt.Errorf("%w: YAML document at line %d is not a mapping or list", schemadoc.ErrInvalidSchema, node.Line)
		}
	}
	return out, nil
}

// JSON decodes a single type declaration or a list of them.
func JSON(data []byte) ([]schemadoc.TypeSchema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty JSON schema", schemadoc.ErrInvalidSchema)
	}
	switch trimmed[0] {
	case '[':
		var list []schemadoc.TypeSchema
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var ts schemadoc.TypeSchema
		if err := json.Unmarshal(trimmed, &ts); err != nil {
			return nil, err
		}
		return []schemadoc.TypeSchema{ts}, nil
	default:
		return nil, fmt.Errorf("%w: JSON schema is not an object or array", schemadoc.ErrInvalidSchema)
	}
}

// File reads a schema file, choosing the decoder by extension (.yaml, .yml
// or .json).
func File(path string) ([]schemadoc.TypeSchema, error) {
	var decode func([]byte) ([]schemadoc.TypeSchema, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = YAML
	case ".json":
		decode = JSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ts, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}
