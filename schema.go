package schemadoc

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// TypeSchema is the raw declaration of one document type.
type TypeSchema struct {
	Name    string  `json:"name" yaml:"name"`
	Fields  Fields  `json:"fields" yaml:"fields"`
	Options Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// DecodeSchema converts generic Go declarations, as produced by decoding
// JSON or YAML into `any`, into type schemas. v is a single declaration
// (map[string]any) or a list of them. Field order follows FieldsFromMap.
//
// A "validate" entry may also hold a Predicate (or a func with the same
// signature), which allows schemas assembled in Go code to embed checks
// without registering them by name.
func DecodeSchema(v any) ([]TypeSchema, error) {
	switch t := v.(type) {
	case map[string]any:
		ts, err := decodeTypeSchema(t)
		if err != nil {
			return nil, err
		}
		return []TypeSchema{ts}, nil
	case []map[string]any:
		out := make([]TypeSchema, 0, len(t))
		for _, m := range t {
			ts, err := decodeTypeSchema(m)
			if err != nil {
				return nil, err
			}
			out = append(out, ts)
		}
		return out, nil
	case []any:
		out := make([]TypeSchema, 0, len(t))
		for i, it := range t {
			m, ok := it.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: schema entry %d is %T, not a mapping", ErrInvalidSchema, i, it)
			}
			ts, err := decodeTypeSchema(m)
			if err != nil {
				return nil, err
			}
			out = append(out, ts)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: schema is %T, not a mapping or list", ErrInvalidSchema, v)
	}
}

func decodeTypeSchema(m map[string]any) (TypeSchema, error) {
	var ts TypeSchema
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return ts, fmt.Errorf("%w: type declaration without a name", ErrInvalidSchema)
	}
	ts.Name = name

	rawFields, _ := m["fields"].(map[string]any)
	defs := make(map[string]FieldDef, len(rawFields))
	for fname, raw := range rawFields {
		def, err := decodeFieldDef(raw)
		if err != nil {
			return ts, fmt.Errorf("%s.%s: %w", name, fname, err)
		}
		defs[fname] = def
	}
	ts.Fields = FieldsFromMap(defs)

	if rawOpts, ok := m["options"].(map[string]any); ok {
		opts, err := decodeOptions(rawOpts)
		if err != nil {
			return ts, fmt.Errorf("%s: %w", name, err)
		}
		ts.Options = opts
	}
	return ts, nil
}

func decodeFieldDef(raw any) (FieldDef, error) {
	switch t := raw.(type) {
	case string:
		return FieldDef{Type: t}, nil
	case FieldDef:
		return t, nil
	case map[string]any:
		var def FieldDef
		typ, ok := t["type"].(string)
		if !ok || typ == "" {
			return def, fmt.Errorf("%w: field declaration without a type", ErrInvalidSchema)
		}
		def.Type = typ
		switch val := t["validate"].(type) {
		case nil:
		case string:
			def.Validate = val
		case Predicate:
			def.Predicate = val
		case func(any, *Document) string:
			def.Predicate = val
		default:
			return def, fmt.Errorf("%w: validate is %T", ErrInvalidSchema, val)
		}
		if sn, ok := t["soft_numbers"].(bool); ok {
			def.SoftNumbers = Bool(sn)
		}
		return def, nil
	default:
		return FieldDef{}, fmt.Errorf("%w: field declaration is %T", ErrInvalidSchema, raw)
	}
}

func decodeOptions(m map[string]any) (Options, error) {
	var opts Options
	if v, ok := m["soft_numbers"]; ok {
		b, ok := v.(bool)
		if !ok {
			return opts, fmt.Errorf("%w: soft_numbers is %T, not a bool", ErrInvalidSchema, v)
		}
		opts.SoftNumbers = Bool(b)
	}
	if v, ok := m["max_depth"]; ok {
		n, err := toInt(v)
		if err != nil {
			return opts, fmt.Errorf("%w: max_depth: %v", ErrInvalidSchema, err)
		}
		opts.MaxDepth = Int(n)
	}
	return opts, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}
