package schemadoc

import (
	"bytes"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schemadoc/internal/jsonkeys"
)

// Predicate is a custom field check. It receives the external value of the
// field and the document, and returns a non-empty message when the value is
// invalid. An empty string means the value passed.
type Predicate func(value any, doc *Document) string

// FieldDef describes one field of a document type. The bare-string form of
// the schema ("number") decodes into FieldDef{Type: "number"}.
type FieldDef struct {
	// Type is a primitive kind (see PrimitiveKind) or the name of another
	// document type in the same namespace.
	Type string `json:"type" yaml:"type"`
	// Validate is "", "required", "not-empty", or the name of a predicate
	// registered with WithPredicate.
	Validate string `json:"validate,omitempty" yaml:"validate,omitempty"`
	// SoftNumbers overrides the document-level numeric leniency for this field.
	SoftNumbers *bool `json:"soft_numbers,omitempty" yaml:"soft_numbers,omitempty"`
	// Predicate is a Go-level check; it takes precedence over a named one.
	Predicate Predicate `json:"-" yaml:"-"`
}

// Field returns the definition of an unvalidated field of the given type.
func Field(typ string) FieldDef { return FieldDef{Type: typ} }

// WithValidate returns a copy of f with the named validation rule.
func (f FieldDef) WithValidate(rule string) FieldDef {
	f.Validate = rule
	return f
}

// WithPredicate returns a copy of f checked by p.
func (f FieldDef) WithPredicate(p Predicate) FieldDef {
	f.Predicate = p
	return f
}

// Kind returns the primitive kind of the field, if it has one.
func (f FieldDef) Kind() (Kind, bool) { return PrimitiveKind(f.Type) }

// UnmarshalYAML accepts a bare type name or a field mapping.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*f = FieldDef{Type: s}
		return nil
	}
	type plain FieldDef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = FieldDef(p)
	return nil
}

// UnmarshalJSON accepts a bare type name or a field object.
func (f *FieldDef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FieldDef{Type: s}
		return nil
	}
	type plain FieldDef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = FieldDef(p)
	return nil
}

// Fields is an ordered mapping of field name to definition. The zero value is
// an empty set ready to use.
type Fields struct {
	names []string
	defs  map[string]FieldDef
}

// FieldsFromMap builds Fields from a plain map; names are ordered ascending.
func FieldsFromMap(m map[string]FieldDef) Fields {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	var f Fields
	for _, k := range names {
		f.Set(k, m[k])
	}
	return f
}

// Set adds or replaces a field. A replaced field keeps its position.
func (f *Fields) Set(name string, def FieldDef) {
	if f.defs == nil {
		f.defs = make(map[string]FieldDef)
	}
	if _, ok := f.defs[name]; !ok {
		f.names = append(f.names, name)
	}
	f.defs[name] = def
}

// With returns a copy of f with the field added.
func (f Fields) With(name string, def FieldDef) Fields {
	out := f.clone()
	out.Set(name, def)
	return out
}

// Get returns the definition of a field.
func (f Fields) Get(name string) (FieldDef, bool) {
	def, ok := f.defs[name]
	return def, ok
}

// Names returns the field names in declaration order.
func (f Fields) Names() []string { return append([]string(nil), f.names...) }

// Len returns the number of fields.
func (f Fields) Len() int { return len(f.names) }

func (f Fields) clone() Fields {
	out := Fields{names: append([]string(nil), f.names...)}
	if f.defs != nil {
		out.defs = make(map[string]FieldDef, len(f.defs))
		for k, v := range f.defs {
			out.defs[k] = v
		}
	}
	return out
}

// UnmarshalYAML reads a mapping of field definitions in document order.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: fields must be a mapping (line %d)", ErrInvalidSchema, node.Line)
	}
	var out Fields
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if _, dup := out.defs[k.Value]; dup {
			return fmt.Errorf("%w: duplicate field %q (line %d)", ErrInvalidSchema, k.Value, k.Line)
		}
		var def FieldDef
		if err := v.Decode(&def); err != nil {
			return fmt.Errorf("field %q: %w", k.Value, err)
		}
		out.Set(k.Value, def)
	}
	*f = out
	return nil
}

// UnmarshalJSON reads an object of field definitions in key order and
// rejects duplicate names.
func (f *Fields) UnmarshalJSON(b []byte) error {
	var defs map[string]FieldDef
	if err := json.Unmarshal(b, &defs); err != nil {
		return err
	}
	names, err := jsonkeys.ObjectKeys(b)
	if err != nil {
		return fmt.Errorf("%w: fields: %v", ErrInvalidSchema, err)
	}
	var out Fields
	for _, k := range names {
		out.Set(k, defs[k])
	}
	*f = out
	return nil
}
