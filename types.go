package schemadoc

import "dario.cat/mergo"

// Kind is a primitive field kind.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
	KindDate     Kind = "date"
	KindDateTime Kind = "datetime"
	KindUUID     Kind = "uuid"
	KindBoolean  Kind = "boolean"
)

// kindNames maps every accepted spelling of a primitive type to its Kind.
var kindNames = map[string]Kind{
	"string":   KindString,
	"str":      KindString,
	"number":   KindNumber,
	"num":      KindNumber,
	"int":      KindNumber,
	"array":    KindArray,
	"list":     KindArray,
	"object":   KindObject,
	"obj":      KindObject,
	"date":     KindDate,
	"datetime": KindDateTime,
	"uuid":     KindUUID,
	"boolean":  KindBoolean,
	"bool":     KindBoolean,
}

// PrimitiveKind resolves a declared type name (including short aliases such
// as "str" or "num") to its primitive Kind.
func PrimitiveKind(typ string) (Kind, bool) {
	k, ok := kindNames[typ]
	return k, ok
}

// Built-in validation rule names accepted in FieldDef.Validate.
const (
	ValidateRequired = "required"
	ValidateNotEmpty = "not-empty"
)

// DefaultMaxDepth bounds nested-document recursion when Options.MaxDepth is unset.
const DefaultMaxDepth = 32

// Options is document-level configuration. Nil fields are unset so that a
// per-instance override can distinguish "false" from "not configured".
type Options struct {
	// SoftNumbers accepts numeric strings for number fields.
	SoftNumbers *bool `json:"soft_numbers,omitempty" yaml:"soft_numbers,omitempty"`
	// MaxDepth limits how deep construction and validation descend into
	// nested documents.
	MaxDepth *int `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
}

// Bool returns a pointer to b, for filling Options literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for filling Options literals.
func Int(n int) *int { return &n }

// clone copies the pointed-to values so that merged options never alias the
// caller's (or the document type's) storage.
func (o Options) clone() Options {
	var out Options
	if o.SoftNumbers != nil {
		out.SoftNumbers = Bool(*o.SoftNumbers)
	}
	if o.MaxDepth != nil {
		out.MaxDepth = Int(*o.MaxDepth)
	}
	return out
}

// mergeOptions overlays the set fields of over onto base.
func mergeOptions(base, over Options) (Options, error) {
	out := base.clone()
	if err := mergo.Merge(&out, over.clone(), mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return base, err
	}
	return out, nil
}

func (o Options) maxDepth() int {
	if o.MaxDepth != nil && *o.MaxDepth > 0 {
		return *o.MaxDepth
	}
	return DefaultMaxDepth
}
