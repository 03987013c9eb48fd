package schemadoc

import (
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reoring/schemadoc/codec"
)

// castFunc converts one field value in one direction.
type castFunc func(value any, name string, def FieldDef, doc *Document) (any, error)

// Caster converts field values between the external representation (Go
// values such as time.Time or uuid.UUID) and the internal one (primitives
// ready for serialization). It holds no state besides its dispatch tables.
type Caster struct {
	fromExt map[Kind]castFunc
	toExt   map[Kind]castFunc
}

// NewCaster returns a Caster with the built-in dispatch tables.
func NewCaster() *Caster {
	c := &Caster{}
	c.fromExt = map[Kind]castFunc{
		KindString:   c.fromString,
		KindNumber:   c.fromNumber,
		KindArray:    c.fromArray,
		KindObject:   c.fromObject,
		KindDate:     c.fromDate,
		KindDateTime: c.fromDateTime,
		KindUUID:     c.fromUUID,
		KindBoolean:  c.fromBoolean,
	}
	c.toExt = map[Kind]castFunc{
		KindString:   toRaw,
		KindNumber:   toRaw,
		KindArray:    toRaw,
		KindObject:   toRaw,
		KindDate:     c.toDate,
		KindDateTime: c.toDateTime,
		KindUUID:     c.toUUID,
		KindBoolean:  toRaw,
	}
	return c
}

var defaultCaster = NewCaster()

// FromExternal converts an assigned value into its internal form. nil always
// passes through unchanged.
func (c *Caster) FromExternal(value any, name string, def FieldDef, doc *Document) (any, error) {
	if isNull(value) {
		return nil, nil
	}
	if k, ok := PrimitiveKind(def.Type); ok {
		return c.fromExt[k](value, name, def, doc)
	}
	if nt := nestedType(doc, def.Type); nt != nil {
		return c.fromSubDocument(nt, value, name, def, doc)
	}
	return nil, &UnimplementedTypeError{Field: name, Type: def.Type, Value: value}
}

// ToExternal converts a stored internal value into its external form.
func (c *Caster) ToExternal(value any, name string, def FieldDef, doc *Document) (any, error) {
	if k, ok := PrimitiveKind(def.Type); ok {
		return c.toExt[k](value, name, def, doc)
	}
	if nt := nestedType(doc, def.Type); nt != nil {
		return c.toSubDocument(nt, value, name, def)
	}
	return nil, &UnimplementedTypeError{Field: name, Type: def.Type, Value: value}
}

// ---- external -> internal ----

func (c *Caster) fromString(value any, name string, def FieldDef, _ *Document) (any, error) {
	if _, ok := value.(string); !ok {
		return nil, typeError(value, name, def, nil)
	}
	return value, nil
}

func (c *Caster) fromNumber(value any, name string, def FieldDef, doc *Document) (any, error) {
	switch v := value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case *apd.Decimal:
		return narrow(v, value, name, def)
	case json.Number:
		return parseNumber(string(v), value, name, def)
	case string:
		if softNumbers(doc, def) {
			return parseNumber(v, value, name, def)
		}
	}
	return nil, typeError(value, name, def, nil)
}

// fromArray accepts any slice. Fixed-size arrays such as uuid.UUID are not
// lists and are rejected. Elements are not checked.
func (c *Caster) fromArray(value any, name string, def FieldDef, _ *Document) (any, error) {
	if reflect.ValueOf(value).Kind() != reflect.Slice {
		return nil, typeError(value, name, def, nil)
	}
	return value, nil
}

func (c *Caster) fromObject(value any, name string, def FieldDef, _ *Document) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case *Document:
		return v.ToDict(), nil
	}
	return nil, typeError(value, name, def, nil)
}

func (c *Caster) fromDate(value any, name string, def FieldDef, _ *Document) (any, error) {
	return fromTime(codec.Date(), value, name, def)
}

func (c *Caster) fromDateTime(value any, name string, def FieldDef, _ *Document) (any, error) {
	return fromTime(codec.DateTime(), value, name, def)
}

func fromTime(tc codec.Codec[string, time.Time], value any, name string, def FieldDef) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return tc.Encode(v)
	case string:
		if _, err := tc.Decode(v); err != nil {
			return nil, typeError(value, name, def, err)
		}
		return v, nil
	}
	return nil, typeError(value, name, def, nil)
}

func (c *Caster) fromUUID(value any, name string, def FieldDef, _ *Document) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return codec.UUID().Encode(v)
	case string:
		s, err := codec.NormalizeUUID(v)
		if err != nil {
			return nil, typeError(value, name, def, err)
		}
		return s, nil
	}
	return nil, typeError(value, name, def, nil)
}

func (c *Caster) fromBoolean(value any, name string, def FieldDef, _ *Document) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return codec.Truthy(v), nil
	}
	return nil, typeError(value, name, def, nil)
}

// fromSubDocument flattens a nested document. A plain mapping is first
// materialized as a document of the nested type so that its fields go
// through the regular casting path, one level deeper than doc.
func (c *Caster) fromSubDocument(nt *DocumentType, value any, name string, def FieldDef, doc *Document) (any, error) {
	switch v := value.(type) {
	case *Document:
		if v.typ != nt {
			return nil, typeError(value, name, def, nil)
		}
		return v.ToDict(), nil
	case map[string]any:
		sub, err := nt.newNested(doc, v)
		if err != nil {
			return nil, wrapNested(doc, name, err)
		}
		return sub.ToDict(), nil
	}
	return nil, typeError(value, name, def, nil)
}

// ---- internal -> external ----

func toRaw(value any, _ string, _ FieldDef, _ *Document) (any, error) { return value, nil }

func (c *Caster) toDate(value any, name string, def FieldDef, _ *Document) (any, error) {
	return toTime(codec.Date(), value, name, def)
}

func (c *Caster) toDateTime(value any, name string, def FieldDef, _ *Document) (any, error) {
	return toTime(codec.DateTime(), value, name, def)
}

func toTime(tc codec.Codec[string, time.Time], value any, name string, def FieldDef) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, nil
	}
	t, err := tc.Decode(s)
	if err != nil {
		return nil, typeError(value, name, def, err)
	}
	return t, nil
}

func (c *Caster) toUUID(value any, name string, def FieldDef, _ *Document) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		u, err := codec.UUID().Decode(v)
		if err != nil {
			return nil, typeError(value, name, def, err)
		}
		return u, nil
	}
	return nil, typeError(value, name, def, nil)
}

// toSubDocument wraps the stored mapping in a fresh document on every read.
func (c *Caster) toSubDocument(nt *DocumentType, value any, name string, def FieldDef) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return nt.FromDict(v), nil
	}
	return nil, typeError(value, name, def, nil)
}

// ---- helpers ----

func typeError(value any, name string, def FieldDef, cause error) error {
	return &FieldTypeError{Field: name, Type: def.Type, Value: value, Cause: cause}
}

func narrow(d *apd.Decimal, value any, name string, def FieldDef) (any, error) {
	n, err := codec.NarrowDecimal(d)
	if err != nil {
		return nil, typeError(value, name, def, err)
	}
	return n, nil
}

func parseNumber(s string, value any, name string, def FieldDef) (any, error) {
	n, err := codec.ParseNumber(s)
	if err != nil {
		return nil, typeError(value, name, def, err)
	}
	return n, nil
}

// softNumbers resolves numeric leniency: instance override, then the field
// definition, then the document type.
func softNumbers(doc *Document, def FieldDef) bool {
	if doc != nil && doc.opts.SoftNumbers != nil {
		return *doc.opts.SoftNumbers
	}
	if def.SoftNumbers != nil {
		return *def.SoftNumbers
	}
	if doc != nil && doc.typ.options.SoftNumbers != nil {
		return *doc.typ.options.SoftNumbers
	}
	return false
}

func nestedType(doc *Document, typ string) *DocumentType {
	if doc == nil || doc.typ == nil || doc.typ.ns == nil {
		return nil
	}
	return doc.typ.ns.types[typ]
}

// isNull treats untyped nil and nil pointers (including a nil *Document) as
// the absence of a value.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
