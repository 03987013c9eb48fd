package jsonschema

import (
	"github.com/reoring/schemadoc"
)

// UUIDPattern matches the internal form of uuid fields: 32 lowercase hex
// digits without dashes.
const UUIDPattern = "^[0-9a-f]{32}$"

// Descriptions of date and datetime fields.
const (
	DateDescription     = "ISO-8601 date"
	DateTimeDescription = "ISO-8601 datetime"
)

// FromType projects the internal form of dt. Nested document types are
// emitted under $defs and referenced with $ref; a type that nests itself
// refers to the root ("#").
func FromType(dt *schemadoc.DocumentType) *Schema {
	e := exporter{root: dt.Name(), defs: map[string]*Schema{}}
	s := e.object(dt)
	s.Schema = Draft
	if len(e.defs) > 0 {
		s.Defs = e.defs
	}
	return s
}

// FromNamespace projects every type of ns under $defs.
func FromNamespace(ns *schemadoc.Namespace) *Schema {
	e := exporter{defs: map[string]*Schema{}}
	for _, name := range ns.Types() {
		dt, _ := ns.Type(name)
		e.define(dt)
	}
	return &Schema{Schema: Draft, Defs: e.defs}
}

type exporter struct {
	root string
	defs map[string]*Schema
}

func (e *exporter) define(dt *schemadoc.DocumentType) {
	if dt.Name() == e.root {
		return
	}
	if _, done := e.defs[dt.Name()]; done {
		return
	}
	// reserve the slot first so that cycles terminate
	e.defs[dt.Name()] = &Schema{}
	*e.defs[dt.Name()] = *e.object(dt)
}

func (e *exporter) ref(name string) string {
	if name == e.root {
		return "#"
	}
	return "#/$defs/" + name
}

func (e *exporter) object(dt *schemadoc.DocumentType) *Schema {
	s := &Schema{Title: dt.Name(), Type: "object", Properties: map[string]*Schema{}}
	for _, name := range dt.Fields().Names() {
		def, _ := dt.Field(name)
		if def.Validate == schemadoc.ValidateRequired || def.Validate == schemadoc.ValidateNotEmpty {
			s.Required = append(s.Required, name)
		}
		if nt, ok := dt.NestedType(name); ok {
			e.define(nt)
			s.Properties[name] = &Schema{Ref: e.ref(nt.Name())}
			continue
		}
		s.Properties[name] = property(def)
	}
	return s
}

func property(def schemadoc.FieldDef) *Schema {
	k, _ := def.Kind()
	notEmpty := def.Validate == schemadoc.ValidateNotEmpty
	one := 1
	switch k {
	case schemadoc.KindString:
		s := &Schema{Type: "string"}
		if notEmpty {
			s.MinLength = &one
		}
		return s
	case schemadoc.KindNumber:
		return &Schema{Type: "number"}
	case schemadoc.KindArray:
		s := &Schema{Type: "array"}
		if notEmpty {
			s.MinItems = &one
		}
		return s
	case schemadoc.KindObject:
		return &Schema{Type: "object"}
	// Date strings are stored as given and need not fit format "date" or
	// "date-time".
	case schemadoc.KindDate:
		return &Schema{Type: "string", Description: DateDescription}
	case schemadoc.KindDateTime:
		return &Schema{Type: "string", Description: DateTimeDescription}
	case schemadoc.KindUUID:
		return &Schema{Type: "string", Pattern: UUIDPattern}
	case schemadoc.KindBoolean:
		return &Schema{Type: "boolean"}
	}
	return &Schema{}
}
