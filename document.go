package schemadoc

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Document is one instance of a DocumentType. It stores field values in their
// internal form and casts on every read and write. A document is meant to be
// owned by one goroutine at a time.
type Document struct {
	typ       *DocumentType
	data      map[string]any
	attrs     map[string]any
	opts      Options
	caster    *Caster
	validator *Validator

	// depth and limit are set on documents materialized from nested
	// mappings during construction.
	depth int
	limit int
}

func newDocument(t *DocumentType, data map[string]any) *Document {
	if data == nil {
		data = map[string]any{}
	}
	return &Document{typ: t, data: data, caster: defaultCaster, validator: defaultValidator}
}

// Type returns the document type.
func (d *Document) Type() *DocumentType { return d.typ }

// Get reads a schema field in its external form, or an instance attribute
// previously stored with Set. Any other name is an *UnknownAttributeError.
func (d *Document) Get(name string) (any, error) {
	if acc, ok := d.typ.accessors[name]; ok {
		return acc.get(d)
	}
	if v, ok := d.attrs[name]; ok {
		return v, nil
	}
	return nil, &UnknownAttributeError{Type: d.typ.name, Name: name}
}

// Set assigns a schema field through the caster. Names that are not schema
// fields are kept as plain instance attributes and never reach ToDict.
func (d *Document) Set(name string, value any) error {
	if acc, ok := d.typ.accessors[name]; ok {
		return acc.set(d, value)
	}
	if d.attrs == nil {
		d.attrs = make(map[string]any)
	}
	d.attrs[name] = value
	return nil
}

// assign sets every declared field present in fields, in declaration order,
// and stops at the first error. Other keys are ignored.
func (d *Document) assign(fields map[string]any) error {
	for _, name := range d.typ.fields.names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if err := d.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// depthLimit is the nesting limit applied while materializing nested
// mappings.
func (d *Document) depthLimit() int {
	if d.limit > 0 {
		return d.limit
	}
	return d.Options().maxDepth()
}

// Value reads a field and asserts its external type. An unset field yields
// the zero T.
func Value[T any](d *Document, name string) (T, error) {
	var zero T
	v, err := d.Get(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("schemadoc: %s.%s holds %T, not %T", d.typ.name, name, v, zero)
	}
	return t, nil
}

// ToDict returns the internal store itself, not a copy. Callers that mutate
// the result mutate the document.
func (d *Document) ToDict() map[string]any { return d.data }

// FromDict replaces the internal store with raw, without casting.
func (d *Document) FromDict(raw map[string]any) *Document {
	if raw == nil {
		raw = map[string]any{}
	}
	d.data = raw
	return d
}

// Setup merges per-instance options over the ones already set. The document
// type is not modified.
func (d *Document) Setup(opts Options) *Document {
	merged, err := mergeOptions(d.opts, opts)
	if err != nil {
		d.typ.ns.logger.Warn().Err(err).Str("type", d.typ.name).Msg("document options not merged")
		return d
	}
	d.opts = merged
	return d
}

// Options returns the effective options: the type's options overlaid with the
// instance ones.
func (d *Document) Options() Options {
	merged, err := mergeOptions(d.typ.options, d.opts)
	if err != nil {
		return d.typ.options.clone()
	}
	return merged
}

// FailedValidations returns every violated rule of the document and its
// nested documents.
func (d *Document) FailedValidations() (FailedValidations, error) {
	return d.validator.FailedValidations(d)
}

// Validate reports whether the document has no failed validations. With
// strict set, failures are also returned as a FailedValidations error.
func (d *Document) Validate(strict bool) (bool, error) {
	fvs, err := d.FailedValidations()
	if err != nil {
		return false, err
	}
	if len(fvs) > 0 {
		if strict {
			return false, fvs
		}
		return false, nil
	}
	return true, nil
}

func (d *Document) String() string { return fmt.Sprintf("%s: %v", d.typ.name, d.data) }

// MarshalJSON encodes the internal store.
func (d *Document) MarshalJSON() ([]byte, error) { return json.Marshal(d.data) }
