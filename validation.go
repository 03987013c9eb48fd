package schemadoc

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/schemadoc/codec"
	"github.com/reoring/schemadoc/i18n"
)

// rule is one field-level check derived from a field definition.
type rule interface {
	check(d *Document) (*FailedValidation, error)
}

// ruleFor derives the rule of a field, or nil when the field is unchecked.
func ruleFor(name string, def FieldDef) rule {
	fr := fieldRule{field: name, def: def}
	switch {
	case def.Predicate != nil:
		return predicateRule{fr}
	case def.Validate == ValidateRequired:
		return requiredRule{fr}
	case def.Validate == ValidateNotEmpty:
		return notEmptyRule{fr}
	}
	return nil
}

type fieldRule struct {
	field string
	def   FieldDef
}

func (r fieldRule) fail(code, ruleName, msg string) *FailedValidation {
	return &FailedValidation{Path: "/" + r.field, Field: r.field, Code: code, Rule: ruleName, Message: msg}
}

func (r fieldRule) data() map[string]string { return map[string]string{"field": r.field} }

// requiredRule fails when the field reads as nil. Any non-nil value passes,
// including empty ones.
type requiredRule struct{ fieldRule }

func (r requiredRule) check(d *Document) (*FailedValidation, error) {
	v, err := d.Get(r.field)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return r.fail(CodeRequired, r.def.Validate, i18n.T(CodeRequired, r.data())), nil
	}
	return nil, nil
}

// notEmptyRule applies the required check, then a kind-aware emptiness check.
// Booleans and nested documents have no empty value.
type notEmptyRule struct{ fieldRule }

func (r notEmptyRule) check(d *Document) (*FailedValidation, error) {
	if fv, err := (requiredRule{r.fieldRule}).check(d); fv != nil || err != nil {
		return fv, err
	}
	v, err := d.Get(r.field)
	if err != nil {
		return nil, err
	}
	k, _ := PrimitiveKind(r.def.Type)
	var empty bool
	switch k {
	case KindString, KindNumber, KindArray, KindObject:
		empty = isFalsy(v)
	case KindDate:
		t, ok := v.(time.Time)
		empty = ok && codec.IsEmptyDate(t)
	case KindDateTime:
		t, ok := v.(time.Time)
		empty = ok && codec.IsEmptyDateTime(t)
	case KindUUID:
		u, ok := v.(uuid.UUID)
		empty = ok && u == uuid.Nil
	}
	if empty {
		return r.fail(CodeNotEmpty, r.def.Validate, i18n.T(CodeNotEmpty, r.data())), nil
	}
	return nil, nil
}

// predicateRule runs a custom predicate. An empty message means the value
// passed.
type predicateRule struct{ fieldRule }

func (r predicateRule) check(d *Document) (*FailedValidation, error) {
	v, err := d.Get(r.field)
	if err != nil {
		return nil, err
	}
	msg := r.def.Predicate(v, d)
	if msg == "" {
		return nil, nil
	}
	name := r.def.Validate
	if name == "" {
		name = CodeCustom
	}
	return r.fail(CodeCustom, name, msg), nil
}

// isFalsy reports whether v is nil, false, a numeric zero, an empty string or
// an empty collection.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Validator collects failed validations of a document and, recursively, of
// its nested documents. It is stateless.
type Validator struct{}

// NewValidator returns the validation engine.
func NewValidator() *Validator { return &Validator{} }

var defaultValidator = NewValidator()

// FailedValidations returns the document's own failures in field order,
// followed by the failures of each nested document in field order. Errors
// are reserved for values that cannot be read back (corrupt raw data) and for
// nesting deeper than the document's MaxDepth.
func (v *Validator) FailedValidations(d *Document) (FailedValidations, error) {
	return v.collect(d, 0, d.Options().maxDepth())
}

func (v *Validator) collect(d *Document, depth, limit int) (FailedValidations, error) {
	if depth > limit {
		return nil, fmt.Errorf("%w: %d levels at %s", ErrMaxDepth, depth, d.typ.name)
	}
	out := FailedValidations{}
	for _, r := range d.typ.rules {
		fv, err := r.check(d)
		if err != nil {
			return nil, err
		}
		if fv != nil {
			out = append(out, *fv)
		}
	}
	for _, name := range d.typ.nested {
		val, err := d.Get(name)
		if err != nil {
			return nil, err
		}
		sub, _ := val.(*Document)
		if sub == nil {
			continue
		}
		child, err := v.collect(sub, depth+1, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, child.rebase("/"+name)...)
	}
	return out, nil
}
