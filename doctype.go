package schemadoc

import "fmt"

// accessor is the bound get/set pair of one schema field.
type accessor struct {
	def FieldDef
	get func(d *Document) (any, error)
	set func(d *Document, v any) error
}

// DocumentType is a named, schema-bound class of documents. It is built once
// by BuildNamespace and never mutated afterwards, so it can be shared freely.
type DocumentType struct {
	name    string
	fields  Fields
	options Options
	ns      *Namespace

	accessors map[string]accessor
	rules     []rule
	nested    []string // fields whose type is another document type
}

// Name returns the type name.
func (t *DocumentType) Name() string { return t.name }

// Fields returns a copy of the field definitions in declaration order.
func (t *DocumentType) Fields() Fields { return t.fields.clone() }

// Field returns the resolved definition of one field.
func (t *DocumentType) Field(name string) (FieldDef, bool) {
	acc, ok := t.accessors[name]
	return acc.def, ok
}

// Options returns a copy of the type-level options.
func (t *DocumentType) Options() Options { return t.options.clone() }

// Namespace returns the namespace the type was built in.
func (t *DocumentType) Namespace() *Namespace { return t.ns }

// NestedType returns the document type of a nested-document field.
func (t *DocumentType) NestedType(field string) (*DocumentType, bool) {
	acc, ok := t.accessors[field]
	if !ok {
		return nil, false
	}
	nt, ok := t.ns.types[acc.def.Type]
	return nt, ok
}

// New builds a document from external field values. Every declared field
// present in fields is assigned through the caster; other keys are ignored.
func (t *DocumentType) New(fields map[string]any) (*Document, error) {
	return t.NewWith(Options{}, fields)
}

// NewWith is New with per-instance options applied before any field is cast.
func (t *DocumentType) NewWith(opts Options, fields map[string]any) (*Document, error) {
	d := newDocument(t, nil).Setup(opts)
	if err := d.assign(fields); err != nil {
		return nil, err
	}
	return d, nil
}

// newNested materializes a mapping assigned to a field of parent. The child
// inherits the depth limit of the outermost document under construction.
func (t *DocumentType) newNested(parent *Document, fields map[string]any) (*Document, error) {
	d := newDocument(t, nil)
	d.depth = parent.depth + 1
	d.limit = parent.depthLimit()
	if d.depth > d.limit {
		return nil, fmt.Errorf("%w: %d levels at %s", ErrMaxDepth, d.depth, t.name)
	}
	if err := d.assign(fields); err != nil {
		return nil, err
	}
	return d, nil
}

// FromDict wraps an internal mapping without casting. The document uses raw
// as its storage.
func (t *DocumentType) FromDict(raw map[string]any) *Document {
	return newDocument(t, raw)
}

// compile resolves field types and predicates and builds the accessor table
// and the validation rules. It runs once all types of the namespace are known.
func (t *DocumentType) compile(predicates map[string]Predicate) error {
	t.accessors = make(map[string]accessor, t.fields.Len())
	for _, name := range t.fields.names {
		def := t.fields.defs[name]
		if def.Type == "" {
			return fmt.Errorf("%w: %s.%s has no type", ErrInvalidSchema, t.name, name)
		}
		if _, ok := PrimitiveKind(def.Type); !ok {
			if _, ok := t.ns.types[def.Type]; !ok {
				return fmt.Errorf("schemadoc: type %s: %w", t.name, &UnimplementedTypeError{Field: name, Type: def.Type})
			}
			t.nested = append(t.nested, name)
		}
		if def.Predicate == nil && def.Validate != "" && def.Validate != ValidateRequired && def.Validate != ValidateNotEmpty {
			p, ok := predicates[def.Validate]
			if !ok {
				return fmt.Errorf("%w: %q on %s.%s", ErrUnknownPredicate, def.Validate, t.name, name)
			}
			def.Predicate = p
		}
		t.accessors[name] = bindAccessor(name, def)
		if r := ruleFor(name, def); r != nil {
			t.rules = append(t.rules, r)
		}
	}
	return nil
}

func bindAccessor(name string, def FieldDef) accessor {
	return accessor{
		def: def,
		get: func(d *Document) (any, error) {
			return d.caster.ToExternal(d.data[name], name, def, d)
		},
		set: func(d *Document, v any) error {
			iv, err := d.caster.FromExternal(v, name, def, d)
			if err != nil {
				return err
			}
			d.data[name] = iv
			return nil
		},
	}
}

func wrapNested(doc *Document, field string, err error) error {
	if doc == nil {
		return err
	}
	return fmt.Errorf("%s.%s: %w", doc.typ.name, field, err)
}
