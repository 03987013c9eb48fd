package schemadoc

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Namespace maps document-type names to document types so that fields can
// reference sibling types by name. It is read-only once built.
type Namespace struct {
	types  map[string]*DocumentType
	names  []string
	logger zerolog.Logger
}

// BuildOption configures BuildNamespace.
type BuildOption func(*buildConfig)

type buildConfig struct {
	predicates map[string]Predicate
	logger     zerolog.Logger
}

// WithPredicate registers a named predicate that fields can reference from
// their "validate" entry.
func WithPredicate(name string, p Predicate) BuildOption {
	return func(c *buildConfig) { c.predicates[name] = p }
}

// WithPredicates registers several named predicates.
func WithPredicates(m map[string]Predicate) BuildOption {
	return func(c *buildConfig) {
		for k, p := range m {
			c.predicates[k] = p
		}
	}
}

// WithLogger sets the logger used while building and by documents of the
// namespace. The default discards everything.
func WithLogger(l zerolog.Logger) BuildOption {
	return func(c *buildConfig) { c.logger = l }
}

// BuildNamespace builds every document type declared in schemas and wires
// them to one namespace. Field types must resolve to a primitive kind or to a
// type declared in the same call.
func BuildNamespace(schemas []TypeSchema, opts ...BuildOption) (*Namespace, error) {
	cfg := buildConfig{predicates: map[string]Predicate{}, logger: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	ns := &Namespace{types: make(map[string]*DocumentType, len(schemas)), logger: cfg.logger}
	for _, s := range schemas {
		switch {
		case s.Name == "":
			return nil, fmt.Errorf("%w: type declaration without a name", ErrInvalidSchema)
		case isPrimitiveName(s.Name):
			return nil, fmt.Errorf("%w: type name %q shadows a primitive kind", ErrInvalidSchema, s.Name)
		}
		if _, dup := ns.types[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, s.Name)
		}
		ns.types[s.Name] = &DocumentType{
			name:    s.Name,
			fields:  s.Fields.clone(),
			options: s.Options.clone(),
			ns:      ns,
		}
		ns.names = append(ns.names, s.Name)
	}

	for _, name := range ns.names {
		t := ns.types[name]
		if err := t.compile(cfg.predicates); err != nil {
			return nil, err
		}
		cfg.logger.Debug().
			Str("type", name).
			Int("fields", t.fields.Len()).
			Int("rules", len(t.rules)).
			Strs("nested", t.nested).
			Msg("document type registered")
	}
	cfg.logger.Debug().Int("types", len(ns.names)).Msg("namespace built")
	return ns, nil
}

func isPrimitiveName(name string) bool {
	_, ok := PrimitiveKind(name)
	return ok
}

// Type looks up a document type by name.
func (ns *Namespace) Type(name string) (*DocumentType, bool) {
	t, ok := ns.types[name]
	return t, ok
}

// Types returns the type names in declaration order.
func (ns *Namespace) Types() []string { return append([]string(nil), ns.names...) }

// New builds a document of the named type from external field values.
func (ns *Namespace) New(typeName string, fields map[string]any) (*Document, error) {
	t, ok := ns.types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return t.New(fields)
}

// FromDict wraps an internal mapping in a document of the named type.
func (ns *Namespace) FromDict(typeName string, raw map[string]any) (*Document, error) {
	t, ok := ns.types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return t.FromDict(raw), nil
}

// Logger returns the namespace logger.
func (ns *Namespace) Logger() zerolog.Logger { return ns.logger }
