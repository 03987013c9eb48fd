// Package schemadoc provides schema-described documents: records whose
// fields, types and validation rules come from data rather than Go types.
//
// - A Caster converts every field between its external form (time.Time,
//   uuid.UUID, *apd.Decimal, nested *Document, ...) and its internal form
//   (strings, numbers, bools, slices and maps ready for serialization)
// - A Validator evaluates required / not-empty / predicate rules and recurses
//   into nested documents, returning FailedValidations
// - A Document ties both to one DocumentType through a per-type accessor table
//
// Design policy:
// - Schemas are data. Custom checks are referenced by name and registered
//   with WithPredicate, so schema files stay portable.
// - Types are immutable once BuildNamespace returns; documents are not safe
//   for concurrent mutation.
// - Type errors on assignment are returned immediately; rule violations are
//   collected and left to the caller.
//
// Typical usage:
//
//	ts, err := source.File("schema.yaml")
//	ns, err := schemadoc.BuildNamespace(ts, schemadoc.WithPredicates(rules.Builtins()))
//	doc, err := ns.New("Invoice", map[string]any{"date": time.Now()})
//	err = doc.Set("id", uuid.New())
//	ok, err := doc.Validate(false)
//	raw := doc.ToDict()
package schemadoc
