package rules

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/schemadoc"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of predicates.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that reads a field of the document being validated
// and compares it with want. path is a field name or a JSON Pointer that may
// descend into nested documents, maps and slices ("/address/country").
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	conds := append([]Conditional{c}, others...)
	return IfAll(conds...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	conds := append([]Conditional{c}, others...)
	return IfAny(conds...)
}

// Then returns a predicate that runs ps only while the condition holds.
func (c Conditional) Then(ps ...schemadoc.Predicate) schemadoc.Predicate {
	all := And(ps...)
	return func(v any, d *schemadoc.Document) string {
		if !evalConditional(d, c) {
			return ""
		}
		return all(v, d)
	}
}

// ---------- Predicate combinators ----------

// And runs every predicate and joins the failure messages with "; ".
func And(ps ...schemadoc.Predicate) schemadoc.Predicate {
	return func(v any, d *schemadoc.Document) string {
		var out []string
		for _, p := range ps {
			if p == nil {
				continue
			}
			if msg := p(v, d); msg != "" {
				out = append(out, msg)
			}
		}
		return strings.Join(out, "; ")
	}
}

// Or passes when any predicate passes. When all fail, the first message is
// returned.
func Or(ps ...schemadoc.Predicate) schemadoc.Predicate {
	return func(v any, d *schemadoc.Document) string {
		first := ""
		for _, p := range ps {
			if p == nil {
				continue
			}
			msg := p(v, d)
			if msg == "" {
				return ""
			}
			if first == "" {
				first = msg
			}
		}
		return first
	}
}

// Not inverts p. msg is reported when p passes.
func Not(p schemadoc.Predicate, msg string) schemadoc.Predicate {
	return func(v any, d *schemadoc.Document) string {
		if p(v, d) == "" {
			return msg
		}
		return ""
	}
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func evalConditional(d *schemadoc.Document, c Conditional) bool {
	// composite AND
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(d, it) {
				return false
			}
		}
		return true
	}
	// composite OR
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(d, it) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(d, strings.TrimPrefix(c.path, "/"))
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// valueAtPath navigates from v by slash-separated segments. Documents are read
// through Get, so values arrive in their external form.
func valueAtPath(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		switch t := cur.(type) {
		case nil:
			return nil, false
		case *schemadoc.Document:
			if t == nil {
				return nil, false
			}
			next, err := t.Get(seg)
			if err != nil {
				return nil, false
			}
			cur = next
			continue
		case map[string]any:
			next, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = next
			continue
		}
		rv := reflect.ValueOf(cur)
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv.Interface()
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= rv.Len() {
				return nil, false
			}
			cur = rv.Index(idx).Interface()
		default:
			return nil, false
		}
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

// equal treats numbers of different Go kinds as equal when their values are.
func equal(a, b any) bool {
	if x, ok := toFloat64(a); ok {
		if y, ok := toFloat64(b); ok {
			return x == y
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareOrdered(cur any, op Op, want any) bool {
	a, ok := toFloat64(cur)
	if !ok {
		return false
	}
	b, ok := toFloat64(want)
	if !ok {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
