package rules

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/schemadoc"
	"github.com/reoring/schemadoc/i18n"
)

// Every check below lets nil through; absence is the job of the "required"
// and "not-empty" rules.

// MinLength requires strings to have at least n characters and collections at
// least n items.
func MinLength(n int) schemadoc.Predicate {
	return func(v any, _ *schemadoc.Document) string {
		l, ok := length(v)
		if !ok || l >= n {
			return ""
		}
		return i18n.T("too_short", map[string]string{"min": strconv.Itoa(n)})
	}
}

// MaxLength requires strings to have at most n characters and collections at
// most n items.
func MaxLength(n int) schemadoc.Predicate {
	return func(v any, _ *schemadoc.Document) string {
		l, ok := length(v)
		if !ok || l <= n {
			return ""
		}
		return i18n.T("too_long", map[string]string{"max": strconv.Itoa(n)})
	}
}

// Min requires numbers to be >= min.
func Min(min float64) schemadoc.Predicate {
	return func(v any, _ *schemadoc.Document) string {
		f, ok := toFloat64(v)
		if !ok || f >= min {
			return ""
		}
		return i18n.T("too_small", map[string]string{"min": formatNumber(min)})
	}
}

// Max requires numbers to be <= max.
func Max(max float64) schemadoc.Predicate {
	return func(v any, _ *schemadoc.Document) string {
		f, ok := toFloat64(v)
		if !ok || f <= max {
			return ""
		}
		return i18n.T("too_big", map[string]string{"max": formatNumber(max)})
	}
}

// Range requires numbers to lie in [min, max].
func Range(min, max float64) schemadoc.Predicate { return And(Min(min), Max(max)) }

// Pattern requires strings to match expr. It panics if expr does not compile,
// like regexp.MustCompile.
func Pattern(expr string) schemadoc.Predicate {
	re := regexp.MustCompile(expr)
	return func(v any, _ *schemadoc.Document) string {
		s, ok := v.(string)
		if !ok || re.MatchString(s) {
			return ""
		}
		return i18n.T("pattern", map[string]string{"pattern": expr})
	}
}

// OneOf requires the value to equal one of values. Numbers compare by value
// across Go kinds.
func OneOf(values ...any) schemadoc.Predicate {
	list := make([]string, len(values))
	for i, w := range values {
		list[i] = fmt.Sprint(w)
	}
	msg := strings.Join(list, ", ")
	return func(v any, _ *schemadoc.Document) string {
		if v == nil {
			return ""
		}
		for _, w := range values {
			if equal(v, w) {
				return ""
			}
		}
		return i18n.T("invalid_enum", map[string]string{"values": msg})
	}
}

// AtLeastOne requires a collection to have at least one element. Values that
// are not collections pass.
func AtLeastOne() schemadoc.Predicate {
	return func(v any, _ *schemadoc.Document) string {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				return i18n.T("too_short", map[string]string{"min": "1"})
			}
		default:
			// Not a collection; do not report here to avoid noise
		}
		return ""
	}
}

// UniqueBy ensures elements of a collection have unique key values. keyPath
// is a path inside each element (e.g., "sku" or "/sku"); an empty keyPath
// compares the elements themselves. Elements without the key are skipped.
// Note: keys are compared by their fmt.Sprint form, so mixed-type keys may
// collide. Align the data so the key is a single type.
func UniqueBy(keyPath string) schemadoc.Predicate {
	kp := strings.Trim(keyPath, "/")
	return func(v any, _ *schemadoc.Document) string {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return ""
		}
		seen := map[string]int{}
		var dups []string
		for i := 0; i < rv.Len(); i++ {
			kv, ok := valueAtPath(rv.Index(i).Interface(), kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if _, dup := seen[key]; dup {
				dups = append(dups, i18n.T("uniqueness", map[string]string{"key": key}))
				continue
			}
			seen[key] = i
		}
		return strings.Join(dups, "; ")
	}
}

// Builtins returns the named predicates that schemas can reference from their
// "validate" entry once registered with schemadoc.WithPredicates.
func Builtins() map[string]schemadoc.Predicate {
	return map[string]schemadoc.Predicate{
		"positive": func(v any, _ *schemadoc.Document) string {
			f, ok := toFloat64(v)
			if !ok || f > 0 {
				return ""
			}
			return i18n.T("not_positive", nil)
		},
		"non-negative": Min(0),
		"at-least-one": AtLeastOne(),
		"unique":       UniqueBy(""),
		"lowercase": func(v any, _ *schemadoc.Document) string {
			s, ok := v.(string)
			if !ok || s == strings.ToLower(s) {
				return ""
			}
			return i18n.T("business_rule", nil)
		},
		"trimmed": func(v any, _ *schemadoc.Document) string {
			s, ok := v.(string)
			if !ok || s == strings.TrimSpace(s) {
				return ""
			}
			return i18n.T("business_rule", nil)
		},
	}
}

// length returns the character count of a string or the item count of a
// collection.
func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
