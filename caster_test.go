package schemadoc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemadoc"
)

func mustNamespace(t *testing.T, schema any, opts ...schemadoc.BuildOption) *schemadoc.Namespace {
	t.Helper()
	ts, err := schemadoc.DecodeSchema(schema)
	require.NoError(t, err)
	ns, err := schemadoc.BuildNamespace(ts, opts...)
	require.NoError(t, err)
	return ns
}

func mustNew(t *testing.T, ns *schemadoc.Namespace, typeName string, fields map[string]any) *schemadoc.Document {
	t.Helper()
	d, err := ns.New(typeName, fields)
	require.NoError(t, err)
	return d
}

func TestCaster_SoftNumbers(t *testing.T) {
	ns := mustNamespace(t, []any{
		map[string]any{
			"name":    "Document1",
			"options": map[string]any{"soft_numbers": true},
			"fields":  map[string]any{"x": "number"},
		},
		map[string]any{
			"name":   "Document2",
			"fields": map[string]any{"y": "num"},
		},
	})

	doc1 := mustNew(t, ns, "Document1", nil)
	doc2 := mustNew(t, ns, "Document2", nil).Setup(schemadoc.Options{SoftNumbers: schemadoc.Bool(true)})

	require.NoError(t, doc1.Set("x", "11"))
	require.NoError(t, doc2.Set("y", "22"))

	x, err := schemadoc.Value[int64](doc1, "x")
	require.NoError(t, err)
	y, err := schemadoc.Value[int64](doc2, "y")
	require.NoError(t, err)
	assert.Equal(t, int64(33), x+y)
}

func TestCaster_SoftNumbers_InvalidString(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Document", "fields": map[string]any{"x": "number"}})
	doc := mustNew(t, ns, "Document", nil).Setup(schemadoc.Options{SoftNumbers: schemadoc.Bool(true)})

	err := doc.Set("x", "abc")
	require.ErrorIs(t, err, schemadoc.ErrFieldType)

	var fte *schemadoc.FieldTypeError
	require.True(t, errors.As(err, &fte))
	assert.Equal(t, "x", fte.Field)
	assert.Equal(t, "number", fte.Type)
	assert.Equal(t, "abc", fte.Value)
	assert.NotContains(t, doc.ToDict(), "x")
}

func TestCaster_StrictNumbers_RejectString(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Document", "fields": map[string]any{"x": "number"}})
	doc := mustNew(t, ns, "Document", nil)

	err := doc.Set("x", "10")
	assert.ErrorIs(t, err, schemadoc.ErrFieldType)
	assert.False(t, errors.Is(err, schemadoc.ErrUnimplementedType))
}

func TestCaster_SoftNumbers_Precedence(t *testing.T) {
	ns := mustNamespace(t, map[string]any{
		"name":    "Doc",
		"options": map[string]any{"soft_numbers": true},
		"fields": map[string]any{
			"lenient": map[string]any{"type": "number"},
			"strict":  map[string]any{"type": "number", "soft_numbers": false},
		},
	})

	t.Run("FieldOverridesType", func(t *testing.T) {
		doc := mustNew(t, ns, "Doc", nil)
		assert.NoError(t, doc.Set("lenient", "1"))
		assert.ErrorIs(t, doc.Set("strict", "1"), schemadoc.ErrFieldType)
	})

	t.Run("InstanceOverridesAll", func(t *testing.T) {
		doc := mustNew(t, ns, "Doc", nil).Setup(schemadoc.Options{SoftNumbers: schemadoc.Bool(false)})
		assert.ErrorIs(t, doc.Set("lenient", "1"), schemadoc.ErrFieldType)

		doc.Setup(schemadoc.Options{SoftNumbers: schemadoc.Bool(true)})
		assert.NoError(t, doc.Set("strict", "1"))
	})
}

func TestCaster_Numbers(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{"n": "number"}})
	doc := mustNew(t, ns, "Doc", nil)

	dec := func(s string) *apd.Decimal {
		d, _, err := apd.NewFromString(s)
		require.NoError(t, err)
		return d
	}

	cases := []struct {
		name string
		in   any
		want any
	}{
		{"Int", 5, 5},
		{"Int32", int32(-7), int32(-7)},
		{"Float", 2.5, 2.5},
		{"IntegralDecimal", dec("12.00"), int64(12)},
		{"FractionalDecimal", dec("12.5"), 12.5},
		{"JSONNumber", json.Number("7"), int64(7)},
		{"JSONNumberFraction", json.Number("0.25"), 0.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, doc.Set("n", tc.in))
			assert.Equal(t, tc.want, doc.ToDict()["n"])
		})
	}

	assert.ErrorIs(t, doc.Set("n", true), schemadoc.ErrFieldType)
	assert.ErrorIs(t, doc.Set("n", []int{1}), schemadoc.ErrFieldType)
}

func TestCaster_Date(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Document", "fields": map[string]any{"date": "date"}})

	today := time.Now()
	doc := mustNew(t, ns, "Document", map[string]any{"date": today})
	assert.Equal(t, today.Format("2006-01-02"), doc.ToDict()["date"])

	got, err := schemadoc.Value[time.Time](doc, "date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC), got)

	require.NoError(t, doc.Set("date", "2024-02-29"))
	assert.Equal(t, "2024-02-29", doc.ToDict()["date"])

	err = doc.Set("date", "31/12/2024")
	assert.ErrorIs(t, err, schemadoc.ErrFieldType)
	assert.Equal(t, "2024-02-29", doc.ToDict()["date"], "failed assignment must not touch storage")

	assert.ErrorIs(t, doc.Set("date", 20240229), schemadoc.ErrFieldType)
}

func TestCaster_Date_NonStringStoredReadsAsNil(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Document", "fields": map[string]any{"date": "date"}})
	doc, err := ns.FromDict("Document", map[string]any{"date": 12})
	require.NoError(t, err)

	v, err := doc.Get("date")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCaster_DateTime(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{"at": "datetime"}})
	doc := mustNew(t, ns, "Doc", nil)

	at := time.Date(2025, 6, 1, 8, 30, 0, 500, time.FixedZone("", 2*3600))
	require.NoError(t, doc.Set("at", at))
	assert.Equal(t, "2025-06-01T08:30:00.0000005+02:00", doc.ToDict()["at"])

	got, err := schemadoc.Value[time.Time](doc, "at")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	require.NoError(t, doc.Set("at", "2025-06-01T08:30:00Z"))
	assert.ErrorIs(t, doc.Set("at", "not a date"), schemadoc.ErrFieldType)
}

func TestCaster_UUID(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{"id": "uuid"}})
	doc := mustNew(t, ns, "Doc", nil)

	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, doc.Set("id", id))
	assert.Equal(t, "550e8400e29b41d4a716446655440000", doc.ToDict()["id"])

	got, err := schemadoc.Value[uuid.UUID](doc, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, doc.Set("id", "550E8400-E29B-41D4-A716-446655440000"))
	assert.Equal(t, "550e8400e29b41d4a716446655440000", doc.ToDict()["id"])

	err = doc.Set("id", "invalid-uuid")
	assert.ErrorIs(t, err, schemadoc.ErrFieldType)
	assert.ErrorIs(t, doc.Set("id", 42), schemadoc.ErrFieldType)
}

func TestCaster_UUID_CorruptStoredValue(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{"id": "uuid"}})
	doc, err := ns.FromDict("Doc", map[string]any{"id": "zzz"})
	require.NoError(t, err)

	_, err = doc.Get("id")
	assert.ErrorIs(t, err, schemadoc.ErrFieldType)
}

func TestCaster_Boolean(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{"flag": "bool"}})
	doc := mustNew(t, ns, "Doc", nil)

	for _, s := range []string{"true", "True", "1", "on"} {
		require.NoError(t, doc.Set("flag", s))
		assert.Equal(t, true, doc.ToDict()["flag"], s)
	}
	for _, s := range []string{"false", "yes", "TRUE", ""} {
		require.NoError(t, doc.Set("flag", s))
		assert.Equal(t, false, doc.ToDict()["flag"], s)
	}
	require.NoError(t, doc.Set("flag", true))
	assert.Equal(t, true, doc.ToDict()["flag"])

	assert.ErrorIs(t, doc.Set("flag", 1), schemadoc.ErrFieldType)
}

func TestCaster_StringArrayObject(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{
		"s": "str", "a": "list", "o": "obj",
	}})
	doc := mustNew(t, ns, "Doc", nil)

	assert.ErrorIs(t, doc.Set("s", 5), schemadoc.ErrFieldType)
	require.NoError(t, doc.Set("s", "text"))

	require.NoError(t, doc.Set("a", []string{"x", "y"}))
	assert.Equal(t, []string{"x", "y"}, doc.ToDict()["a"])
	assert.ErrorIs(t, doc.Set("a", "x,y"), schemadoc.ErrFieldType)
	// fixed-size arrays are not lists
	assert.ErrorIs(t, doc.Set("a", uuid.New()), schemadoc.ErrFieldType)
	assert.ErrorIs(t, doc.Set("a", [2]int{1, 2}), schemadoc.ErrFieldType)
	assert.Equal(t, []string{"x", "y"}, doc.ToDict()["a"])

	require.NoError(t, doc.Set("o", map[string]any{"k": 1}))
	assert.Equal(t, map[string]any{"k": 1}, doc.ToDict()["o"])
	assert.ErrorIs(t, doc.Set("o", 5), schemadoc.ErrFieldType)

	// a document assigned to an object field is flattened
	other := mustNew(t, ns, "Doc", map[string]any{"s": "inner"})
	require.NoError(t, doc.Set("o", other))
	assert.Equal(t, map[string]any{"s": "inner"}, doc.ToDict()["o"])
}

func TestCaster_NullPassesThrough(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "Doc", "fields": map[string]any{
		"n": "number", "d": "date", "id": "uuid",
	}})
	doc := mustNew(t, ns, "Doc", map[string]any{"n": nil, "d": nil, "id": nil})

	assert.Equal(t, map[string]any{"n": nil, "d": nil, "id": nil}, doc.ToDict())
	for _, f := range []string{"n", "d", "id"} {
		v, err := doc.Get(f)
		require.NoError(t, err)
		assert.Nil(t, v, f)
	}

	var nilDec *apd.Decimal
	require.NoError(t, doc.Set("n", nilDec))
	assert.Nil(t, doc.ToDict()["n"])
}

func TestCaster_NestedDocuments(t *testing.T) {
	ns := mustNamespace(t, []any{
		map[string]any{"name": "Person", "fields": map[string]any{"name": "string", "address": "Address"}},
		map[string]any{"name": "Address", "fields": map[string]any{"city": "string", "since": "date"}},
	})

	t.Run("MappingIsMaterialized", func(t *testing.T) {
		since := time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC)
		p := mustNew(t, ns, "Person", map[string]any{
			"name":    "Ann",
			"address": map[string]any{"city": "Oslo", "since": since},
		})
		assert.Equal(t, map[string]any{"city": "Oslo", "since": "2020-05-17"}, p.ToDict()["address"])

		a1, err := schemadoc.Value[*schemadoc.Document](p, "address")
		require.NoError(t, err)
		assert.Equal(t, "Address", a1.Type().Name())
		city, err := a1.Get("city")
		require.NoError(t, err)
		assert.Equal(t, "Oslo", city)

		// reads are materialized fresh each time
		a2, err := schemadoc.Value[*schemadoc.Document](p, "address")
		require.NoError(t, err)
		assert.NotSame(t, a1, a2)
	})

	t.Run("DocumentIsFlattened", func(t *testing.T) {
		addr := mustNew(t, ns, "Address", map[string]any{"city": "Rome"})
		p := mustNew(t, ns, "Person", map[string]any{"address": addr})
		assert.Equal(t, map[string]any{"city": "Rome"}, p.ToDict()["address"])
	})

	t.Run("WrongDocumentType", func(t *testing.T) {
		other := mustNew(t, ns, "Person", nil)
		p := mustNew(t, ns, "Person", nil)
		assert.ErrorIs(t, p.Set("address", other), schemadoc.ErrFieldType)
	})

	t.Run("InvalidNestedValue", func(t *testing.T) {
		p := mustNew(t, ns, "Person", nil)
		err := p.Set("address", map[string]any{"city": 5})
		require.ErrorIs(t, err, schemadoc.ErrFieldType)
		var fte *schemadoc.FieldTypeError
		require.True(t, errors.As(err, &fte))
		assert.Equal(t, "city", fte.Field)
		assert.Contains(t, err.Error(), "Person.address")
	})

	t.Run("NotAMapping", func(t *testing.T) {
		p := mustNew(t, ns, "Person", nil)
		assert.ErrorIs(t, p.Set("address", "Main St"), schemadoc.ErrFieldType)
	})

	t.Run("UnsetReadsNil", func(t *testing.T) {
		p := mustNew(t, ns, "Person", nil)
		v, err := p.Get("address")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestCaster_NestedDepthLimit(t *testing.T) {
	ns := mustNamespace(t, map[string]any{
		"name":    "Node",
		"options": map[string]any{"max_depth": 3},
		"fields":  map[string]any{"child": "Node", "label": "string"},
	})
	chain := func(levels int) map[string]any {
		m := map[string]any{"label": "leaf"}
		for i := 0; i < levels; i++ {
			m = map[string]any{"child": m}
		}
		return m
	}

	_, err := ns.New("Node", chain(3))
	require.NoError(t, err)

	_, err = ns.New("Node", chain(50))
	assert.ErrorIs(t, err, schemadoc.ErrMaxDepth)

	t.Run("SelfContainingMapping", func(t *testing.T) {
		m := map[string]any{"label": "loop"}
		m["child"] = m
		_, err := ns.New("Node", m)
		assert.ErrorIs(t, err, schemadoc.ErrMaxDepth)
	})

	t.Run("InstanceLimit", func(t *testing.T) {
		typ, _ := ns.Type("Node")
		_, err := typ.NewWith(schemadoc.Options{MaxDepth: schemadoc.Int(1)}, chain(2))
		assert.ErrorIs(t, err, schemadoc.ErrMaxDepth)
		_, err = typ.NewWith(schemadoc.Options{MaxDepth: schemadoc.Int(10)}, chain(10))
		assert.NoError(t, err)
	})

	t.Run("Set", func(t *testing.T) {
		doc := mustNew(t, ns, "Node", nil)
		assert.ErrorIs(t, doc.Set("child", chain(3)), schemadoc.ErrMaxDepth)
		assert.NoError(t, doc.Set("child", chain(2)))
	})
}

func TestCaster_UnimplementedType(t *testing.T) {
	c := schemadoc.NewCaster()
	def := schemadoc.Field("mystery")

	_, err := c.FromExternal(1, "f", def, nil)
	require.ErrorIs(t, err, schemadoc.ErrUnimplementedType)
	assert.False(t, errors.Is(err, schemadoc.ErrFieldType))
	var ute *schemadoc.UnimplementedTypeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "mystery", ute.Type)

	_, err = c.ToExternal("x", "f", def, nil)
	assert.ErrorIs(t, err, schemadoc.ErrUnimplementedType)

	// null is never type-checked
	v, err := c.FromExternal(nil, "f", def, nil)
	assert.NoError(t, err)
	assert.Nil(t, v)
}

// TestCaster_Roundtrip checks toExternal(fromExternal(v)) == v for every
// primitive kind and that the internal store holds primitives only.
func TestCaster_Roundtrip(t *testing.T) {
	ns := mustNamespace(t, map[string]any{"name": "All", "fields": map[string]any{
		"s": "string", "n": "number", "f": "number", "a": "array", "o": "object",
		"d": "date", "dt": "datetime", "u": "uuid", "b": "boolean",
	}})

	values := map[string]any{
		"s":  "abc",
		"n":  42,
		"f":  2.5,
		"a":  []any{1, "a"},
		"o":  map[string]any{"k": "v"},
		"d":  time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		"dt": time.Date(2023, 12, 31, 23, 59, 59, 999, time.UTC),
		"u":  uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		"b":  true,
	}
	doc := mustNew(t, ns, "All", values)

	for name, want := range values {
		got, err := doc.Get(name)
		require.NoError(t, err, name)
		if wt, ok := want.(time.Time); ok {
			gt, ok := got.(time.Time)
			require.True(t, ok, name)
			assert.True(t, gt.Equal(wt), "%s: %v != %v", name, gt, wt)
			continue
		}
		assert.Equal(t, want, got, name)
	}

	for name, v := range doc.ToDict() {
		switch v.(type) {
		case time.Time, uuid.UUID, *apd.Decimal, *schemadoc.Document:
			t.Fatalf("%s: internal store holds %T", name, v)
		}
	}
}
