package jsonschema_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemadoc"
	"github.com/reoring/schemadoc/jsonschema"
)

func buildNamespace(t *testing.T, schema any) *schemadoc.Namespace {
	t.Helper()
	ts, err := schemadoc.DecodeSchema(schema)
	require.NoError(t, err)
	ns, err := schemadoc.BuildNamespace(ts)
	require.NoError(t, err)
	return ns
}

func TestFromType(t *testing.T) {
	ns := buildNamespace(t, []any{
		map[string]any{"name": "Invoice", "fields": map[string]any{
			"number":  map[string]any{"type": "string", "validate": "not-empty"},
			"issued":  map[string]any{"type": "date", "validate": "required"},
			"sent_at": "datetime",
			"id":      "uuid",
			"total":   "number",
			"lines":   map[string]any{"type": "array", "validate": "not-empty"},
			"meta":    "object",
			"paid":    "bool",
			"buyer":   "Party",
		}},
		map[string]any{"name": "Party", "fields": map[string]any{
			"name": map[string]any{"type": "string", "validate": "required"},
		}},
	})
	dt, ok := ns.Type("Invoice")
	require.True(t, ok)

	b, err := json.Marshal(jsonschema.FromType(dt))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$defs": {
			"Party": {
				"title": "Party",
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"]
			}
		},
		"title": "Invoice",
		"type": "object",
		"properties": {
			"buyer":   {"$ref": "#/$defs/Party"},
			"id":      {"type": "string", "pattern": "^[0-9a-f]{32}$"},
			"issued":  {"type": "string", "description": "ISO-8601 date"},
			"lines":   {"type": "array", "minItems": 1},
			"meta":    {"type": "object"},
			"number":  {"type": "string", "minLength": 1},
			"paid":    {"type": "boolean"},
			"sent_at": {"type": "string", "description": "ISO-8601 datetime"},
			"total":   {"type": "number"}
		},
		"required": ["issued", "lines", "number"]
	}`, string(b))
}

func TestFromType_DescribesStoredDates(t *testing.T) {
	ns := buildNamespace(t, map[string]any{"name": "Event", "fields": map[string]any{
		"day": "date",
		"at":  "datetime",
	}})
	dt, _ := ns.Type("Event")
	doc, err := dt.New(map[string]any{
		"day": "2024-05-06T10:00:00Z",
		"at":  "2024-05-06T10:00",
	})
	require.NoError(t, err)

	s := jsonschema.FromType(dt)
	for name, stored := range doc.ToDict() {
		prop := s.Properties[name]
		require.NotNil(t, prop, name)
		assert.IsType(t, "", stored, name)
		assert.Equal(t, "string", prop.Type, name)
		assert.Empty(t, prop.Format, name)
		assert.Empty(t, prop.Pattern, name)
	}
}

func TestFromType_SelfReference(t *testing.T) {
	ns := buildNamespace(t, map[string]any{"name": "Node", "fields": map[string]any{"next": "Node", "v": "number"}})
	dt, _ := ns.Type("Node")

	s := jsonschema.FromType(dt)
	assert.Nil(t, s.Defs)
	assert.Equal(t, "#", s.Properties["next"].Ref)
}

func TestFromNamespace(t *testing.T) {
	ns := buildNamespace(t, []any{
		map[string]any{"name": "A", "fields": map[string]any{"b": "B"}},
		map[string]any{"name": "B", "fields": map[string]any{"a": "A", "flag": "boolean"}},
	})

	got := jsonschema.FromNamespace(ns)
	want := &jsonschema.Schema{
		Schema: jsonschema.Draft,
		Defs: map[string]*jsonschema.Schema{
			"A": {Title: "A", Type: "object", Properties: map[string]*jsonschema.Schema{
				"b": {Ref: "#/$defs/B"},
			}},
			"B": {Title: "B", Type: "object", Properties: map[string]*jsonschema.Schema{
				"a":    {Ref: "#/$defs/A"},
				"flag": {Type: "boolean"},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}
