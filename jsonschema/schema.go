package jsonschema

// Draft is the dialect declared by exported root schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
// It covers what document types can express and nothing more.
type Schema struct {
	// Root
	Schema string             `json:"$schema,omitempty"`
	Defs   map[string]*Schema `json:"$defs,omitempty"`
	Ref    string             `json:"$ref,omitempty"`
	Title  string             `json:"title,omitempty"`

	Description string `json:"description,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	// String
	Pattern   string `json:"pattern,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`
}
