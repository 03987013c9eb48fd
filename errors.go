package schemadoc

import (
	"errors"
	"fmt"
	"strings"
)

// Failed validation codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired    = "required"
	CodeNotEmpty    = "not_empty"
	CodeCustom      = "custom"
	CodeInvalidType = "invalid_type"
)

var (
	// ErrFieldType matches every *FieldTypeError via errors.Is.
	ErrFieldType = errors.New("schemadoc: value is not compatible with field type")
	// ErrUnimplementedType matches every *UnimplementedTypeError via errors.Is.
	ErrUnimplementedType = errors.New("schemadoc: field type is not implemented")
	// ErrUnknownAttribute matches every *UnknownAttributeError via errors.Is.
	ErrUnknownAttribute = errors.New("schemadoc: unknown attribute")

	ErrInvalidSchema    = errors.New("schemadoc: invalid schema")
	ErrDuplicateType    = errors.New("schemadoc: duplicate document type")
	ErrUnknownType      = errors.New("schemadoc: unknown document type")
	ErrUnknownPredicate = errors.New("schemadoc: unknown validation predicate")
	ErrMaxDepth         = errors.New("schemadoc: maximum nesting depth exceeded")
)

// FieldTypeError reports a value whose Go kind does not fit the declared field
// type. It is a data error: the schema is fine, the input is not.
type FieldTypeError struct {
	Field string
	Type  string
	Value any
	Cause error // Optional: underlying parse error.
}

func (e *FieldTypeError) Error() string {
	msg := fmt.Sprintf("value %v is not compatible with field %s of type %s", e.Value, e.Field, e.Type)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FieldTypeError) Unwrap() error { return e.Cause }

func (e *FieldTypeError) Is(target error) bool { return target == ErrFieldType }

// UnimplementedTypeError reports a declared field type that is neither a
// primitive kind nor a document type of the namespace. It is a schema error.
type UnimplementedTypeError struct {
	Field string
	Type  string
	Value any
}

func (e *UnimplementedTypeError) Error() string {
	return fmt.Sprintf("field %s with type %s is not implemented for value %v", e.Field, e.Type, e.Value)
}

func (e *UnimplementedTypeError) Is(target error) bool { return target == ErrUnimplementedType }

// UnknownAttributeError reports a read of a name that is neither a schema
// field nor an instance attribute.
type UnknownAttributeError struct {
	Type string
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("attribute %q is not defined on %s", e.Name, e.Type)
}

func (e *UnknownAttributeError) Is(target error) bool { return target == ErrUnknownAttribute }

// FailedValidation describes one violated rule.
type FailedValidation struct {
	Path    string `json:"path"` // JSON Pointer of the field (for example: /address/city).
	Field   string `json:"field"`
	Code    string `json:"code"` // One of the codes listed above.
	Rule    string `json:"rule"` // Rule name as declared in the schema ("required", "not-empty", predicate name).
	Message string `json:"message"`
}

// FailedValidations is the aggregate validation error. It is only returned
// as an error when the caller asks for strict validation.
type FailedValidations []FailedValidation

// Error joins every message with "; ".
func (fvs FailedValidations) Error() string {
	return strings.Join(fvs.Messages(), "; ")
}

// Messages returns the human-readable message of each failure, in order.
func (fvs FailedValidations) Messages() []string {
	out := make([]string, len(fvs))
	for i, fv := range fvs {
		out[i] = fv.Message
	}
	return out
}

// rebase prefixes every path with base, the pointer of the owning field.
func (fvs FailedValidations) rebase(base string) FailedValidations {
	out := make(FailedValidations, len(fvs))
	for i, fv := range fvs {
		p := fv.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		fv.Path = p
		out[i] = fv
	}
	return out
}

// AsFailedValidations extracts FailedValidations from an error using errors.As internally.
func AsFailedValidations(err error) (FailedValidations, bool) {
	if err == nil {
		return nil, false
	}
	var fvs FailedValidations
	if errors.As(err, &fvs) {
		return fvs, true
	}
	return nil, false
}
