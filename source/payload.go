package source

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON  = errors.New("source: invalid JSON payload")
	ErrPathNotFound = errors.New("source: path not found in payload")
	ErrNotObject    = errors.New("source: payload is not an object")
)

// Payload decodes a JSON object into external field values. With a non-empty
// path (gjson syntax, e.g. "data.invoice") only that sub-tree is decoded.
// Numbers arrive as json.Number so that they keep their exact text.
func Payload(data []byte, path string) (map[string]any, error) {
	r, err := locate(data, path)
	if err != nil {
		return nil, err
	}
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, describe(path))
	}
	return decodeObject([]byte(r.Raw))
}

// Payloads decodes either one object or an array of objects found at path.
func Payloads(data []byte, path string) ([]map[string]any, error) {
	r, err := locate(data, path)
	if err != nil {
		return nil, err
	}
	if r.IsObject() {
		m, err := decodeObject([]byte(r.Raw))
		if err != nil {
			return nil, err
		}
		return []map[string]any{m}, nil
	}
	if !r.IsArray() {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, describe(path))
	}
	var out []map[string]any
	for i, it := range r.Array() {
		if !it.IsObject() {
			return nil, fmt.Errorf("%w: element %d of %s", ErrNotObject, i, describe(path))
		}
		m, err := decodeObject([]byte(it.Raw))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func locate(data []byte, path string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}
	if path == "" {
		return gjson.ParseBytes(data), nil
	}
	r := gjson.GetBytes(data, path)
	if !r.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	return r, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func describe(path string) string {
	if path == "" {
		return "document root"
	}
	return fmt.Sprintf("path %q", path)
}
