// Package jsonkeys walks JSON tokens to recover the key order of an object,
// which map decoding discards.
package jsonkeys

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

var (
	ErrNotObject    = errors.New("jsonkeys: input is not a JSON object")
	ErrDuplicateKey = errors.New("jsonkeys: duplicate key")
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// ObjectKeys returns the top-level keys of the JSON object in data, in
// document order. Duplicate top-level keys are an error.
func ObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		keys  []string
		seen  = map[string]struct{}{}
		stack []frame
	)
	// valueDone flips the enclosing object back to key position after a value.
	valueDone := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if top.kind == kindObject && !top.expectingKey {
				top.expectingKey = true
			}
		}
	}

	first := true
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			if d, ok := tok.(json.Delim); !ok || d != '{' {
				return nil, ErrNotObject
			}
			first = false
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{kind: kindObject, expectingKey: true})
			case '[':
				stack = append(stack, frame{kind: kindArray})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].kind == kindObject && stack[n-1].expectingKey {
				if n == 1 {
					if _, dup := seen[v]; dup {
						return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, v)
					}
					seen[v] = struct{}{}
					keys = append(keys, v)
				}
				stack[n-1].expectingKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
	if first {
		return nil, ErrNotObject
	}
	return keys, nil
}
