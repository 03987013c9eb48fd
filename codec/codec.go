// Package codec holds the leaf conversions between the internal (wire) form
// of a field value and its external Go form.
package codec

import "errors"

// ErrInvalidFormat is wrapped by every decode failure of this package.
var ErrInvalidFormat = errors.New("codec: invalid format")

// Codec performs bidirectional transformation between the wire representation
// A (stored in a document) and the domain representation B (seen by callers).
type Codec[A, B any] interface {
	Decode(a A) (B, error) // A (wire) -> B (domain).
	Encode(b B) (A, error) // B (domain) -> A (wire).
}
