package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// UUID returns a Codec between 32-digit lowercase hex strings (no dashes) and
// uuid.UUID values. Decoding accepts every form uuid.Parse understands.
func UUID() Codec[string, uuid.UUID] { return uuidCodec{} }

type uuidCodec struct{}

func (uuidCodec) Decode(a string) (uuid.UUID, error) {
	u, err := uuid.Parse(a)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a UUID: %v", ErrInvalidFormat, a, err)
	}
	return u, nil
}

func (uuidCodec) Encode(b uuid.UUID) (string, error) { return hex.EncodeToString(b[:]), nil }

// NormalizeUUID rewrites any accepted UUID spelling into the wire form.
func NormalizeUUID(s string) (string, error) {
	u, err := uuidCodec{}.Decode(s)
	if err != nil {
		return "", err
	}
	return uuidCodec{}.Encode(u)
}
