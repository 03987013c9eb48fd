package codec

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// NarrowDecimal converts a decimal into the plain number stored in a
// document: int64 when it has no fractional part and fits, float64 otherwise.
func NarrowDecimal(d *apd.Decimal) (any, error) {
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("%w: %s is not a finite number", ErrInvalidFormat, d.String())
	}
	var integ, frac apd.Decimal
	d.Modf(&integ, &frac)
	if frac.IsZero() {
		if n, err := d.Int64(); err == nil {
			return n, nil
		}
	}
	f, err := d.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, d.String(), err)
	}
	return f, nil
}

// ParseNumber reads a numeric string with arbitrary precision and narrows it
// like NarrowDecimal. Surrounding whitespace is ignored.
func ParseNumber(s string) (any, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, s)
	}
	return NarrowDecimal(d)
}
