package codec

import (
	"fmt"
	"time"
)

// DateLayout is the wire form of a date field.
const DateLayout = "2006-01-02"

var (
	// ZeroDate is the "empty" date: any date not after it counts as unset.
	ZeroDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	// ZeroDateTime is the "empty" datetime sentinel.
	ZeroDateTime = time.Date(1, time.January, 1, 23, 59, 29, 0, time.UTC)
)

// dateTimeLayouts are tried in order when reading an ISO-8601 datetime.
// Layouts without an offset are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	DateLayout,
}

// Date returns a Codec between "2006-01-02" strings and time.Time values.
// Encoding keeps the calendar date of the value in its own location.
func Date() Codec[string, time.Time] { return dateCodec{} }

// DateTime returns a Codec between ISO-8601 strings and time.Time values.
// Encoding uses RFC 3339 with nanoseconds and keeps the value's offset.
func DateTime() Codec[string, time.Time] { return dateTimeCodec{} }

type dateCodec struct{}

func (dateCodec) Decode(a string) (time.Time, error) {
	t, err := ParseDateTime(a)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (dateCodec) Encode(b time.Time) (string, error) { return b.Format(DateLayout), nil }

type dateTimeCodec struct{}

func (dateTimeCodec) Decode(a string) (time.Time, error) { return ParseDateTime(a) }

func (dateTimeCodec) Encode(b time.Time) (string, error) { return b.Format(time.RFC3339Nano), nil }

// ParseDateTime reads an ISO-8601 date or datetime string.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date", ErrInvalidFormat, s)
}

// IsEmptyDate reports whether t is at or before ZeroDate.
func IsEmptyDate(t time.Time) bool { return !t.After(ZeroDate) }

// IsEmptyDateTime reports whether t is at or before ZeroDateTime.
func IsEmptyDateTime(t time.Time) bool { return !t.After(ZeroDateTime) }
