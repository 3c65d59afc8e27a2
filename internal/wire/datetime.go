package wire

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the local date-time layout used on the wire.
// Fractional seconds are emitted only when present.
const DateTimeLayout = "2006-01-02T15:04:05.999999999"

// parseLayouts are tried in order. Offset-bearing values keep their wall clock.
var parseLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// DateTime is a wall-clock date and time without zone semantics.
type DateTime time.Time

// NewDateTime returns t's wall clock as a DateTime.
func NewDateTime(t time.Time) DateTime {
	return DateTime(wallClock(t))
}

// Time returns the wall clock as a UTC time.Time.
func (d DateTime) Time() time.Time { return time.Time(d) }

// String formats the value with DateTimeLayout.
func (d DateTime) String() string { return time.Time(d).Format(DateTimeLayout) }

// MarshalJSON encodes the value as a JSON string.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a JSON string in any accepted layout.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priceTimestamp: %w", err)
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = t
	return nil
}

// ParseDateTime parses a local date-time, also accepting RFC 3339 input.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("priceTimestamp: cannot parse %q as a local date-time", s)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
