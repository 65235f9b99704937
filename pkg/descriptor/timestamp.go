package descriptor

import (
	"strings"
	"time"
)

// TimestampLayout is how created timestamps are written.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// accepted layouts for parsing created values; fractional seconds are
// optional in each.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// Timestamp is a created value. It is written as a plain YAML timestamp,
// never a quoted string, and keeps the text it was parsed from.
type Timestamp struct {
	t   time.Time
	raw string
}

// NewTimestamp returns a timestamp written in TimestampLayout.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC()}
}

// ParseTimestamp parses s, reporting false when it is not a timestamp.
func ParseTimestamp(s string) (Timestamp, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t, raw: s}, true
		}
	}
	return Timestamp{}, false
}

// Time returns the timestamp as a time.Time.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// String returns the text the timestamp is written as.
func (ts Timestamp) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	return ts.t.Format(TimestampLayout)
}

// MarshalYAML writes the timestamp as a bare scalar.
func (ts Timestamp) MarshalYAML() ([]byte, error) {
	return []byte(ts.String()), nil
}

// toTimestamp converts a decoded created value, leaving anything that is
// not a timestamp as it is.
func toTimestamp(v any) any {
	switch x := v.(type) {
	case string:
		if ts, ok := ParseTimestamp(x); ok {
			return ts
		}
	case time.Time:
		return Timestamp{t: x, raw: x.Format(time.RFC3339Nano)}
	}
	return v
}
