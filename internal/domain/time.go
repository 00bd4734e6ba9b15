package domain

import "time"

// TimestampLayout matches JavaScript's Date.prototype.toISOString, the format
// every stored timestamp uses.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t as a stored ISO-8601 string in UTC
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts stored timestamps as well as plain dates and RFC 3339 values
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
