package filter

import (
	"strings"
	"time"
)

// exactLayouts are tried first, in order. Day-first wins over month-first
// for ambiguous slash dates.
var exactLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
}

// fallbackLayouts cover offsets, comma fractions and looser shapes
var fallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -07:00",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05,999999999",
	"2006-01-02T15:04:05,999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
	time.Stamp,
}

// ParseTimestamp parses a header timestamp in local time.
// It reports false when no known layout fits.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range exactLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EndOfDay widens an upper bound given at exactly midnight to the last tick
// of that day, so "to 2024-01-31" includes all of January 31st.
func EndOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_999_900, t.Location())
}
