package dateutil

import "time"

// Entity dates arrive as strings and were written by more than one client
// generation, so parsing is lenient.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse attempts the known date layouts in order. The boolean is false when
// none of them match.
func Parse(value string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TodayString returns the current date as 'YYYY-MM-DD'.
func TodayString() string {
	return time.Now().Format("2006-01-02")
}

// DayKey reduces a date string to its ISO calendar day, or "unknown" when
// the date cannot be parsed. Migration buckets legacy records by this key.
func DayKey(value string) string {
	t, ok := Parse(value)
	if !ok {
		return "unknown"
	}
	return t.Format("2006-01-02")
}

// FormatLong renders a date string as a long-form calendar date, e.g.
// "December 19, 2025". Unparseable input is returned unchanged.
func FormatLong(value string) string {
	t, ok := Parse(value)
	if !ok {
		return value
	}
	return t.Format("January 02, 2006")
}

// LocaleDay renders a date string as a short locale day, the bucket key used
// by the statistics aggregation. Unparseable input is returned unchanged.
func LocaleDay(value string) string {
	t, ok := Parse(value)
	if !ok {
		return value
	}
	return t.Format("1/2/2006")
}

// InRange reports whether value falls inclusively between from and to.
// Either bound may be empty; with both empty every parseable date passes.
// An unparseable value never passes.
func InRange(value, from, to string) bool {
	t, ok := Parse(value)
	if !ok {
		return false
	}

	if from != "" {
		f, ok := Parse(from)
		if ok && t.Before(f) {
			return false
		}
	}
	if to != "" {
		u, ok := Parse(to)
		if ok && t.After(u) {
			return false
		}
	}
	return true
}
