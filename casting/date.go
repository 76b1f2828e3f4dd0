package casting

import (
	"math"
	"strings"
	"time"

	"github.com/codemix/modeling/internal/value"
)

// dateLayouts are tried in order for textual dates. Layouts without a zone
// are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate reads v as a time.Time. Times pass through, strings are parsed
// against the known layouts and numbers are Unix milliseconds.
func ParseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
	default:
		if f, ok := value.Number(v); ok && !math.IsNaN(f) {
			return time.UnixMilli(int64(f)).UTC(), nil
		}
	}
	return time.Time{}, &InvalidDateError{Value: v}
}

// FormatDate renders t canonically: UTC, RFC3339 with trailing zeros trimmed.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
