package shared

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayout, value)
}

// ParseEndDate treats a bare YYYY-MM-DD as the last instant of that day so
// the range stays inclusive.
func ParseEndDate(value string) (time.Time, error) {
	parsed, err := ParseDate(value)
	if err != nil || parsed.IsZero() {
		return parsed, err
	}
	if !strings.Contains(value, "T") {
		parsed = parsed.Add(24*time.Hour - time.Microsecond)
	}
	return parsed, nil
}
