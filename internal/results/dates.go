package results

import "time"

// DateLayout defines the canonical ledger date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats t as a UTC YYYY-MM-DD date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
