package sqlite

import (
	"fmt"
	"time"
)

// parseRFC3339 turns a stored intake_events timestamp back into a time.Time.
// The at column holds RFC3339 TEXT, which sorts lexicographically in order
// and sidesteps SQLite's lack of a native datetime type.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
