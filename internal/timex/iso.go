package timex

import (
	"fmt"
	"time"
)

// isoLayout matches the timestamp format the deal records and tombstones are
// exchanged in. Keeping one shared format means lexicographic comparison of
// two timestamps orders them chronologically, which the merge engine relies
// on.
const isoLayout = "2006-01-02T15:04:05.000000"

// FormatISO renders t in the shared ISO-8601 form.
func FormatISO(t time.Time) string {
	return t.Format(isoLayout)
}

// ParseISO parses a timestamp produced by this or an older instance. Peers
// have written several ISO-8601 variants over time, so a few layouts are
// accepted.
func ParseISO(s string) (time.Time, error) {
	layouts := []string{
		isoLayout,
		"2006-01-02T15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
}
