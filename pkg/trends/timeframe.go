package trends

import (
	"fmt"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	hourlyLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads a range bound given as RFC 3339, "2006-01-02T15" or a
// plain date. Bounds without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse time %q", ErrInvalidPayload, s)
}
