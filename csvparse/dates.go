package csvparse

import (
	"strings"
	"time"
)

// fallbackLayouts are tried in order after a format's preferred layout.
// Non-padded layouts also accept zero-padded values, so "1/2/2006" covers
// both "1/15/2024" and "01/15/2024".
var fallbackLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006-01-02",
	"2/1/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate normalizes a date string to ISO "2006-01-02". The preferred
// layout is tried first, then the fallback list. A date that matches nothing
// reports !ok; callers treat that as a row-level error, not a fatal one.
func ParseDate(raw, preferred string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if preferred != "" {
		if t, err := time.Parse(preferred, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	for _, layout := range fallbackLayouts {
		if layout == preferred {
			continue
		}
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
