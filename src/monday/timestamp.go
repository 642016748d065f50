package monday

import (
	"strings"
	"time"
)

const isoLayout = "2006-01-02T15:04:05Z"

// Layouts recognised for board timestamps, tried in order. Zoneless forms are
// read as UTC. Zone abbreviations other than UTC are ambiguous and not
// accepted.
var timestampLayouts = []string{
	time.RFC3339Nano,             // 2025-08-23T11:27:29Z, 2025-08-23T11:27:29.123+00:00
	"2006-01-02 15:04:05 UTC",    // last_updated column text
	"2006-01-02T15:04:05.999999", // bare ISO
	"2006-01-02T15:04:05",        // bare ISO
	"2006-01-02 15:04:05",        // bare ISO with a space separator
}

// NormalizeTimestamp converts a board timestamp into epoch seconds and a
// canonical UTC ISO string. Unparseable input yields 0 and the trimmed raw
// text so the item is still shown.
func NormalizeTimestamp(raw string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ""
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			ts = ts.UTC()
			return ts.Unix(), ts.Format(isoLayout)
		}
	}
	return 0, raw
}
