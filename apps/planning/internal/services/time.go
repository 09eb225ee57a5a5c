package services

import (
	"fmt"
	"time"
)

// DisplayTimezone is the timezone every normalized timestamp is rendered in.
const DisplayTimezone = "Europe/Paris"

//nolint:gochecknoglobals //loaded once, read-only afterwards
var displayLocation = mustLoadDisplayLocation()

func mustLoadDisplayLocation() *time.Location {
	loc, err := time.LoadLocation(DisplayTimezone)
	if err != nil {
		panic(err)
	}
	return loc
}

// parseISODatetime accepts the timestamp shapes the provider and callers
// send: a bare date (treated as UTC midnight), a date-time with an explicit
// offset or trailing Z, or a naive date-time (treated as UTC).
func parseISODatetime(raw string) (time.Time, error) {
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", raw)
}

func formatInDisplayTimezone(t time.Time) string {
	return t.In(displayLocation).Format(time.RFC3339)
}
