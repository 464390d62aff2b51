package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrMalformedTime is returned when a time-of-day string cannot be parsed.
var ErrMalformedTime = errors.New("malformed time of day")

var timeOfDayLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"15:04:05",
}

// ParseTimeOfDay parses a 24-hour ("14:30") or 12-hour ("2:30 PM") time of day and returns
// the canonical 24-hour form "15:04".
func ParseTimeOfDay(raw string) (string, error) {
	t, ok := parseTimeOfDay(raw)
	if !ok {
		return "", ErrMalformedTime
	}
	return t.Format("15:04"), nil
}

// FormatTimeOfDay renders a stored time for display in 12-hour form ("14:30" -> "2:30 PM").
//
// Values that do not parse are returned unchanged.
func FormatTimeOfDay(raw string) string {
	t, ok := parseTimeOfDay(raw)
	if !ok {
		return raw
	}
	return t.Format("3:04 PM")
}

// TimeOfDayMinutes returns minutes since midnight for a parseable time of day.
func TimeOfDayMinutes(raw string) (int, bool) {
	t, ok := parseTimeOfDay(raw)
	if !ok {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func parseTimeOfDay(raw string) (time.Time, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
