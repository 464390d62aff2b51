package recommendations

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// MaxActivities caps the activities returned for one day.
const MaxActivities = 5

func malformed(format string, args ...any) *apperr.Error {
	return apperr.New(apperr.MalformedUpstreamResponse, format, args...).WithCode("MALFORMED_UPSTREAM_RESPONSE")
}

// ParseActivities extracts the JSON array embedded in free model text (first '[' to last ']').
//
// Coordinates and costs are parsed leniently: unusable values become nil or 0. A missing array,
// invalid JSON or an entry without an activity label fails the whole response.
func ParseActivities(text string) ([]Activity, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, malformed("response does not contain a JSON array")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text[start : end+1])))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, malformed("response array is not valid JSON").WithCause(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("response array is not valid JSON")
	}
	if len(raw) == 0 {
		return nil, malformed("response contains no activities")
	}

	out := make([]Activity, 0, min(len(raw), MaxActivities))
	for i, r := range raw {
		if len(out) == MaxActivities {
			break
		}
		label := domain.NormalizeHumanName(stringField(r, "activity", "name", "title"))
		if label == "" {
			return nil, malformed("activity %d has no label", i+1)
		}
		a := Activity{
			Label:       label,
			Location:    strings.TrimSpace(stringField(r, "location")),
			Cost:        costField(r["cost"]),
			Description: strings.TrimSpace(stringField(r, "description")),
			TimeSpent:   strings.TrimSpace(stringField(r, "time_spent", "timeSpent")),
		}
		if c, ok := domain.ParseCoordinate(firstPresent(r, "latitude", "lat"), firstPresent(r, "longitude", "lng", "lon")); ok {
			a.Coord = &c
		}
		out = append(out, a)
	}
	return out, nil
}

func firstPresent(r map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(r map[string]any, keys ...string) string {
	switch v := firstPresent(r, keys...).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// costField reads a number or a numeric string such as "$25"; anything else is 0.
func costField(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimLeft(strings.TrimSpace(s), "$€£¥")
	}
	f, ok := domain.ParseDegrees(v)
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var introLine = regexp.MustCompile(`(?i)^\s*(?:okay,\s+|sure,\s+|here\s+(?:is|are)\b|i'd\s+be\s+happy\s+to\b|here's\s+(?:some|the)\b|let\s+me\s+provide\s+you\b|i'll\s+provide\s+you\b|certainly[\s,!]+)[^\n]*`)

// CleanOverview strips a conversational first line ("Sure, here is ...") from model markdown.
func CleanOverview(text string) string {
	return strings.TrimSpace(introLine.ReplaceAllString(text, ""))
}
