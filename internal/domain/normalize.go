package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for titles, activity labels and display names.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// OtherCategory is the cost category used when an activity label has no usable first word.
const OtherCategory = "Other"

// ActivityCategory derives the coarse cost category of an activity from the first word of its label.
//
// "Museum visit" -> "Museum", "" -> "Other". This is a stand-in for a structured category field.
func ActivityCategory(activity string) string {
	fields := strings.Fields(activity)
	if len(fields) == 0 {
		return OtherCategory
	}
	return fields[0]
}

// SplitDestination splits a free-text "City, Country" destination.
//
// The city is the first comma-separated part and the country is the last one. A destination
// without a comma yields only a city; country is "" in that case.
func SplitDestination(destination string) (city string, country string) {
	parts := strings.Split(destination, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		country = strings.TrimSpace(parts[len(parts)-1])
	}
	return city, country
}

// InterestTokens splits a comma-separated interests field into trimmed, non-empty tokens.
func InterestTokens(interests string) []string {
	if strings.TrimSpace(interests) == "" {
		return nil
	}
	raw := strings.Split(interests, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if t := strings.TrimSpace(r); t != "" {
			out = append(out, t)
		}
	}
	return out
}
