package statistics

import (
	"fmt"
	"strings"
)

// neighbours is a small proximity map used for destination suggestions.
var neighbours = map[string][]string{
	"USA":       {"Canada", "Mexico"},
	"Canada":    {"USA"},
	"Mexico":    {"USA", "Guatemala", "Belize"},
	"UK":        {"France", "Ireland", "Netherlands"},
	"France":    {"Spain", "Italy", "Germany", "Switzerland", "Belgium", "UK"},
	"Germany":   {"France", "Netherlands", "Belgium", "Switzerland", "Austria", "Czech Republic"},
	"Japan":     {"South Korea", "Taiwan"},
	"China":     {"Japan", "South Korea", "Vietnam", "Thailand", "India"},
	"Australia": {"New Zealand"},
	"Italy":     {"France", "Switzerland", "Austria", "Slovenia", "Greece"},
	"Spain":     {"Portugal", "France", "Morocco"},
}

// NearbyCountries lists neighbours of the visited countries that were not visited yet, in the
// order they are first reached.
func NearbyCountries(visited []string) []string {
	seen := map[string]bool{}
	for _, v := range visited {
		seen[strings.ToLower(strings.TrimSpace(v))] = true
	}
	out := []string{}
	for _, v := range visited {
		for _, n := range neighbours[canonicalCountry(v)] {
			k := strings.ToLower(n)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, n)
		}
	}
	return out
}

func canonicalCountry(c string) string {
	c = strings.TrimSpace(c)
	for k := range neighbours {
		if strings.EqualFold(k, c) {
			return k
		}
	}
	switch strings.ToLower(c) {
	case "united states", "united states of america", "us":
		return "USA"
	case "united kingdom", "england", "great britain":
		return "UK"
	}
	return c
}

// Suggest derives rule-based travel suggestions from aggregated statistics.
func Suggest(st Statistics) []Suggestion {
	out := []Suggestion{}

	if len(st.VisitedCountries) > 0 {
		if nearby := NearbyCountries(st.VisitedCountries); len(nearby) > 0 {
			out = append(out, Suggestion{
				Title: "Explore nearby countries",
				Description: fmt.Sprintf("Since you've visited %s, you might enjoy %s.",
					strings.Join(firstN(st.VisitedCountries, 2), ", "),
					strings.Join(firstN(nearby, 3), ", ")),
				Kind: SuggestionDestination,
			})
		}
	}

	if len(st.TopInterests) > 0 {
		out = append(out, Suggestion{
			Title:       "Based on your interests",
			Description: fmt.Sprintf("Your love for %s suggests you might enjoy destinations known for these activities.", strings.Join(st.TopInterests, ", ")),
			Kind:        SuggestionInterest,
		})
	}

	if st.TotalTrips > 0 {
		out = append(out, Suggestion{
			Title:       "Travel frequency",
			Description: fmt.Sprintf("You've taken %d trips. Consider planning your next adventure soon to maintain your travel rhythm!", st.TotalTrips),
			Kind:        SuggestionHabit,
		})
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
