package recommendations

import "github.com/Overland-East-Bay/travel-planner-api/internal/domain"

// Activity is one suggested activity for a plan day.
type Activity struct {
	Label       string
	Location    string
	Cost        float64
	Description string
	TimeSpent   string
	// Coord is nil when the upstream coordinates were missing or unusable.
	Coord *domain.Coordinate
}

type DayRecommendations struct {
	PlanID     domain.PlanID
	Day        int
	Activities []Activity
	// Cached reports whether the result was served without calling upstream.
	Cached bool
}

type Overview struct {
	Location string
	Markdown string
	Cached   bool
}
