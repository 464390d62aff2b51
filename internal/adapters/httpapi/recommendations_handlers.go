package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) GetDayRecommendations(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	day, ok := intParam(w, r, chi.URLParam(r, "day"), "day")
	if !ok {
		return
	}
	recs, err := s.Recommendations.RecommendActivities(r.Context(), actor, planIDParam(r), day)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		PlanID:     string(recs.PlanID),
		Day:        recs.Day,
		Activities: activitiesFromApp(recs.Activities),
		Cached:     recs.Cached,
	})
}

func (s *Server) GetLocationOverview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.actor(w, r); !ok {
		return
	}
	ov, err := s.Recommendations.LocationOverview(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{Location: ov.Location, Markdown: ov.Markdown, Cached: ov.Cached})
}
