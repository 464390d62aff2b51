package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/plans"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

const defaultQRSize = 256

func (s *Server) ListMyPlans(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	vs, err := s.Plans.ListOwned(r.Context(), actor)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]planResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, planViewFromApp(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}

func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body createPlanRequest
	if !s.decode(w, r, &body) {
		return
	}
	v, err := s.Plans.CreatePlan(r.Context(), actor, plans.CreatePlanInput{
		Title:            body.Title,
		Destination:      body.Destination,
		DestinationCoord: coordinate(body.Latitude, body.Longitude),
		StartDate:        body.StartDate.Time,
		EndDate:          body.EndDate.Time,
		Budget:           body.Budget,
		Interests:        body.Interests,
		Visibility:       domain.Visibility(body.Visibility),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"plan": planViewFromApp(v)})
}

func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	v, err := s.Plans.GetPlan(r.Context(), actor, planIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": planViewFromApp(v)})
}

func (s *Server) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body updatePlanRequest
	if !s.decode(w, r, &body) {
		return
	}
	coord, ok := coordinatePatch(w, r, body)
	if !ok {
		return
	}
	v, err := s.Plans.UpdatePlan(r.Context(), actor, planIDParam(r), plans.UpdatePlanInput{
		Title:            plansOptional(body.Title),
		Destination:      plansOptional(body.Destination),
		DestinationCoord: coord,
		StartDate:        plansOptionalDate(body.StartDate),
		EndDate:          plansOptionalDate(body.EndDate),
		Budget:           plansOptional(body.Budget),
		Interests:        plansOptional(body.Interests),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": planViewFromApp(v)})
}

// coordinatePatch combines the latitude/longitude patch fields, which must be sent together.
func coordinatePatch(w http.ResponseWriter, r *http.Request, body updatePlanRequest) (plans.Optional[domain.Coordinate], bool) {
	lat, lng := body.Latitude, body.Longitude
	switch {
	case !lat.IsSpecified() && !lng.IsSpecified():
		return plans.Unspecified[domain.Coordinate](), true
	case lat.IsNull() && lng.IsNull():
		return plans.Null[domain.Coordinate](), true
	}
	la, errLat := lat.Get()
	ln, errLng := lng.Get()
	if errLat != nil || errLng != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid coordinate",
			map[string]any{"latitude": "latitude and longitude must be set or cleared together"})
		return plans.Optional[domain.Coordinate]{}, false
	}
	return plans.Some(domain.Coordinate{Lat: la, Lng: ln}), true
}

func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if err := s.Plans.DeletePlan(r.Context(), actor, planIDParam(r)); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) SetVisibility(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body visibilityRequest
	if !s.decode(w, r, &body) {
		return
	}
	v, err := s.Plans.SetVisibility(r.Context(), actor, planIDParam(r), domain.Visibility(body.Visibility))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": planViewFromApp(v)})
}

func (s *Server) RotateShareCode(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	v, err := s.Plans.RotateShareCode(r.Context(), actor, planIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": planViewFromApp(v)})
}

func (s *Server) GetShareQRCode(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, ok = intParam(w, r, raw, "size"); !ok {
			return
		}
	}
	png, err := s.Plans.ShareQRCode(r.Context(), actor, planIDParam(r), size)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// GetSharedPlan serves a public link without authentication: the plan and its itinerary,
// read-only.
func (s *Server) GetSharedPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.Plans.GetByShareCode(r.Context(), chi.URLParam(r, "shareCode"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	it, err := s.Itinerary.GetItinerary(r.Context(), "", p.ID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryResponse{
		Plan:      planFromDomain(it.Plan, it.Access, ""),
		Itinerary: viewsFromApp(it.Views),
	})
}
