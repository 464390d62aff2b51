package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/itinerary"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	it, err := s.Itinerary.GetItinerary(r.Context(), actor, planIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryResponse{
		Plan:      planFromDomain(it.Plan, it.Access, ""),
		Itinerary: viewsFromApp(it.Views),
	})
}

// AddItem creates an itinerary item. Requests carrying an Idempotency-Key are replayed from
// the stored response on retry.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body addItemRequest
	if !s.decode(w, r, &body) {
		return
	}

	planID := planIDParam(r)
	idem, ok := s.beginIdempotent(w, r, "POST /plans/{planId}/items", struct {
		PlanID domain.PlanID  `json:"planId"`
		Body   addItemRequest `json:"body"`
	}{planID, canonicalAddItem(body)})
	if !ok {
		return
	}

	res, err := s.Itinerary.AddItem(r.Context(), actor, planID, itinerary.NewItem{
		Day:      body.Day,
		Time:     body.Time,
		Activity: body.Activity,
		Location: body.Location,
		Coord:    coordinate(body.Latitude, body.Longitude),
		Cost:     body.Cost,
		Notes:    body.Notes,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	idem.respond(w, r, http.StatusCreated, itemMutationResponse{
		Item:      itemFromDomain(res.Item),
		Itinerary: viewsFromApp(res.Views),
	})
}

func canonicalAddItem(b addItemRequest) addItemRequest {
	b.Activity = domain.NormalizeHumanName(b.Activity)
	return b
}

func (s *Server) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body scheduleRequest
	if !s.decode(w, r, &body) {
		return
	}
	if !body.Time.IsSpecified() {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid time",
			map[string]any{"time": "required (null to unschedule)"})
		return
	}
	var timeOfDay *string
	if v, err := body.Time.Get(); err == nil {
		timeOfDay = &v
	}
	res, err := s.Itinerary.UpdateSchedule(r.Context(), actor, planIDParam(r), domain.ItemID(chi.URLParam(r, "itemId")), body.Day, timeOfDay)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	item := itemFromDomain(res.Item)
	item.DisplayTime = res.DisplayTime
	writeJSON(w, http.StatusOK, itemMutationResponse{
		Item:      item,
		Itinerary: viewsFromApp(res.Views),
	})
}

func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	views, err := s.Itinerary.DeleteItem(r.Context(), actor, planIDParam(r), domain.ItemID(chi.URLParam(r, "itemId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"itinerary": viewsFromApp(views)})
}
