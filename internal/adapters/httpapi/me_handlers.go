package httpapi

import (
	"net/http"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/users"
)

func (s *Server) CreateMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body createMeRequest
	if !s.decode(w, r, &body) {
		return
	}
	u, err := s.Users.CreateMe(r.Context(), sub, users.CreateMeInput{
		DisplayName: body.DisplayName,
		Email:       string(body.Email),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": userFromDomain(u)})
}

func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	u, err := s.Users.GetMe(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromDomain(u)})
}

func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body updateMeRequest
	if !s.decode(w, r, &body) {
		return
	}
	u, err := s.Users.UpdateMe(r.Context(), sub, users.UpdateMeInput{
		DisplayName: usersOptional(body.DisplayName),
		Email:       usersOptional(body.Email),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromDomain(u)})
}

func (s *Server) SetHome(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	var body setHomeRequest
	if !s.decode(w, r, &body) {
		return
	}
	u, err := s.Users.SetHome(r.Context(), sub, users.SetHomeInput{
		Address: body.Address,
		Coord:   coordinate(body.Latitude, body.Longitude),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromDomain(u)})
}

func (s *Server) ClearHome(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subject(w, r)
	if !ok {
		return
	}
	u, err := s.Users.ClearHome(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromDomain(u)})
}

func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	st, err := s.Statistics.ForUser(r.Context(), actor)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"statistics": statisticsFromApp(st)})
}

func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	sugs, err := s.Statistics.SuggestionsForUser(r.Context(), actor)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]suggestionResponse, 0, len(sugs))
	for _, sg := range sugs {
		out = append(out, suggestionResponse{Title: sg.Title, Description: sg.Description, Kind: string(sg.Kind)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}
