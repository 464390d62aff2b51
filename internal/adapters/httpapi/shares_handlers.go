package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/sharing"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

func (s *Server) ListShares(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	ls, err := s.Sharing.ListShares(r.Context(), actor, planIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shares": shareListingsFromApp(ls)})
}

// InviteToPlan invites a user by email or by user id. A fresh share is 201; an invite that
// reused an existing share is 200.
func (s *Server) InviteToPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body inviteRequest
	if !s.decode(w, r, &body) {
		return
	}
	var (
		res sharing.InviteResult
		err error
	)
	if body.UserID != "" {
		res, err = s.Sharing.Invite(r.Context(), actor, planIDParam(r), domain.UserID(body.UserID), body.CanEdit)
	} else {
		res, err = s.Sharing.InviteByEmail(r.Context(), actor, planIDParam(r), body.Email, body.CanEdit)
	}
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Outcome == domain.InviteCreated {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"share":   shareFromDomain(res.Share),
		"outcome": string(res.Outcome),
	})
}

func (s *Server) RevokeShare(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if err := s.Sharing.Revoke(r.Context(), actor, planIDParam(r), domain.ShareID(chi.URLParam(r, "shareId"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListPendingInvitations(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	invs, err := s.Sharing.PendingInvitations(r.Context(), actor)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]invitationResponse, 0, len(invs))
	for _, in := range invs {
		out = append(out, invitationResponse{
			Share:   shareFromDomain(in.Share),
			Plan:    planFromDomain(in.Plan, domain.AccessNone, ""),
			Inviter: userSummaryFromDomain(in.Inviter),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"invitations": out})
}

func (s *Server) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body respondRequest
	if !s.decode(w, r, &body) {
		return
	}
	sh, err := s.Sharing.Respond(r.Context(), actor, domain.ShareID(chi.URLParam(r, "shareId")), domain.ShareAction(body.Action))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"share": shareFromDomain(sh)})
}

func (s *Server) ListSharedWithMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	sps, err := s.Sharing.SharedWithMe(r.Context(), actor)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]sharedPlanResponse, 0, len(sps))
	for _, sp := range sps {
		access := domain.ResolveAccess(sp.Plan, actor, &sp.Share)
		out = append(out, sharedPlanResponse{
			Plan:  planFromDomain(sp.Plan, access, ""),
			Share: shareFromDomain(sp.Share),
			Owner: userSummaryFromDomain(sp.Owner),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}
