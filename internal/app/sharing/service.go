package sharing

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	clockport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/txn"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

// Service owns the collaboration state machine of plans:
// NoRelation -> Pending -> Accepted | Rejected, Rejected -> Pending on re-invite,
// and revoke back to NoRelation.
type Service struct {
	plans  planrepo.Repository
	shares sharerepo.Repository
	users  userrepo.Repository
	tx     txn.Runner
	clk    clockport.Clock

	newShareID func() domain.ShareID
}

func NewService(plans planrepo.Repository, shares sharerepo.Repository, users userrepo.Repository, tx txn.Runner, clk clockport.Clock) *Service {
	return &Service{
		plans:  plans,
		shares: shares,
		users:  users,
		tx:     tx,
		clk:    clk,
		newShareID: func() domain.ShareID {
			return domain.ShareID(uuid.NewString())
		},
	}
}

// SetNewShareIDForTest overrides share ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewShareIDForTest(fn func() domain.ShareID) {
	if fn != nil {
		s.newShareID = fn
	}
}

func planNotFound() *apperr.Error {
	return apperr.New(apperr.NotFound, "plan not found").WithCode("PLAN_NOT_FOUND")
}

func shareNotFound() *apperr.Error {
	return apperr.New(apperr.NotFound, "share not found").WithCode("SHARE_NOT_FOUND")
}

func (s *Service) loadPlan(ctx context.Context, planID domain.PlanID) (domain.Plan, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return domain.Plan{}, planNotFound()
		}
		return domain.Plan{}, err
	}
	return p, nil
}

func (s *Service) actorShare(ctx context.Context, planID domain.PlanID, actor domain.UserID) (*domain.Share, error) {
	if actor == "" {
		return nil, nil
	}
	sh, err := s.shares.GetByPlanAndInvitee(ctx, planID, actor)
	if err != nil {
		if errors.Is(err, sharerepo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sh, nil
}

// ResolveAccess computes the actor's access to the plan from storage. An empty actor is an
// anonymous visitor.
func (s *Service) ResolveAccess(ctx context.Context, planID domain.PlanID, actor domain.UserID) (domain.Access, error) {
	_, access, err := s.resolve(ctx, planID, actor)
	return access, err
}

func (s *Service) resolve(ctx context.Context, planID domain.PlanID, actor domain.UserID) (domain.Plan, domain.Access, error) {
	p, err := s.loadPlan(ctx, planID)
	if err != nil {
		return domain.Plan{}, domain.AccessNone, err
	}
	if p.OwnerID == actor {
		return p, domain.AccessOwner, nil
	}
	sh, err := s.actorShare(ctx, planID, actor)
	if err != nil {
		return domain.Plan{}, domain.AccessNone, err
	}
	return p, domain.ResolveAccess(p, actor, sh), nil
}

// Authorize loads the plan and fails with PermissionDenied unless the actor holds at least min.
func (s *Service) Authorize(ctx context.Context, planID domain.PlanID, actor domain.UserID, min domain.Access) (domain.Plan, domain.Access, error) {
	p, access, err := s.resolve(ctx, planID, actor)
	if err != nil {
		return domain.Plan{}, domain.AccessNone, err
	}
	if access < min {
		msg := "you do not have permission to view this plan"
		if min >= domain.AccessViewAndEdit && access.CanView() {
			msg = "you do not have permission to edit this plan"
		}
		if min == domain.AccessOwner && access.CanView() {
			msg = "only the plan owner can do this"
		}
		return domain.Plan{}, access, apperr.New(apperr.PermissionDenied, "%s", msg).
			WithDetails(map[string]any{"access": access.String(), "required": min.String()})
	}
	return p, access, nil
}

func (s *Service) Invite(ctx context.Context, inviter domain.UserID, planID domain.PlanID, invitee domain.UserID, canEdit bool) (InviteResult, error) {
	return s.invite(ctx, inviter, planID, canEdit, func(ctx context.Context) (domain.User, error) {
		u, err := s.users.GetByID(ctx, invitee)
		if err != nil {
			if errors.Is(err, userrepo.ErrNotFound) {
				return domain.User{}, apperr.New(apperr.NotFound, "user not found").WithCode("USER_NOT_FOUND")
			}
			return domain.User{}, err
		}
		return u, nil
	})
}

// InviteByEmail resolves the invitee by email (case-insensitive) and then behaves as Invite.
func (s *Service) InviteByEmail(ctx context.Context, inviter domain.UserID, planID domain.PlanID, email string, canEdit bool) (InviteResult, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return InviteResult{}, apperr.Validation("email", "must be a valid email address")
	}
	return s.invite(ctx, inviter, planID, canEdit, func(ctx context.Context) (domain.User, error) {
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, userrepo.ErrNotFound) {
				return domain.User{}, apperr.New(apperr.NotFound, "no user with that email address").
					WithCode("USER_NOT_FOUND").
					WithDetails(map[string]any{"email": email})
			}
			return domain.User{}, err
		}
		return u, nil
	})
}

// invite resolves the target only after the ownership check.
func (s *Service) invite(ctx context.Context, inviter domain.UserID, planID domain.PlanID, canEdit bool, lookup func(context.Context) (domain.User, error)) (InviteResult, error) {
	var res InviteResult
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.loadPlan(ctx, planID)
		if err != nil {
			return err
		}
		if p.OwnerID != inviter {
			return apperr.New(apperr.PermissionDenied, "only the plan owner can share this plan")
		}
		target, err := lookup(ctx)
		if err != nil {
			return err
		}
		if target.ID == inviter {
			return apperr.New(apperr.InvalidTarget, "you cannot share a plan with yourself").WithCode("CANNOT_SHARE_WITH_SELF")
		}

		now := s.clk.Now().UTC()
		existing, err := s.shares.GetByPlanAndInvitee(ctx, planID, target.ID)
		switch {
		case err == nil:
			switch existing.Status {
			case domain.ShareStatusPending:
				res = InviteResult{Share: existing, Outcome: domain.InviteAlreadyPending}
				return nil
			case domain.ShareStatusAccepted:
				res = InviteResult{Share: existing, Outcome: domain.InviteAlreadyAccepted}
				return nil
			default:
				existing.Status = domain.ShareStatusPending
				existing.CanEdit = canEdit
				existing.InviteeEmail = target.Email
				existing.UpdatedAt = now
				if err := s.shares.Save(ctx, existing); err != nil {
					return err
				}
				res = InviteResult{Share: existing, Outcome: domain.InviteReinvited}
				return nil
			}
		case errors.Is(err, sharerepo.ErrNotFound):
		default:
			return err
		}

		sh := domain.Share{
			ID:           s.newShareID(),
			PlanID:       planID,
			InviterID:    inviter,
			InviteeID:    target.ID,
			InviteeEmail: target.Email,
			CanEdit:      canEdit,
			Status:       domain.ShareStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.shares.Create(ctx, sh); err != nil {
			if errors.Is(err, sharerepo.ErrAlreadyExists) {
				return apperr.New(apperr.Conflict, "plan is already shared with this user").WithCode("SHARE_CONFLICT").WithCause(err)
			}
			return err
		}
		res = InviteResult{Share: sh, Outcome: domain.InviteCreated}
		return nil
	})
	if err != nil {
		return InviteResult{}, err
	}
	return res, nil
}

// Respond lets the invitee accept or reject a pending invitation.
func (s *Service) Respond(ctx context.Context, actor domain.UserID, shareID domain.ShareID, action domain.ShareAction) (domain.Share, error) {
	var out domain.Share
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		sh, err := s.shares.GetByID(ctx, shareID)
		if err != nil {
			if errors.Is(err, sharerepo.ErrNotFound) {
				return shareNotFound()
			}
			return err
		}
		if sh.InviteeID != actor {
			return apperr.New(apperr.PermissionDenied, "this invitation is not addressed to you")
		}
		if sh.Status != domain.ShareStatusPending {
			return apperr.New(apperr.InvalidState, "invitation has already been answered").
				WithCode("SHARE_NOT_PENDING").
				WithDetails(map[string]any{"status": string(sh.Status)})
		}
		switch domain.ShareAction(strings.ToLower(strings.TrimSpace(string(action)))) {
		case domain.ShareActionAccept:
			sh.Status = domain.ShareStatusAccepted
		case domain.ShareActionReject:
			sh.Status = domain.ShareStatusRejected
		default:
			return apperr.Validation("action", "must be accept or reject")
		}
		sh.UpdatedAt = s.clk.Now().UTC()
		if err := s.shares.Save(ctx, sh); err != nil {
			return err
		}
		out = sh
		return nil
	})
	if err != nil {
		return domain.Share{}, err
	}
	return out, nil
}

// Revoke deletes a share of the owner's plan regardless of its status.
func (s *Service) Revoke(ctx context.Context, owner domain.UserID, planID domain.PlanID, shareID domain.ShareID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.loadPlan(ctx, planID)
		if err != nil {
			return err
		}
		if p.OwnerID != owner {
			return apperr.New(apperr.PermissionDenied, "only the plan owner can revoke shares")
		}
		sh, err := s.shares.GetByID(ctx, shareID)
		if err != nil {
			if errors.Is(err, sharerepo.ErrNotFound) {
				return shareNotFound()
			}
			return err
		}
		if sh.PlanID != planID {
			return apperr.New(apperr.OwnershipMismatch, "share does not belong to this plan")
		}
		if err := s.shares.Delete(ctx, shareID); err != nil {
			if errors.Is(err, sharerepo.ErrNotFound) {
				return shareNotFound()
			}
			return err
		}
		return nil
	})
}

// ListShares returns every share of the owner's plan with the invitee profile.
func (s *Service) ListShares(ctx context.Context, owner domain.UserID, planID domain.PlanID) ([]ShareListing, error) {
	if _, _, err := s.Authorize(ctx, planID, owner, domain.AccessOwner); err != nil {
		return nil, err
	}
	shs, err := s.shares.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	out := make([]ShareListing, 0, len(shs))
	for _, sh := range shs {
		u, err := s.users.GetByID(ctx, sh.InviteeID)
		if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
			return nil, err
		}
		out = append(out, ShareListing{Share: sh, Invitee: u})
	}
	return out, nil
}

// PendingInvitations lists invitations awaiting the actor's answer.
func (s *Service) PendingInvitations(ctx context.Context, actor domain.UserID) ([]Invitation, error) {
	shs, err := s.shares.ListByInvitee(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]Invitation, 0)
	for _, sh := range shs {
		if sh.Status != domain.ShareStatusPending {
			continue
		}
		p, err := s.plans.GetByID(ctx, sh.PlanID)
		if err != nil {
			if errors.Is(err, planrepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		inviter, err := s.users.GetByID(ctx, sh.InviterID)
		if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
			return nil, err
		}
		out = append(out, Invitation{Share: sh, Plan: p, Inviter: inviter})
	}
	return out, nil
}

// SharedWithMe lists plans the actor can open through an accepted share.
func (s *Service) SharedWithMe(ctx context.Context, actor domain.UserID) ([]SharedPlan, error) {
	shs, err := s.shares.ListByInvitee(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]SharedPlan, 0)
	for _, sh := range shs {
		if sh.Status != domain.ShareStatusAccepted {
			continue
		}
		p, err := s.plans.GetByID(ctx, sh.PlanID)
		if err != nil {
			if errors.Is(err, planrepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		owner, err := s.users.GetByID(ctx, p.OwnerID)
		if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
			return nil, err
		}
		out = append(out, SharedPlan{Plan: p, Share: sh, Owner: owner})
	}
	return out, nil
}
