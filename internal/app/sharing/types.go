package sharing

import "github.com/Overland-East-Bay/travel-planner-api/internal/domain"

// InviteResult is the share after an invite and what the invite did to it.
type InviteResult struct {
	Share   domain.Share
	Outcome domain.InviteOutcome
}

// Invitation is a pending share as seen by its invitee.
type Invitation struct {
	Share   domain.Share
	Plan    domain.Plan
	Inviter domain.User
}

// SharedPlan is a plan reachable through an accepted share.
type SharedPlan struct {
	Plan  domain.Plan
	Share domain.Share
	Owner domain.User
}

// ShareListing is a share on the owner's plan, enriched with the invitee profile.
type ShareListing struct {
	Share   domain.Share
	Invitee domain.User
}
