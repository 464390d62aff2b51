package domain

import "time"

type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "PENDING"
	ShareStatusAccepted ShareStatus = "ACCEPTED"
	ShareStatusRejected ShareStatus = "REJECTED"
)

// Share records a plan being offered to another user.
type Share struct {
	ID        ShareID
	PlanID    PlanID
	InviterID UserID
	InviteeID UserID
	// InviteeEmail is the address the invitation was sent to, kept for display.
	InviteeEmail string

	CanEdit bool
	Status  ShareStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the share still counts towards the (plan, invitee) uniqueness rule.
func (s Share) Active() bool { return s.Status != ShareStatusRejected }

type ShareAction string

const (
	ShareActionAccept ShareAction = "accept"
	ShareActionReject ShareAction = "reject"
)

// InviteOutcome tells the caller what an invite did.
type InviteOutcome string

const (
	InviteCreated         InviteOutcome = "created"
	InviteReinvited       InviteOutcome = "reinvited"
	InviteAlreadyPending  InviteOutcome = "already_pending"
	InviteAlreadyAccepted InviteOutcome = "already_accepted"
)
